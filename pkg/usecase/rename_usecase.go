package usecase

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/miu200521358/face-auto-trace/pkg/mi18n"
	"github.com/miu200521358/face-auto-trace/pkg/mlog"
	"github.com/miu200521358/face-auto-trace/pkg/motion"
)

// RenameTable はチャンネル名の変換表。ボーン・モーフで共用する。
type RenameTable map[string]string

// LoadRenameTable は「元名 -> 先名」を1行1組で読み込む。
// 空パスやファイルなしは恒等変換(空テーブル)を返す。#始まりと空行は無視。
func LoadRenameTable(path string) (RenameTable, error) {
	table := make(RenameTable)
	if path == "" {
		return table, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return nil, fmt.Errorf("failed to open rename table: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		src, dst, found := strings.Cut(line, "->")
		if !found {
			mlog.W(mi18n.T("リネーム定義不正行", map[string]interface{}{"Line": line}))
			continue
		}
		table[strings.TrimSpace(src)] = strings.TrimSpace(dst)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rename table: %w", err)
	}
	return table, nil
}

// Rename 変換表で全チャンネル名を書き換える。表にない名前はそのまま。
// 変換先が重複した場合は警告だけ出し、両方とも出力に残す
// (どちらが勝つかはファイルを読む側の後勝ち)。
func Rename(doc *motion.MotionDocument, table RenameTable) *motion.MotionDocument {
	mlog.I(mi18n.T("リネーム開始"))

	// 回転チャンネルと移動チャンネルは別レコード列として書き出すため、
	// 同名なら同一ボーンのフレームを取り合う。ボーン名は種類をまたいで1つの集合で見る。
	boneNames := make(map[string]struct{})
	for _, ch := range doc.RotationChannels {
		ch.Name = renameOne(ch.Name, table, boneNames)
	}
	for _, ch := range doc.PositionChannels {
		ch.Name = renameOne(ch.Name, table, boneNames)
	}

	morphNames := make(map[string]struct{})
	for _, ch := range doc.MorphChannels {
		ch.Name = renameOne(ch.Name, table, morphNames)
	}

	return doc
}

func renameOne(name string, table RenameTable, used map[string]struct{}) string {
	target, ok := table[name]
	if !ok {
		target = name
	}
	if _, dup := used[target]; dup {
		mlog.W(mi18n.T("リネーム衝突", map[string]interface{}{"Target": target}))
	}
	used[target] = struct{}{}
	return target
}
