// Package vmd はMotionDocumentをVMDコンテナに書き出す(書き込み専用)。
package vmd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/miu200521358/face-auto-trace/pkg/motion"
)

const (
	versionFieldLen   = 30
	modelNameFieldLen = 20
	boneNameFieldLen  = 15
	morphNameFieldLen = 15
)

// ボーンキーフレの既定補間(MMD標準の線形)
var defaultInterpolation = [64]byte{
	20, 20, 0, 0, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107,
	20, 20, 20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107, 0,
	20, 20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107, 0, 0,
	20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107, 0, 0, 0,
}

// Write はdoc.Pathにモーションを書き出す
func Write(doc *motion.MotionDocument) error {
	file, err := os.Create(doc.Path)
	if err != nil {
		return fmt.Errorf("failed to create vmd file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, doc); err != nil {
		return fmt.Errorf("failed to write vmd file %s: %w", doc.Path, err)
	}
	return nil
}

// Encode はVMDコンテナをwへ書き出す。レコードのチャンネル間の並びは
// フォーマット上未規定だが、出力を安定させるため名前順にしている。
func Encode(w io.Writer, doc *motion.MotionDocument) error {
	bw := bufio.NewWriter(w)

	if err := writeFixedString(bw, doc.Version, versionFieldLen); err != nil {
		return err
	}
	if err := writeFixedString(bw, doc.ModelName, modelNameFieldLen); err != nil {
		return err
	}

	if err := writeBoneFrames(bw, doc); err != nil {
		return err
	}
	if err := writeMorphFrames(bw, doc); err != nil {
		return err
	}

	// カメラ・照明・セルフ影・IK表示は出力しない(件数0)
	for i := 0; i < 4; i++ {
		if err := binary.Write(bw, binary.LittleEndian, uint32(0)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeBoneFrames(w io.Writer, doc *motion.MotionDocument) error {
	count := 0
	for _, ch := range doc.RotationChannels {
		count += ch.Indexes.Len()
	}
	for _, ch := range doc.PositionChannels {
		count += ch.Indexes.Len()
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(count)); err != nil {
		return err
	}

	for _, ch := range sortedChannels(doc.RotationChannels) {
		name, err := encodeFixedString(ch.Name, boneNameFieldLen)
		if err != nil {
			return err
		}
		for _, fno := range ch.Indexes.List() {
			q := ch.Get(fno).Rotation
			record := []interface{}{
				uint32(fno),
				float32(0), float32(0), float32(0), // 回転のみのボーンは位置ゼロ
				float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W),
			}
			if err := writeBoneRecord(w, name, record); err != nil {
				return err
			}
		}
	}

	for _, ch := range sortedChannels(doc.PositionChannels) {
		name, err := encodeFixedString(ch.Name, boneNameFieldLen)
		if err != nil {
			return err
		}
		for _, fno := range ch.Indexes.List() {
			p := ch.Get(fno).Position
			record := []interface{}{
				uint32(fno),
				float32(p.X), float32(p.Y), float32(p.Z),
				float32(0), float32(0), float32(0), float32(1), // 移動のみのボーンは単位四元数
			}
			if err := writeBoneRecord(w, name, record); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeBoneRecord(w io.Writer, name []byte, record []interface{}) error {
	if _, err := w.Write(name); err != nil {
		return err
	}
	for _, v := range record {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(defaultInterpolation[:])
	return err
}

func writeMorphFrames(w io.Writer, doc *motion.MotionDocument) error {
	count := 0
	for _, ch := range doc.MorphChannels {
		count += ch.Indexes.Len()
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(count)); err != nil {
		return err
	}

	for _, ch := range sortedChannels(doc.MorphChannels) {
		name, err := encodeFixedString(ch.Name, morphNameFieldLen)
		if err != nil {
			return err
		}
		for _, fno := range ch.Indexes.List() {
			if _, err := w.Write(name); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, uint32(fno)); err != nil {
				return err
			}
			if err := binary.Write(w, binary.LittleEndian, float32(ch.Get(fno).Weight)); err != nil {
				return err
			}
		}
	}

	return nil
}

type namedChannel interface {
	*motion.RotationChannel | *motion.PositionChannel | *motion.MorphChannel
}

func sortedChannels[C namedChannel](channels map[string]C) []C {
	keys := make([]string, 0, len(channels))
	for key := range channels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	list := make([]C, 0, len(keys))
	for _, key := range keys {
		list = append(list, channels[key])
	}
	return list
}

// writeFixedString はnameをShift-JISへ変換してwidthバイトにヌル埋めで書く
func writeFixedString(w io.Writer, name string, width int) error {
	b, err := encodeFixedString(name, width)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// encodeFixedString はShift-JIS化した名前を固定幅フィールドへ収める。
// 未対応文字は決め打ちの代替文字に置換し、幅超過の切り詰めは
// マルチバイト文字の途中で切れないようにする。
func encodeFixedString(name string, width int) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	encoded, _, err := transform.Bytes(enc, []byte(name))
	if err != nil {
		return nil, fmt.Errorf("failed to encode %q to shift-jis: %w", name, err)
	}

	out := make([]byte, width)
	copy(out, truncateShiftJIS(encoded, width))
	return out, nil
}

func truncateShiftJIS(b []byte, width int) []byte {
	if len(b) <= width {
		return b
	}
	end := 0
	for end < width {
		size := 1
		if isShiftJISLead(b[end]) {
			size = 2
		}
		if end+size > width {
			break
		}
		end += size
	}
	return b[:end]
}

func isShiftJISLead(c byte) bool {
	return (c >= 0x81 && c <= 0x9F) || (c >= 0xE0 && c <= 0xFC)
}
