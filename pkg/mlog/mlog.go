// Package mlog はパイプライン全体で使うレベル付きロガー。
// slog のテキストハンドラに printf 形式のヘルパを被せている。
package mlog

import (
	"fmt"
	"log/slog"
	"os"
)

type Level int

const (
	VERBOSE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
)

var (
	level  = INFO
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
)

func SetLevel(l Level) {
	level = l
}

func IsVerbose() bool {
	return level <= VERBOSE
}

func IsDebug() bool {
	return level <= DEBUG
}

// V はVERBOSE時のみ出力する
func V(format string, args ...any) {
	if IsVerbose() {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

func D(format string, args ...any) {
	if IsDebug() {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

func I(format string, args ...any) {
	if level <= INFO {
		logger.Info(fmt.Sprintf(format, args...))
	}
}

func W(format string, args ...any) {
	if level <= WARN {
		logger.Warn(fmt.Sprintf(format, args...))
	}
}

func E(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...))
}
