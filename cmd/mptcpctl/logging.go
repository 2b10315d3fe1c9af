package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func logReplacements(groups []string, a slog.Attr) slog.Attr {
	// 時刻は出力しない
	if a.Key == slog.TimeKey && len(groups) == 0 && !logTimeFlag {
		return slog.Attr{}
	}

	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
	}

	return a
}

// newLogger は、level 以上のログを w へ出力するロガーを返却します。
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	l, ok := logLevelMap[level]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       l,
		ReplaceAttr: logReplacements,
	})
	return slog.New(h), nil
}
