package log

import (
	"context"
	"fmt"
	"log/slog"
)

type slogLogger struct {
	l *slog.Logger
}

// NewSlogは、`log/slog` のロガーへ出力するロガーを返却します。
//
// コンテキストのセッションIDとサブフローIDは属性として出力します。
func NewSlog(l *slog.Logger) Logger {
	return &slogLogger{l: l}
}

func (l *slogLogger) Infof(ctx context.Context, format string, args ...any) {
	l.log(ctx, slog.LevelInfo, format, args...)
}

func (l *slogLogger) Warnf(ctx context.Context, format string, args ...any) {
	l.log(ctx, slog.LevelWarn, format, args...)
}

func (l *slogLogger) Errorf(ctx context.Context, format string, args ...any) {
	l.log(ctx, slog.LevelError, format, args...)
}

func (l *slogLogger) Debugf(ctx context.Context, format string, args ...any) {
	l.log(ctx, slog.LevelDebug, format, args...)
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, format string, args ...any) {
	if !l.l.Enabled(ctx, level) {
		return
	}
	var attrs []slog.Attr
	if id := TrackSessionID(ctx); id != "" {
		attrs = append(attrs, slog.String("session", id))
	}
	if id := TrackSubflowID(ctx); id != "" {
		attrs = append(attrs, slog.String("subflow", id))
	}
	l.l.LogAttrs(ctx, level, fmt.Sprintf(format, args...), attrs...)
}
