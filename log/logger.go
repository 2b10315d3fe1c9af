package log

import (
	"context"
)

// Loggerは、mptcp-go内で使用するロガーインターフェースです。
type Logger interface {
	Infof(context.Context, string, ...interface{})
	Warnf(context.Context, string, ...interface{})
	Errorf(context.Context, string, ...interface{})
	Debugf(context.Context, string, ...interface{})
}

var (
	trackSessionIDKey = "trackSessionIDKey"
	trackSubflowIDKey = "trackSubflowIDKey"
)

// WithTrackSessionIDは、セッションIDをコンテキストにセットします。
//
// ここで設定されたセッションIDは常にログ出力します。
func WithTrackSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, &trackSessionIDKey, id)
}

// TrackSessionIDは、コンテキストにセットされたセッションIDを取得します。
func TrackSessionID(ctx context.Context) string {
	v, ok := ctx.Value(&trackSessionIDKey).(string)
	if !ok {
		return ""
	}
	return v
}

// WithTrackSubflowIDは、サブフローIDをコンテキストにセットします。
//
// サブフローIDはサブフローへの適用や同期を行うタイミングでセットします。
func WithTrackSubflowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, &trackSubflowIDKey, id)
}

// TrackSubflowIDは、コンテキストにセットされたサブフローIDを取得します。
func TrackSubflowID(ctx context.Context) string {
	v, ok := ctx.Value(&trackSubflowIDKey).(string)
	if !ok {
		return ""
	}
	return v
}
