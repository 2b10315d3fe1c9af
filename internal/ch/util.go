// Package ch は、コンテキストでキャンセルできるチャネル操作をまとめたパッケージです。
package ch

import "context"

// WriteOrDone は、v を c へ送信します。ctx が終了した場合は送信せずに false を返します。
func WriteOrDone[T any](ctx context.Context, v T, c chan<- T) bool {
	select {
	case c <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// ReadOrDoneOne は、c から1つ受信します。ctx が終了した場合または c が閉じられた場合は false を返します。
func ReadOrDoneOne[T any](ctx context.Context, c <-chan T) (T, bool) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, false
	case v, ok := <-c:
		return v, ok
	}
}
