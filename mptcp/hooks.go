package mptcp

import (
	"context"

	"github.com/aptpod/mptcp-go/transport"
)

// SubflowFactoryは、最初のサブフローを生成するファクトリです。
//
// 最初のサブフローが必要な操作で、セッションにまだ最初のサブフローが存在しない場合に呼び出されます。
type SubflowFactory interface {
	NewSubflow(ctx context.Context) (transport.Conn, error)
}

// SubflowFactoryFuncは、SubflowFactoryの関数です。
type SubflowFactoryFunc func(ctx context.Context) (transport.Conn, error)

func (f SubflowFactoryFunc) NewSubflow(ctx context.Context) (transport.Conn, error) {
	return f(ctx)
}

type (
	nopWriteSpaceHandler  struct{}
	nopPendingPushHandler struct{}
)

func (nopWriteSpaceHandler) OnWriteSpace(ev *WriteSpaceEvent)   {}
func (nopPendingPushHandler) OnPendingPush(ev *PendingPushEvent) {}

// WriteSpaceEventは、送信可能領域の閾値が変更されたイベントです。
type WriteSpaceEvent struct {
	// セッションID
	SessionID string
	// 新しい閾値
	NotsentLowat uint32
}

// WriteSpaceHandlerは、送信可能領域の閾値が変更されたときのハンドラです。
type WriteSpaceHandler interface {
	OnWriteSpace(ev *WriteSpaceEvent)
}

// WriteSpaceHandlerFuncは、WriteSpaceHandlerの関数です。
type WriteSpaceHandlerFunc func(ev *WriteSpaceEvent)

func (f WriteSpaceHandlerFunc) OnWriteSpace(ev *WriteSpaceEvent) {
	f(ev)
}

// PendingPushEventは、保留中のデータを送信する必要が生じたイベントです。
//
// TCP_CORK が解除された場合、または TCP_NODELAY が有効になった場合に発生します。
type PendingPushEvent struct {
	// セッションID
	SessionID string
	// 契機となったオプション
	Name int
}

// PendingPushHandlerは、保留中のデータを送信する必要が生じたときのハンドラです。
type PendingPushHandler interface {
	OnPendingPush(ev *PendingPushEvent)
}

// PendingPushHandlerFuncは、PendingPushHandlerの関数です。
type PendingPushHandlerFunc func(ev *PendingPushEvent)

func (f PendingPushHandlerFunc) OnPendingPush(ev *PendingPushEvent) {
	f(ev)
}

// Observerは、セッションの操作を観測するインターフェースです。
//
// メソッドはセッションのロックを保持した状態で呼び出されるため、セッションを操作してはいけません。
type Observer interface {
	// OnSetOptionは、SetOptionの完了時に呼び出されます。
	OnSetOption(level, name int, err error)
	// OnGetOptionは、GetOptionの完了時に呼び出されます。
	OnGetOption(level, name int, err error)
	// OnFanoutは、サブフローへの一斉適用の完了時に呼び出されます。
	OnFanout(level, name int, applied, failed int)
	// OnSyncは、サブフローの同期の完了時に呼び出されます。replayed は設定を再適用したかどうかです。
	OnSync(replayed bool, err error)
	// OnSeqBumpは、セッションのシーケンスが進んだときに呼び出されます。
	OnSeqBump(seq Seq)
	// OnSlowLockは、サブフローのロック取得で待機が発生したときに呼び出されます。
	OnSlowLock()
}

// NopObserverは、何もしないObserverです。
type NopObserver struct{}

func (NopObserver) OnSetOption(level, name int, err error)        {}
func (NopObserver) OnGetOption(level, name int, err error)        {}
func (NopObserver) OnFanout(level, name int, applied, failed int) {}
func (NopObserver) OnSync(replayed bool, err error)               {}
func (NopObserver) OnSeqBump(seq Seq)                             {}
func (NopObserver) OnSlowLock()                                   {}
