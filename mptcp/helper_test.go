package mptcp_test

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/transport/mem"
)

var remoteAddr = &net.TCPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 443}

func localAddr(i int) *net.TCPAddr {
	return &net.TCPAddr{IP: net.IPv4(10, 0, 0, byte(i+1)), Port: 40000 + i}
}

func newConn(i int, congestions ...string) *mem.Conn {
	return mem.New(mem.Config{LocalAddr: localAddr(i), Congestions: congestions}, remoteAddr)
}

// newSyncedSession は、n 本の同期済みサブフローを持つセッションを返却します。
func newSyncedSession(t *testing.T, n int, opts ...mptcp.SessionOption) (*mptcp.Session, []*mem.Conn, []*mptcp.Subflow) {
	t.Helper()
	ctx := context.Background()
	sess, err := mptcp.NewSession(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close(ctx) })

	conns := make([]*mem.Conn, 0, n)
	subflows := make([]*mptcp.Subflow, 0, n)
	for i := 0; i < n; i++ {
		conn := newConn(i)
		sf, err := sess.AddSubflow(ctx, conn)
		require.NoError(t, err)
		require.NoError(t, sess.SyncSubflow(ctx, sf))
		conns = append(conns, conn)
		subflows = append(subflows, sf)
	}
	return sess, conns, subflows
}

// recordingObserver は、呼び出しを記録する mptcp.Observer です。
type recordingObserver struct {
	mu       sync.Mutex
	sets     int
	gets     int
	bumps    []mptcp.Seq
	applied  int
	failed   int
	syncs    int
	replayed int
}

func (o *recordingObserver) OnSetOption(level, name int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sets++
}

func (o *recordingObserver) OnGetOption(level, name int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.gets++
}

func (o *recordingObserver) OnFanout(level, name int, applied, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.applied += applied
	o.failed += failed
}

func (o *recordingObserver) OnSync(replayed bool, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.syncs++
	if replayed {
		o.replayed++
	}
}

func (o *recordingObserver) OnSeqBump(seq mptcp.Seq) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bumps = append(o.bumps, seq)
}

func (o *recordingObserver) OnSlowLock() {}
