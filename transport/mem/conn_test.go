package mem_test

import (
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/transport"
	. "github.com/aptpod/mptcp-go/transport/mem"
)

func TestPipe(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Run("single", func(t *testing.T) {
		cli, srv := Pipe(Config{}, Config{})
		defer srv.Close()
		defer cli.Close()
		msg := []byte{1, 2, 3, 4, 5}
		go func() {
			assert.NoError(t, cli.Write(msg))
		}()
		got, err := srv.Read()
		require.NoError(t, err)
		assert.Equal(t, msg, got)
		assert.Equal(t, cli.TxBytesCounterValue(), srv.RxBytesCounterValue())
		assert.Equal(t, uint64(5), srv.RxBytesCounterValue())
	})

	t.Run("addresses", func(t *testing.T) {
		a := &net.TCPAddr{IP: net.IPv4(10, 0, 0, 1), Port: 1000}
		b := &net.TCPAddr{IP: net.IPv4(10, 0, 0, 2), Port: 2000}
		cli, srv := Pipe(Config{LocalAddr: a}, Config{LocalAddr: b})
		defer srv.Close()
		defer cli.Close()
		assert.Equal(t, a, cli.LocalAddr())
		assert.Equal(t, b, cli.RemoteAddr())
		assert.Equal(t, b, srv.LocalAddr())
		assert.Equal(t, a, srv.RemoteAddr())
	})

	t.Run("call write after the local pipe was closed", func(t *testing.T) {
		cli, srv := Pipe(Config{}, Config{})
		require.NoError(t, cli.Close())
		assert.ErrorIs(t, cli.Write([]byte{1, 2, 3, 4, 5}), transport.ErrAlreadyClosed)
		assert.ErrorIs(t, srv.Write([]byte{1, 2, 3, 4, 5}), transport.ErrAlreadyClosed)
		_, err := srv.Read()
		assert.ErrorIs(t, err, transport.EOF)
		assert.ErrorIs(t, cli.SetOption(abi.SOL_TCP, abi.TCP_NODELAY, abi.PutInt32(1)), errors.ErrConnectionClosed)
	})
}

func TestConn_SetOption(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		optname   int
		val       []byte
		wantErrno syscall.Errno
	}{
		{name: "success: nodelay", level: abi.SOL_TCP, optname: abi.TCP_NODELAY, val: abi.PutInt32(1)},
		{name: "success: congestion", level: abi.SOL_TCP, optname: abi.TCP_CONGESTION, val: []byte("reno")},
		{name: "success: congestion with nul", level: abi.SOL_TCP, optname: abi.TCP_CONGESTION, val: []byte("reno\x00xx")},
		{name: "success: linger", level: abi.SOL_SOCKET, optname: abi.SO_LINGER, val: make([]byte, 8)},
		{name: "success: maxseg zero", level: abi.SOL_TCP, optname: abi.TCP_MAXSEG, val: abi.PutInt32(0)},
		{name: "success: maxseg", level: abi.SOL_TCP, optname: abi.TCP_MAXSEG, val: abi.PutInt32(1400)},
		{name: "failure: unknown congestion", level: abi.SOL_TCP, optname: abi.TCP_CONGESTION, val: []byte("bbr"), wantErrno: syscall.ENOENT},
		{name: "failure: short int", level: abi.SOL_TCP, optname: abi.TCP_NODELAY, val: []byte{1}, wantErrno: syscall.EINVAL},
		{name: "failure: keepidle zero", level: abi.SOL_TCP, optname: abi.TCP_KEEPIDLE, val: abi.PutInt32(0), wantErrno: syscall.EINVAL},
		{name: "failure: keepcnt too large", level: abi.SOL_TCP, optname: abi.TCP_KEEPCNT, val: abi.PutInt32(128), wantErrno: syscall.EINVAL},
		{name: "failure: maxseg too small", level: abi.SOL_TCP, optname: abi.TCP_MAXSEG, val: abi.PutInt32(10), wantErrno: syscall.EINVAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{}, nil)
			defer c.Close()
			err := c.SetOption(tt.level, tt.optname, tt.val)
			assert.Equal(t, tt.wantErrno, errors.Errno(err))
			assert.Equal(t, 1, c.SetCount(tt.level, tt.optname))
		})
	}
}

func TestConn_GetOption(t *testing.T) {
	c := New(Config{RTT: 20 * time.Millisecond, SndCwnd: 12}, nil)
	defer c.Close()

	t.Run("success: unset int is zero", func(t *testing.T) {
		buf := make([]byte, 4)
		n, err := c.GetOption(abi.SOL_TCP, abi.TCP_CORK, buf)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, int32(0), abi.Int32(buf))
	})

	t.Run("success: stored int", func(t *testing.T) {
		require.NoError(t, c.SetOption(abi.SOL_TCP, abi.TCP_CORK, abi.PutInt32(1)))
		v, ok := c.IntOption(abi.SOL_TCP, abi.TCP_CORK)
		require.True(t, ok)
		assert.Equal(t, int32(1), v)
	})

	t.Run("success: congestion is padded", func(t *testing.T) {
		assert.Equal(t, "cubic", c.Congestion())
		buf := make([]byte, 32)
		n, err := c.GetOption(abi.SOL_TCP, abi.TCP_CONGESTION, buf)
		require.NoError(t, err)
		assert.Equal(t, abi.TCP_CA_NAME_MAX, n)
		assert.Equal(t, "cubic", string(buf[:5]))
		assert.Zero(t, buf[5])
	})

	t.Run("success: truncated", func(t *testing.T) {
		buf := make([]byte, 2)
		n, err := c.GetOption(abi.SOL_TCP, abi.TCP_CONGESTION, buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "cu", string(buf))
	})

	t.Run("success: tcp_info", func(t *testing.T) {
		buf := make([]byte, abi.SizeOfTCPInfo)
		n, err := c.GetOption(abi.SOL_TCP, abi.TCP_INFO, buf)
		require.NoError(t, err)
		assert.Equal(t, abi.SizeOfTCPInfo, n)
		var info abi.TCPInfo
		info.UnmarshalBytes(buf)
		assert.Equal(t, uint32(20000), info.RTT)
		assert.Equal(t, uint32(12), info.SndCwnd)
		assert.Equal(t, uint32(1460), info.SndMSS)
		assert.Equal(t, uint8(abi.TCP_CLOSE_WAIT), info.State)
	})
}

func TestConn_FailOption(t *testing.T) {
	c := New(Config{}, nil)
	defer c.Close()

	injected := errors.FromErrno(syscall.EPERM)
	c.FailOption(abi.SOL_SOCKET, abi.SO_MARK, injected)
	assert.ErrorIs(t, c.SetOption(abi.SOL_SOCKET, abi.SO_MARK, abi.PutInt32(1)), syscall.EPERM)
	_, ok := c.IntOption(abi.SOL_SOCKET, abi.SO_MARK)
	assert.False(t, ok)

	c.FailOption(abi.SOL_SOCKET, abi.SO_MARK, nil)
	assert.NoError(t, c.SetOption(abi.SOL_SOCKET, abi.SO_MARK, abi.PutInt32(1)))
	assert.Equal(t, 2, c.SetCount(abi.SOL_SOCKET, abi.SO_MARK))
}
