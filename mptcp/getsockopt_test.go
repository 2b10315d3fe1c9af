package mptcp_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	. "github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/usermem"
)

func TestSession_GetOption_Int(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, sess *Session)
		level   int
		opt     int
		size    int
		want    []byte
		wantErr error
	}{
		{
			name: "success: single byte for a small value",
			setup: func(t *testing.T, sess *Session) {
				require.NoError(t, sess.SetOption(context.Background(), abi.SOL_TCP, abi.TCP_KEEPCNT, abi.PutInt32(42)))
			},
			level: abi.SOL_TCP,
			opt:   abi.TCP_KEEPCNT,
			size:  1,
			want:  []byte{42},
		},
		{
			name: "success: full int",
			setup: func(t *testing.T, sess *Session) {
				require.NoError(t, sess.SetOption(context.Background(), abi.SOL_TCP, abi.TCP_KEEPCNT, abi.PutInt32(42)))
			},
			level: abi.SOL_TCP,
			opt:   abi.TCP_KEEPCNT,
			size:  8,
			want:  abi.PutInt32(42),
		},
		{
			name: "success: large value is truncated",
			setup: func(t *testing.T, sess *Session) {
				require.NoError(t, sess.SetOption(context.Background(), abi.SOL_TCP, abi.TCP_KEEPIDLE, abi.PutInt32(300)))
			},
			level: abi.SOL_TCP,
			opt:   abi.TCP_KEEPIDLE,
			size:  2,
			want:  abi.PutInt32(300)[:2],
		},
		{
			name:  "success: keepidle falls back to sysctl",
			setup: func(t *testing.T, sess *Session) {},
			level: abi.SOL_TCP,
			opt:   abi.TCP_KEEPIDLE,
			size:  4,
			want:  abi.PutInt32(7200),
		},
		{
			name:  "success: keepcnt falls back to sysctl",
			setup: func(t *testing.T, sess *Session) {},
			level: abi.SOL_TCP,
			opt:   abi.TCP_KEEPCNT,
			size:  4,
			want:  abi.PutInt32(9),
		},
		{
			name:  "success: is mptcp",
			setup: func(t *testing.T, sess *Session) {},
			level: abi.SOL_TCP,
			opt:   abi.TCP_IS_MPTCP,
			size:  4,
			want:  abi.PutInt32(1),
		},
		{
			name: "success: tos",
			setup: func(t *testing.T, sess *Session) {
				require.NoError(t, sess.SetOption(context.Background(), abi.SOL_IP, abi.IP_TOS, abi.PutInt32(0x10)))
			},
			level: abi.SOL_IP,
			opt:   abi.IP_TOS,
			size:  1,
			want:  []byte{0x10},
		},
		{
			name:  "success: zero length writes nothing",
			setup: func(t *testing.T, sess *Session) {},
			level: abi.SOL_TCP,
			opt:   abi.TCP_NODELAY,
			size:  0,
			want:  []byte{},
		},
		{
			name:  "success: maxseg is read from the first subflow",
			setup: func(t *testing.T, sess *Session) {},
			level: abi.SOL_TCP,
			opt:   abi.TCP_MAXSEG,
			size:  4,
			want:  abi.PutInt32(1460),
		},
		{
			name:    "failure: unknown SOL_TCP name",
			setup:   func(t *testing.T, sess *Session) {},
			level:   abi.SOL_TCP,
			opt:     9999,
			size:    4,
			wantErr: errors.ErrNotSupported,
		},
		{
			name:    "failure: unknown level",
			setup:   func(t *testing.T, sess *Session) {},
			level:   9999,
			opt:     1,
			size:    4,
			wantErr: errors.ErrNotSupported,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, _, _ := newSyncedSession(t, 1)
			tt.setup(t, sess)

			b := make([]byte, tt.size)
			buf := NewBuffer(b)
			err := sess.GetOption(context.Background(), tt.level, tt.opt, buf)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.size, buf.Len)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), buf.Len)
			assert.Equal(t, tt.want, b[:buf.Len])
		})
	}
}

func TestSession_GetOption_Socket(t *testing.T) {
	ctx := context.Background()

	t.Run("success: sndbuf truncated to the buffer", func(t *testing.T) {
		sess, _, _ := newSyncedSession(t, 1)
		require.NoError(t, sess.SetOption(ctx, abi.SOL_SOCKET, abi.SO_SNDBUF, abi.PutInt32(65536)))
		b := make([]byte, 4)
		buf := NewBuffer(b)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_SNDBUF, buf))
		assert.Equal(t, abi.PutInt32(131072), b)
	})

	t.Run("success: linger", func(t *testing.T) {
		sess, _, _ := newSyncedSession(t, 1)
		l := abi.Linger{OnOff: 1, Linger: 10}
		require.NoError(t, sess.SetOption(ctx, abi.SOL_SOCKET, abi.SO_LINGER, abi.Marshal(&l)))
		b := make([]byte, 16)
		buf := NewBuffer(b)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_LINGER, buf))
		assert.Equal(t, abi.SizeOfLinger, buf.Len)
		assert.Equal(t, abi.Marshal(&l), b[:buf.Len])
	})

	t.Run("success: timestamp reflects the enabled variant", func(t *testing.T) {
		sess, _, _ := newSyncedSession(t, 1)
		require.NoError(t, sess.SetOption(ctx, abi.SOL_SOCKET, abi.SO_TIMESTAMP_OLD, abi.PutInt32(1)))
		b := make([]byte, 4)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_TIMESTAMP_OLD, NewBuffer(b)))
		assert.Equal(t, abi.PutInt32(1), b)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_TIMESTAMPNS_OLD, NewBuffer(b)))
		assert.Equal(t, abi.PutInt32(0), b)
	})

	t.Run("failure: bindtodevice needs an interface name buffer", func(t *testing.T) {
		sess, _, _ := newSyncedSession(t, 1)
		err := sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_BINDTODEVICE, NewBuffer(make([]byte, 4)))
		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	})

	t.Run("failure: negative length", func(t *testing.T) {
		sess, _, _ := newSyncedSession(t, 1)
		buf := &Buffer{Mem: usermem.NewBytesIO(4), Len: -1}
		err := sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_KEEPALIVE, buf)
		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
		assert.Equal(t, -1, buf.Len)
	})

	t.Run("failure: access fault leaves the length untouched", func(t *testing.T) {
		sess, _, _ := newSyncedSession(t, 1)
		buf := &Buffer{Mem: usermem.FaultIO{}, Len: 4}
		err := sess.GetOption(ctx, abi.SOL_SOCKET, abi.SO_KEEPALIVE, buf)
		assert.ErrorIs(t, err, errors.ErrAccessFault)
		assert.Equal(t, 4, buf.Len)
	})
}

func TestSession_GetOption_Congestion(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newSyncedSession(t, 2)
	require.NoError(t, sess.SetOption(ctx, abi.SOL_TCP, abi.TCP_CONGESTION, []byte("reno")))

	b := make([]byte, abi.TCP_CA_NAME_MAX)
	buf := NewBuffer(b)
	require.NoError(t, sess.GetOption(ctx, abi.SOL_TCP, abi.TCP_CONGESTION, buf))
	assert.Equal(t, abi.TCP_CA_NAME_MAX, buf.Len)
	assert.Equal(t, "reno", string(b[:4]))
	assert.Zero(t, b[4])
}

func TestSession_GetOption_FirstLargeLen(t *testing.T) {
	tests := []struct {
		name    string
		optName int
		memLen  int
		wantLen int
	}{
		{
			name:    "success: maxseg",
			optName: abi.TCP_MAXSEG,
			memLen:  abi.SizeOfInt32,
			wantLen: abi.SizeOfInt32,
		},
		{
			name:    "success: tcp_info",
			optName: abi.TCP_INFO,
			memLen:  abi.SizeOfTCPInfo,
			wantLen: abi.SizeOfTCPInfo,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			sess, _, _ := newSyncedSession(t, 1)

			// 呼び出し元の長さはメモリの大きさより大きくてもよい
			mem := &usermem.BytesIO{Bytes: make([]byte, tt.memLen)}
			buf := &Buffer{Mem: mem, Len: math.MaxInt}
			require.NoError(t, sess.GetOption(ctx, abi.SOL_TCP, tt.optName, buf))
			assert.Equal(t, tt.wantLen, buf.Len)
		})
	}
}
