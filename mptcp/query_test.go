package mptcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	. "github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/usermem"
)

func TestSession_Info(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newSyncedSession(t, 3, WithSessionID("session-1"))
	sess.Account(func(c *Counters) {
		c.BytesSent = 1000
		c.BytesAcked = 900
		c.RemoteKeyReceived = true
		c.CsumEnabled = true
		c.LastDataSent = time.Now().Add(-time.Second)
	})
	sess.SetFallback(ctx)

	info := sess.Info()
	assert.Equal(t, uint8(2), info.Subflows)
	assert.Equal(t, uint8(3), info.SubflowsTotal)
	assert.Equal(t, uint8(2), info.LocalAddrUsed)
	assert.Equal(t, DefaultSysctl.SubflowsMax, info.SubflowsMax)
	assert.Equal(t, TokenFromID("session-1"), info.Token)
	assert.Equal(t, uint64(1000), info.BytesSent)
	assert.Equal(t, uint64(900), info.BytesAcked)
	assert.Equal(t, uint8(1), info.CsumEnabled)
	assert.Equal(t, uint32(abi.MPTCP_INFO_FLAG_FALLBACK|abi.MPTCP_INFO_FLAG_REMOTE_KEY_RECEIVED), info.Flags)
	assert.GreaterOrEqual(t, info.LastDataSent, uint32(1000))
	assert.Zero(t, info.LastDataRecv)
}

func TestTokenFromID(t *testing.T) {
	assert.Equal(t, TokenFromID("a"), TokenFromID("a"))
	assert.NotEqual(t, TokenFromID("a"), TokenFromID("b"))
}

func TestSession_GetOption_MPTCPInfo(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newSyncedSession(t, 2)
	sess.Account(func(c *Counters) {
		c.BytesReceived = 4096
	})
	want := sess.Info()
	full := abi.Marshal(&want)

	tests := []struct {
		name    string
		len     int
		wantLen int
	}{
		{name: "success: zero length is a probe", len: 0, wantLen: 0},
		{name: "success: truncated", len: 10, wantLen: 10},
		{name: "success: exact", len: abi.SizeOfMPTCPInfo, wantLen: abi.SizeOfMPTCPInfo},
		{name: "success: larger buffer", len: 200, wantLen: abi.SizeOfMPTCPInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, tt.len)
			buf := NewBuffer(b)
			require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_INFO, buf))
			assert.Equal(t, tt.wantLen, buf.Len)
			assert.Equal(t, full[:tt.wantLen], b[:buf.Len])
		})
	}

	t.Run("success: negative length reads the whole struct", func(t *testing.T) {
		mem := usermem.NewBytesIO(abi.SizeOfMPTCPInfo)
		buf := &Buffer{Mem: mem, Len: -1}
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_INFO, buf))
		assert.Equal(t, abi.SizeOfMPTCPInfo, buf.Len)
		var got abi.MPTCPInfo
		got.UnmarshalBytes(mem.Bytes)
		assert.Equal(t, uint64(4096), got.BytesReceived)
	})

	t.Run("failure: access fault", func(t *testing.T) {
		buf := &Buffer{Mem: usermem.FaultIO{}, Len: abi.SizeOfMPTCPInfo}
		err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_INFO, buf)
		assert.ErrorIs(t, err, errors.ErrAccessFault)
		assert.Equal(t, abi.SizeOfMPTCPInfo, buf.Len)
	})

	t.Run("failure: unknown SOL_MPTCP name", func(t *testing.T) {
		err := sess.GetOption(ctx, abi.SOL_MPTCP, 99, NewBuffer(make([]byte, 4)))
		assert.ErrorIs(t, err, errors.ErrNotSupported)
	})
}

// subflowDataBuffer は、mptcp_subflow_data のヘッダと要素の配列を格納するバッファを返却します。
func subflowDataBuffer(hdr abi.SubflowData, size int) ([]byte, *Buffer) {
	b := make([]byte, size)
	copy(b, abi.Marshal(&hdr))
	return b, NewBuffer(b)
}

func readSubflowData(b []byte) abi.SubflowData {
	var d abi.SubflowData
	d.UnmarshalBytes(b)
	return d
}

func TestSession_GetOption_TCPInfo(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newSyncedSession(t, 3)

	t.Run("success: truncated to the elements that fit", func(t *testing.T) {
		size := abi.SizeOfSubflowData + 2*abi.SizeOfTCPInfo + 10
		b, buf := subflowDataBuffer(abi.SubflowData{
			SizeSubflowData: abi.SizeOfSubflowData,
			SizeUser:        abi.SizeOfTCPInfo,
		}, size)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_TCPINFO, buf))

		assert.Equal(t, abi.SizeOfSubflowData+2*abi.SizeOfTCPInfo, buf.Len)
		want := abi.SubflowData{
			SizeSubflowData: abi.SizeOfSubflowData,
			NumSubflows:     3,
			SizeKernel:      abi.SizeOfTCPInfo,
			SizeUser:        abi.SizeOfTCPInfo,
		}
		if diff := cmp.Diff(want, readSubflowData(b)); diff != "" {
			t.Errorf("header mismatch (-want +got):\n%s", diff)
		}
		for i := 0; i < 2; i++ {
			var info abi.TCPInfo
			off := abi.SizeOfSubflowData + i*abi.SizeOfTCPInfo
			info.UnmarshalBytes(b[off : off+abi.SizeOfTCPInfo])
			assert.Equal(t, uint32(1460), info.SndMSS)
			assert.Equal(t, uint8(abi.TCP_CLOSE_WAIT), info.State)
		}
	})

	t.Run("success: caller element size larger than the kernel", func(t *testing.T) {
		size := abi.SizeOfSubflowData + 3*abi.SizeOfTCPInfo
		b, buf := subflowDataBuffer(abi.SubflowData{
			SizeSubflowData: abi.SizeOfSubflowData,
			SizeUser:        1024,
		}, size)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_TCPINFO, buf))
		assert.Equal(t, size, buf.Len)
		got := readSubflowData(b)
		assert.Equal(t, uint32(abi.SizeOfTCPInfo), got.SizeUser)
		assert.Equal(t, uint32(3), got.NumSubflows)
	})

	t.Run("success: no room for elements reports only the header", func(t *testing.T) {
		b, buf := subflowDataBuffer(abi.SubflowData{
			SizeSubflowData: abi.SizeOfSubflowData,
			SizeUser:        abi.SizeOfTCPInfo,
		}, abi.SizeOfSubflowData+8)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_TCPINFO, buf))
		assert.Equal(t, abi.SizeOfSubflowData, buf.Len)
		assert.Equal(t, uint32(3), readSubflowData(b).NumSubflows)
	})

	t.Run("success: caller header larger than the kernel", func(t *testing.T) {
		hdrSize := abi.SizeOfSubflowData + 8
		b, buf := subflowDataBuffer(abi.SubflowData{
			SizeSubflowData: uint32(hdrSize),
			SizeUser:        abi.SizeOfTCPInfo,
		}, hdrSize+abi.SizeOfTCPInfo)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_TCPINFO, buf))
		assert.Equal(t, hdrSize+abi.SizeOfTCPInfo, buf.Len)
		var info abi.TCPInfo
		info.UnmarshalBytes(b[hdrSize:])
		assert.Equal(t, uint32(1460), info.SndMSS)
	})

	failures := []struct {
		name string
		hdr  abi.SubflowData
		size int
	}{
		{
			name: "failure: buffer shorter than the header",
			hdr:  abi.SubflowData{SizeSubflowData: abi.SizeOfSubflowData},
			size: abi.SizeOfSubflowData - 1,
		},
		{
			name: "failure: declared header too small",
			hdr:  abi.SubflowData{SizeSubflowData: 8},
			size: 64,
		},
		{
			name: "failure: declared header larger than the buffer",
			hdr:  abi.SubflowData{SizeSubflowData: 128},
			size: 64,
		},
		{
			name: "failure: output fields set",
			hdr:  abi.SubflowData{SizeSubflowData: abi.SizeOfSubflowData, NumSubflows: 1},
			size: 64,
		},
		{
			name: "failure: size user overflows int",
			hdr:  abi.SubflowData{SizeSubflowData: abi.SizeOfSubflowData, SizeUser: 1 << 31},
			size: 64,
		},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, tt.size)
			copy(b, abi.Marshal(&tt.hdr))
			buf := NewBuffer(b)
			err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_TCPINFO, buf)
			assert.ErrorIs(t, err, errors.ErrInvalidArgument)
			assert.Equal(t, tt.size, buf.Len)
		})
	}
}

func TestSession_GetOption_SubflowAddrs(t *testing.T) {
	ctx := context.Background()
	sess, _, _ := newSyncedSession(t, 2)

	size := abi.SizeOfSubflowData + 2*abi.SizeOfSubflowAddrs
	b, buf := subflowDataBuffer(abi.SubflowData{
		SizeSubflowData: abi.SizeOfSubflowData,
		SizeUser:        abi.SizeOfSubflowAddrs,
	}, size)
	require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_SUBFLOW_ADDRS, buf))
	assert.Equal(t, size, buf.Len)
	assert.Equal(t, uint32(2), readSubflowData(b).NumSubflows)

	for i := 0; i < 2; i++ {
		var addrs abi.SubflowAddrs
		off := abi.SizeOfSubflowData + i*abi.SizeOfSubflowAddrs
		addrs.UnmarshalBytes(b[off:])
		assert.Equal(t, abi.SockaddrFromNetAddr(localAddr(i)), addrs.Local)
		assert.Equal(t, abi.SockaddrFromNetAddr(remoteAddr), addrs.Remote)
	}
}

func TestSession_GetOption_FullInfo(t *testing.T) {
	ctx := context.Background()
	sess, _, subflows := newSyncedSession(t, 3)

	const (
		sfInfoAddr  = 1024
		tcpInfoAddr = 4096
	)
	newRequest := func(hdr abi.FullInfo, length int) (*usermem.BytesIO, *Buffer) {
		mem := usermem.NewBytesIO(8192)
		raw := abi.Marshal(&hdr)
		copy(mem.Bytes, raw[:abi.SizeOfFullInfoHeader])
		return mem, &Buffer{Mem: mem, Len: length}
	}

	t.Run("success: arrays capped by size_arrays_user", func(t *testing.T) {
		mem, buf := newRequest(abi.FullInfo{
			SizeTCPInfoUser: abi.SizeOfTCPInfo,
			SizeSfInfoUser:  abi.SizeOfSubflowInfo,
			SizeArraysUser:  2,
			SubflowInfoPtr:  sfInfoAddr,
			TCPInfoPtr:      tcpInfoAddr,
		}, abi.SizeOfFullInfo)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, buf))
		assert.Equal(t, abi.SizeOfFullInfo, buf.Len)

		var got abi.FullInfo
		got.UnmarshalBytes(mem.Bytes)
		assert.Equal(t, uint32(3), got.NumSubflows)
		assert.Equal(t, uint32(abi.SizeOfTCPInfo), got.SizeTCPInfoKernel)
		assert.Equal(t, uint32(abi.SizeOfSubflowInfo), got.SizeSfInfoKernel)
		assert.Equal(t, uint8(3), got.MPTCPInfo.SubflowsTotal)

		for i := 0; i < 3; i++ {
			var sfi abi.SubflowInfo
			sfi.UnmarshalBytes(mem.Bytes[sfInfoAddr+i*abi.SizeOfSubflowInfo:])
			var info abi.TCPInfo
			info.UnmarshalBytes(mem.Bytes[tcpInfoAddr+i*abi.SizeOfTCPInfo:])
			if i < 2 {
				assert.Equal(t, subflows[i].ID(), sfi.ID)
				assert.Equal(t, abi.SockaddrFromNetAddr(localAddr(i)), sfi.Addrs.Local)
				assert.Equal(t, uint32(1460), info.SndMSS)
				continue
			}
			assert.Zero(t, sfi.ID)
			assert.Zero(t, info.SndMSS)
		}
	})

	t.Run("success: header only leaves mptcp_info unset", func(t *testing.T) {
		mem, buf := newRequest(abi.FullInfo{
			SizeSfInfoUser: abi.SizeOfSubflowInfo,
			SizeArraysUser: 3,
			SubflowInfoPtr: sfInfoAddr,
		}, abi.SizeOfFullInfoHeader)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, buf))
		assert.Equal(t, abi.SizeOfFullInfoHeader, buf.Len)

		var got abi.FullInfo
		got.UnmarshalBytes(mem.Bytes)
		assert.Equal(t, uint32(3), got.NumSubflows)
		assert.Zero(t, got.MPTCPInfo.SubflowsTotal)
		assert.Zero(t, got.SizeTCPInfoUser)
	})

	t.Run("success: narrow subflow info carries only the id", func(t *testing.T) {
		mem, buf := newRequest(abi.FullInfo{
			SizeSfInfoUser: abi.OffsetOfSubflowInfoAddrs,
			SizeArraysUser: 3,
			SubflowInfoPtr: sfInfoAddr,
		}, abi.SizeOfFullInfo)
		require.NoError(t, sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, buf))
		for i := 0; i < 3; i++ {
			off := sfInfoAddr + i*abi.OffsetOfSubflowInfoAddrs
			assert.Equal(t, subflows[i].ID(), abi.ByteOrder.Uint32(mem.Bytes[off:]))
		}
		assert.Zero(t, mem.Bytes[sfInfoAddr+3*abi.OffsetOfSubflowInfoAddrs])
	})

	t.Run("failure: output fields set", func(t *testing.T) {
		_, buf := newRequest(abi.FullInfo{NumSubflows: 1}, abi.SizeOfFullInfo)
		err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, buf)
		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
		assert.Equal(t, abi.SizeOfFullInfo, buf.Len)
	})

	t.Run("failure: buffer shorter than the header", func(t *testing.T) {
		_, buf := newRequest(abi.FullInfo{}, abi.SizeOfFullInfoHeader-1)
		err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, buf)
		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	})

	t.Run("failure: array pointer outside the caller memory", func(t *testing.T) {
		_, buf := newRequest(abi.FullInfo{
			SizeTCPInfoUser: abi.SizeOfTCPInfo,
			SizeArraysUser:  1,
			TCPInfoPtr:      1 << 20,
		}, abi.SizeOfFullInfo)
		err := sess.GetOption(ctx, abi.SOL_MPTCP, abi.MPTCP_FULL_INFO, buf)
		assert.ErrorIs(t, err, errors.ErrAccessFault)
		assert.Equal(t, abi.SizeOfFullInfo, buf.Len)
	})
}
