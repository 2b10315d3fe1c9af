package mptcp

import (
	"github.com/aptpod/mptcp-go/abi"
)

/*
Optionsは、セッションが保持するソケットオプションの値です。

サブフローへの同期は、この値を元に行います。値はゼロ値を未設定として扱い、
同期の際に再適用されるのはゼロ値以外（またはロックされたバッファサイズ）のみです。
*/
type Options struct {
	// SOL_SOCKET
	KeepAlive      bool
	Debug          bool
	Mark           uint32
	Priority       int32
	SndBuf         int32
	RcvBuf         int32
	UserLocks      uint8
	IncomingCPU    int32
	BoundDevIf     int32
	BindToDevice   string
	ReuseAddr      int32
	ReusePort      bool
	Linger         abi.Linger
	RcvLowat       int32
	RcvTimeo       string
	SndTimeo       string
	BusyPoll       int32
	PreferBusyPoll bool
	BusyPollBudget int32
	Timestamp      int32
	Timestamping   abi.Timestamping

	// SOL_IP/SOL_IPV6
	TOS               uint8
	Freebind          bool
	Transparent       bool
	BindAddressNoPort bool
	LocalPortRange    uint32
	V6Only            bool

	// SOL_TCP
	Cork         bool
	NoDelay      bool
	KeepIdle     int32
	KeepIntvl    int32
	KeepCnt      int32
	MaxSeg       int32
	Congestion   string
	NotsentLowat uint32
	Inq          bool
}

// sndBufLocked は、送信バッファサイズが明示的に設定されているかどうかを返却します。
func (o *Options) sndBufLocked() bool {
	return o.UserLocks&abi.SOCK_SNDBUF_LOCK != 0
}

// rcvBufLocked は、受信バッファサイズが明示的に設定されているかどうかを返却します。
func (o *Options) rcvBufLocked() bool {
	return o.UserLocks&abi.SOCK_RCVBUF_LOCK != 0
}

// defaultOptions は、新しいセッションの初期値です。
func defaultOptions(sysctl Sysctl) Options {
	return Options{
		SndBuf:      sysctl.TCPWmem[1],
		RcvBuf:      sysctl.TCPRmem[1],
		RcvLowat:    1,
		IncomingCPU: -1,
	}
}

// bufSize は、SO_SNDBUF/SO_RCVBUF の値から実効値を計算します。
//
// force が false の場合は limit で制限します。実効値は要求値の2倍で、floor を下回りません。
func bufSize(val, limit, floor int32, force bool) int32 {
	if val < 0 {
		val = 0
	}
	if !force && val > limit {
		val = limit
	}
	v := int64(val) * 2
	if v > abi.INT_MAX {
		v = abi.INT_MAX
	}
	if v < int64(floor) {
		v = int64(floor)
	}
	return int32(v)
}
