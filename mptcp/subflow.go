package mptcp

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/transport"
)

// Subflowは、セッションを構成する単一パスのコネクションです。
//
// Subflow はセッションの AddSubflow で生成します。
type Subflow struct {
	id   uint32
	conn transport.Conn

	mu     sync.Mutex
	seq    Seq  // mu で保護
	pinned bool // mu で保護
}

// IDは、セッション内で一意なサブフローIDを返却します。
func (sf *Subflow) ID() uint32 {
	return sf.id
}

// Connは、サブフローのコネクションを返却します。
func (sf *Subflow) Conn() transport.Conn {
	return sf.conn
}

// Seqは、サブフローに最後に同期したセッションのシーケンスを返却します。
func (sf *Subflow) Seq() Seq {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.seq
}

func (sf *Subflow) logContext(ctx context.Context) context.Context {
	return log.WithTrackSubflowID(ctx, strconv.FormatUint(uint64(sf.id), 10))
}

// isIPv6 は、サブフローのローカルアドレスがIPv6かどうかを返却します。
func (sf *Subflow) isIPv6() bool {
	addr, ok := sf.conn.LocalAddr().(*net.TCPAddr)
	if !ok || addr == nil {
		return false
	}
	return addr.IP.To4() == nil && addr.IP.To16() != nil
}

type lockMode uint8

const (
	// lockSlow は、ブロックしてロックを取得します。
	lockSlow lockMode = iota
	// lockFast は、まず待機せずにロックの取得を試みます。取得できなければ lockSlow と同じです。
	lockFast
)

// lock は、サブフローのロックを取得し、解放関数と待機が発生したかどうかを返却します。
func (sf *Subflow) lock(mode lockMode) (unlock func(), slow bool) {
	if mode == lockFast && sf.mu.TryLock() {
		return sf.mu.Unlock, false
	}
	sf.mu.Lock()
	return sf.mu.Unlock, mode == lockFast
}

func (sf *Subflow) setInt(level, name int, v int32) error {
	return sf.conn.SetOption(level, name, abi.PutInt32(v))
}

func (sf *Subflow) setBool(level, name int, v bool) error {
	return sf.conn.SetOption(level, name, abi.PutBool(v))
}

// getInt は、プリミティブからint値を読み出します。
func (sf *Subflow) getInt(level, name int) (int32, error) {
	buf := make([]byte, abi.SizeOfInt32)
	n, err := sf.conn.GetOption(level, name, buf)
	if err != nil {
		return 0, err
	}
	if n < abi.SizeOfInt32 {
		return int32(buf[0]), nil
	}
	return abi.Int32(buf), nil
}

// congestion は、サブフローの現在の輻輳制御アルゴリズム名を返却します。
func (sf *Subflow) congestion() (string, error) {
	buf := make([]byte, abi.TCP_CA_NAME_MAX)
	n, err := sf.conn.GetOption(abi.SOL_TCP, abi.TCP_CONGESTION, buf)
	if err != nil {
		return "", err
	}
	return cString(buf[:n]), nil
}

// tcpInfo は、サブフローの tcp_info を返却します。取得できない場合はゼロ値です。
func (sf *Subflow) tcpInfo() abi.TCPInfo {
	var info abi.TCPInfo
	buf := make([]byte, abi.SizeOfTCPInfo)
	if _, err := sf.conn.GetOption(abi.SOL_TCP, abi.TCP_INFO, buf); err != nil {
		return info
	}
	info.UnmarshalBytes(buf)
	return info
}

func (sf *Subflow) addrs() abi.SubflowAddrs {
	return abi.SubflowAddrs{
		Local:  abi.SockaddrFromNetAddr(sf.conn.LocalAddr()),
		Remote: abi.SockaddrFromNetAddr(sf.conn.RemoteAddr()),
	}
}

func (sf *Subflow) close() error {
	if err := sf.conn.Close(); err != nil && !errors.Is(err, errors.ErrConnectionClosed) {
		return err
	}
	return nil
}

// cString は、NUL終端までの文字列を返却します。
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
