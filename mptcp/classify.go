package mptcp

import (
	"github.com/aptpod/mptcp-go/abi"
)

// Classは、オプションがどのレベルのオプションとしてサポートされるかの分類です。
type Class uint8

const (
	// ClassUnsupported は、許可リストに存在しないオプションです。
	ClassUnsupported Class = iota
	// ClassSocket は、SOL_SOCKET のオプションです。
	ClassSocket
	// ClassIP は、SOL_IP または SOL_IPV6 のオプションです。
	ClassIP
	// ClassTransport は、SOL_TCP のオプションです。
	ClassTransport
	// ClassMultipath は、SOL_MPTCP の問い合わせオプションです。
	ClassMultipath
)

func (c Class) String() string {
	switch c {
	case ClassSocket:
		return "socket"
	case ClassIP:
		return "ip"
	case ClassTransport:
		return "transport"
	case ClassMultipath:
		return "multipath"
	}
	return "unsupported"
}

// Policyは、設定変更をサブフローへ伝搬する方法です。
type Policy uint8

const (
	// PolicyReject は、許可リストにあるが設定には対応しないオプションです。
	PolicyReject Policy = iota
	// PolicyFanout は、全てのサブフローへ適用するオプションです。
	PolicyFanout
	// PolicyFirstSubflow は、最初のサブフローにのみ適用するオプションです。
	PolicyFirstSubflow
	// PolicySession は、セッションにのみ保持しサブフローへは伝搬しないオプションです。
	PolicySession
	// PolicyNoop は、受け付けるが何もしないオプションです。
	PolicyNoop
)

func (p Policy) String() string {
	switch p {
	case PolicyFanout:
		return "fanout"
	case PolicyFirstSubflow:
		return "first-subflow"
	case PolicySession:
		return "session"
	case PolicyNoop:
		return "noop"
	}
	return "reject"
}

// Dispatchは、設定変更の振り分け先です。
type Dispatch struct {
	Policy Policy
	// Bump は、適用後にセッションのシーケンスを進めるかどうかです。
	Bump bool
}

type levelName struct {
	level, name int
}

var (
	fanoutBump   = Dispatch{Policy: PolicyFanout, Bump: true}
	fanoutNoBump = Dispatch{Policy: PolicyFanout}
	firstBump    = Dispatch{Policy: PolicyFirstSubflow, Bump: true}
	firstOnly    = Dispatch{Policy: PolicyFirstSubflow}
	sessionOnly  = Dispatch{Policy: PolicySession}
	noop         = Dispatch{Policy: PolicyNoop}
	reject       = Dispatch{Policy: PolicyReject}
)

// setDispatch は、設定変更の振り分け表です。SOL_IP/SOL_IPV6/SOL_TCP では許可リストも兼ねます。
var setDispatch = map[levelName]Dispatch{
	{abi.SOL_SOCKET, abi.SO_KEEPALIVE}:        fanoutBump,
	{abi.SOL_SOCKET, abi.SO_DEBUG}:            fanoutBump,
	{abi.SOL_SOCKET, abi.SO_MARK}:             fanoutBump,
	{abi.SOL_SOCKET, abi.SO_PRIORITY}:         fanoutBump,
	{abi.SOL_SOCKET, abi.SO_SNDBUF}:           fanoutBump,
	{abi.SOL_SOCKET, abi.SO_SNDBUFFORCE}:      fanoutBump,
	{abi.SOL_SOCKET, abi.SO_RCVBUF}:           fanoutBump,
	{abi.SOL_SOCKET, abi.SO_RCVBUFFORCE}:      fanoutBump,
	{abi.SOL_SOCKET, abi.SO_INCOMING_CPU}:     fanoutBump,
	{abi.SOL_SOCKET, abi.SO_LINGER}:           fanoutBump,
	{abi.SOL_SOCKET, abi.SO_TIMESTAMP_OLD}:    fanoutNoBump,
	{abi.SOL_SOCKET, abi.SO_TIMESTAMP_NEW}:    fanoutNoBump,
	{abi.SOL_SOCKET, abi.SO_TIMESTAMPNS_OLD}:  fanoutNoBump,
	{abi.SOL_SOCKET, abi.SO_TIMESTAMPNS_NEW}:  fanoutNoBump,
	{abi.SOL_SOCKET, abi.SO_TIMESTAMPING_OLD}: fanoutNoBump,
	{abi.SOL_SOCKET, abi.SO_TIMESTAMPING_NEW}: fanoutNoBump,
	{abi.SOL_SOCKET, abi.SO_REUSEPORT}:        firstOnly,
	{abi.SOL_SOCKET, abi.SO_REUSEADDR}:        firstOnly,
	{abi.SOL_SOCKET, abi.SO_BINDTODEVICE}:     firstOnly,
	{abi.SOL_SOCKET, abi.SO_BINDTOIFINDEX}:    firstOnly,
	{abi.SOL_SOCKET, abi.SO_RCVLOWAT}:         sessionOnly,
	{abi.SOL_SOCKET, abi.SO_RCVTIMEO_OLD}:     sessionOnly,
	{abi.SOL_SOCKET, abi.SO_RCVTIMEO_NEW}:     sessionOnly,
	{abi.SOL_SOCKET, abi.SO_SNDTIMEO_OLD}:     sessionOnly,
	{abi.SOL_SOCKET, abi.SO_SNDTIMEO_NEW}:     sessionOnly,
	{abi.SOL_SOCKET, abi.SO_BUSY_POLL}:        sessionOnly,
	{abi.SOL_SOCKET, abi.SO_PREFER_BUSY_POLL}: sessionOnly,
	{abi.SOL_SOCKET, abi.SO_BUSY_POLL_BUDGET}: sessionOnly,
	{abi.SOL_SOCKET, abi.SO_NO_CHECK}:         noop,
	{abi.SOL_SOCKET, abi.SO_DONTROUTE}:        noop,
	{abi.SOL_SOCKET, abi.SO_BROADCAST}:        noop,
	{abi.SOL_SOCKET, abi.SO_BSDCOMPAT}:        noop,
	{abi.SOL_SOCKET, abi.SO_PASSCRED}:         noop,
	{abi.SOL_SOCKET, abi.SO_PASSPIDFD}:        noop,
	{abi.SOL_SOCKET, abi.SO_PASSSEC}:          noop,
	{abi.SOL_SOCKET, abi.SO_RXQ_OVFL}:         noop,
	{abi.SOL_SOCKET, abi.SO_WIFI_STATUS}:      noop,
	{abi.SOL_SOCKET, abi.SO_NOFCS}:            noop,
	{abi.SOL_SOCKET, abi.SO_SELECT_ERR_QUEUE}: noop,

	{abi.SOL_IP, abi.IP_FREEBIND}:               firstBump,
	{abi.SOL_IP, abi.IP_TRANSPARENT}:            firstBump,
	{abi.SOL_IP, abi.IP_BIND_ADDRESS_NO_PORT}:   firstBump,
	{abi.SOL_IP, abi.IP_LOCAL_PORT_RANGE}:       firstBump,
	{abi.SOL_IP, abi.IP_TOS}:                    fanoutBump,
	{abi.SOL_IP, abi.IP_PKTINFO}:                reject,
	{abi.SOL_IP, abi.IP_RECVTTL}:                reject,
	{abi.SOL_IP, abi.IP_RECVTOS}:                reject,
	{abi.SOL_IP, abi.IP_RECVOPTS}:               reject,
	{abi.SOL_IP, abi.IP_RETOPTS}:                reject,
	{abi.SOL_IP, abi.IP_PASSSEC}:                reject,
	{abi.SOL_IP, abi.IP_RECVORIGDSTADDR}:        reject,
	{abi.SOL_IP, abi.IP_CHECKSUM}:               reject,
	{abi.SOL_IP, abi.IP_RECVFRAGSIZE}:           reject,
	{abi.SOL_IP, abi.IP_TTL}:                    reject,
	{abi.SOL_IP, abi.IP_MTU_DISCOVER}:           reject,
	{abi.SOL_IP, abi.IP_RECVERR}:                reject,
	{abi.SOL_IP, abi.IP_MINTTL}:                 reject,
	{abi.SOL_IP, abi.IP_RECVERR_RFC4884}:        reject,
	{abi.SOL_IPV6, abi.IPV6_V6ONLY}:             firstBump,
	{abi.SOL_IPV6, abi.IPV6_TRANSPARENT}:        firstBump,
	{abi.SOL_IPV6, abi.IPV6_FREEBIND}:           firstBump,
	{abi.SOL_IPV6, abi.IPV6_RECVPKTINFO}:        reject,
	{abi.SOL_IPV6, abi.IPV6_2292PKTINFO}:        reject,
	{abi.SOL_IPV6, abi.IPV6_RECVHOPLIMIT}:       reject,
	{abi.SOL_IPV6, abi.IPV6_2292HOPLIMIT}:       reject,
	{abi.SOL_IPV6, abi.IPV6_RECVRTHDR}:          reject,
	{abi.SOL_IPV6, abi.IPV6_2292RTHDR}:          reject,
	{abi.SOL_IPV6, abi.IPV6_RECVHOPOPTS}:        reject,
	{abi.SOL_IPV6, abi.IPV6_2292HOPOPTS}:        reject,
	{abi.SOL_IPV6, abi.IPV6_RECVDSTOPTS}:        reject,
	{abi.SOL_IPV6, abi.IPV6_2292DSTOPTS}:        reject,
	{abi.SOL_IPV6, abi.IPV6_RECVTCLASS}:         reject,
	{abi.SOL_IPV6, abi.IPV6_FLOWINFO}:           reject,
	{abi.SOL_IPV6, abi.IPV6_RECVPATHMTU}:        reject,
	{abi.SOL_IPV6, abi.IPV6_RECVORIGDSTADDR}:    reject,
	{abi.SOL_IPV6, abi.IPV6_RECVFRAGSIZE}:       reject,
	{abi.SOL_IPV6, abi.IPV6_TCLASS}:             reject,
	{abi.SOL_IPV6, abi.IPV6_PKTINFO}:            reject,
	{abi.SOL_IPV6, abi.IPV6_2292PKTOPTIONS}:     reject,
	{abi.SOL_IPV6, abi.IPV6_UNICAST_HOPS}:       reject,
	{abi.SOL_IPV6, abi.IPV6_MTU_DISCOVER}:       reject,
	{abi.SOL_IPV6, abi.IPV6_MTU}:                reject,
	{abi.SOL_IPV6, abi.IPV6_RECVERR}:            reject,
	{abi.SOL_IPV6, abi.IPV6_FLOWINFO_SEND}:      reject,
	{abi.SOL_IPV6, abi.IPV6_FLOWLABEL_MGR}:      reject,
	{abi.SOL_IPV6, abi.IPV6_MINHOPCOUNT}:        reject,
	{abi.SOL_IPV6, abi.IPV6_DONTFRAG}:           reject,
	{abi.SOL_IPV6, abi.IPV6_AUTOFLOWLABEL}:      reject,
	{abi.SOL_IPV6, abi.IPV6_RECVERR_RFC4884}:    reject,
	{abi.SOL_TCP, abi.TCP_CONGESTION}:           fanoutBump,
	{abi.SOL_TCP, abi.TCP_CORK}:                 fanoutBump,
	{abi.SOL_TCP, abi.TCP_NODELAY}:              fanoutBump,
	{abi.SOL_TCP, abi.TCP_KEEPIDLE}:             fanoutBump,
	{abi.SOL_TCP, abi.TCP_KEEPINTVL}:            fanoutBump,
	{abi.SOL_TCP, abi.TCP_KEEPCNT}:              fanoutBump,
	{abi.SOL_TCP, abi.TCP_MAXSEG}:               fanoutBump,
	{abi.SOL_TCP, abi.TCP_DEFER_ACCEPT}:         firstOnly,
	{abi.SOL_TCP, abi.TCP_FASTOPEN}:             firstOnly,
	{abi.SOL_TCP, abi.TCP_FASTOPEN_CONNECT}:     firstOnly,
	{abi.SOL_TCP, abi.TCP_FASTOPEN_KEY}:         firstOnly,
	{abi.SOL_TCP, abi.TCP_FASTOPEN_NO_COOKIE}:   firstOnly,
	{abi.SOL_TCP, abi.TCP_INQ}:                  sessionOnly,
	{abi.SOL_TCP, abi.TCP_NOTSENT_LOWAT}:        sessionOnly,
	{abi.SOL_TCP, abi.TCP_THIN_DUPACK}:          reject,
	{abi.SOL_TCP, abi.TCP_THIN_LINEAR_TIMEOUTS}: reject,
	{abi.SOL_TCP, abi.TCP_SYNCNT}:               reject,
	{abi.SOL_TCP, abi.TCP_SAVE_SYN}:             reject,
	{abi.SOL_TCP, abi.TCP_LINGER2}:              reject,
	{abi.SOL_TCP, abi.TCP_WINDOW_CLAMP}:         reject,
	{abi.SOL_TCP, abi.TCP_QUICKACK}:             reject,
	{abi.SOL_TCP, abi.TCP_USER_TIMEOUT}:         reject,
	{abi.SOL_TCP, abi.TCP_TIMESTAMP}:            reject,
	{abi.SOL_TCP, abi.TCP_TX_DELAY}:             reject,
}

// Classify は、レベルとオプション名からオプションの分類を返却します。
//
// セッションの状態は参照しません。
func Classify(level, name int) Class {
	if level == abi.SOL_MPTCP {
		switch name {
		case abi.MPTCP_INFO, abi.MPTCP_TCPINFO, abi.MPTCP_SUBFLOW_ADDRS, abi.MPTCP_FULL_INFO:
			return ClassMultipath
		}
		return ClassUnsupported
	}
	if _, ok := setDispatch[levelName{level, name}]; !ok {
		return ClassUnsupported
	}
	switch level {
	case abi.SOL_SOCKET:
		return ClassSocket
	case abi.SOL_IP, abi.SOL_IPV6:
		return ClassIP
	case abi.SOL_TCP:
		return ClassTransport
	}
	return ClassUnsupported
}

// DispatchOf は、設定変更の振り分け先を返却します。許可リストにない場合は ok が false になります。
func DispatchOf(level, name int) (d Dispatch, ok bool) {
	d, ok = setDispatch[levelName{level, name}]
	return d, ok
}
