/*
Package abi は、MPTCPソケットオプションで利用するLinuxカーネルの定数と構造体レイアウトを定義します。

構造体のエンコード/デコードはホストのバイトオーダーで行い、カーネルのuapiヘッダとビット単位で一致します。
*/
package abi

// ソケットオプションのレベル
const (
	SOL_IP     = 0
	SOL_SOCKET = 1
	SOL_TCP    = 6
	SOL_IPV6   = 41
	SOL_MPTCP  = 284
)

// SOL_SOCKETのオプション
const (
	SO_DEBUG                 = 1
	SO_REUSEADDR             = 2
	SO_DONTROUTE             = 5
	SO_BROADCAST             = 6
	SO_SNDBUF                = 7
	SO_RCVBUF                = 8
	SO_KEEPALIVE             = 9
	SO_OOBINLINE             = 10
	SO_NO_CHECK              = 11
	SO_PRIORITY              = 12
	SO_LINGER                = 13
	SO_BSDCOMPAT             = 14
	SO_REUSEPORT             = 15
	SO_PASSCRED              = 16
	SO_RCVLOWAT              = 18
	SO_RCVTIMEO_OLD          = 20
	SO_SNDTIMEO_OLD          = 21
	SO_BINDTODEVICE          = 25
	SO_ATTACH_FILTER         = 26
	SO_DETACH_FILTER         = 27
	SO_TIMESTAMP_OLD         = 29
	SO_SNDBUFFORCE           = 32
	SO_RCVBUFFORCE           = 33
	SO_PASSSEC               = 34
	SO_TIMESTAMPNS_OLD       = 35
	SO_MARK                  = 36
	SO_TIMESTAMPING_OLD      = 37
	SO_RXQ_OVFL              = 40
	SO_WIFI_STATUS           = 41
	SO_PEEK_OFF              = 42
	SO_NOFCS                 = 43
	SO_LOCK_FILTER           = 44
	SO_SELECT_ERR_QUEUE      = 45
	SO_BUSY_POLL             = 46
	SO_MAX_PACING_RATE       = 47
	SO_INCOMING_CPU          = 49
	SO_ATTACH_BPF            = 50
	SO_ATTACH_REUSEPORT_CBPF = 51
	SO_ATTACH_REUSEPORT_EBPF = 52
	SO_CNX_ADVICE            = 53
	SO_ZEROCOPY              = 60
	SO_TXTIME                = 61
	SO_BINDTOIFINDEX         = 62
	SO_TIMESTAMP_NEW         = 63
	SO_TIMESTAMPNS_NEW       = 64
	SO_TIMESTAMPING_NEW      = 65
	SO_RCVTIMEO_NEW          = 66
	SO_SNDTIMEO_NEW          = 67
	SO_DETACH_REUSEPORT_BPF  = 68
	SO_PREFER_BUSY_POLL      = 69
	SO_BUSY_POLL_BUDGET      = 70
	SO_PASSPIDFD             = 76
)

// SOL_IPのオプション
const (
	IP_TOS                  = 1
	IP_TTL                  = 2
	IP_HDRINCL              = 3
	IP_OPTIONS              = 4
	IP_RECVOPTS             = 6
	IP_RETOPTS              = 7
	IP_PKTINFO              = 8
	IP_MTU_DISCOVER         = 10
	IP_RECVERR              = 11
	IP_RECVTTL              = 12
	IP_RECVTOS              = 13
	IP_FREEBIND             = 15
	IP_PASSSEC              = 18
	IP_TRANSPARENT          = 19
	IP_RECVORIGDSTADDR      = 20
	IP_MINTTL               = 21
	IP_NODEFRAG             = 22
	IP_CHECKSUM             = 23
	IP_BIND_ADDRESS_NO_PORT = 24
	IP_RECVFRAGSIZE         = 25
	IP_RECVERR_RFC4884      = 26
	IP_MULTICAST_IF         = 32
	IP_MULTICAST_TTL        = 33
	IP_MULTICAST_LOOP       = 34
	IP_ADD_MEMBERSHIP       = 35
	IP_DROP_MEMBERSHIP      = 36
	IP_MULTICAST_ALL        = 49
	IP_UNICAST_IF           = 50
	IP_LOCAL_PORT_RANGE     = 51
)

// SOL_IPV6のオプション
const (
	IPV6_ADDRFORM         = 1
	IPV6_2292PKTINFO      = 2
	IPV6_2292HOPOPTS      = 3
	IPV6_2292DSTOPTS      = 4
	IPV6_2292RTHDR        = 5
	IPV6_2292PKTOPTIONS   = 6
	IPV6_2292HOPLIMIT     = 8
	IPV6_FLOWINFO         = 11
	IPV6_UNICAST_HOPS     = 16
	IPV6_MULTICAST_IF     = 17
	IPV6_MULTICAST_HOPS   = 18
	IPV6_MULTICAST_LOOP   = 19
	IPV6_ADD_MEMBERSHIP   = 20
	IPV6_DROP_MEMBERSHIP  = 21
	IPV6_ROUTER_ALERT     = 22
	IPV6_MTU_DISCOVER     = 23
	IPV6_MTU              = 24
	IPV6_RECVERR          = 25
	IPV6_V6ONLY           = 26
	IPV6_RECVERR_RFC4884  = 31
	IPV6_FLOWLABEL_MGR    = 32
	IPV6_FLOWINFO_SEND    = 33
	IPV6_RECVPKTINFO      = 49
	IPV6_PKTINFO          = 50
	IPV6_RECVHOPLIMIT     = 51
	IPV6_RECVHOPOPTS      = 53
	IPV6_HOPOPTS          = 54
	IPV6_RECVRTHDR        = 56
	IPV6_RTHDR            = 57
	IPV6_RECVDSTOPTS      = 58
	IPV6_DSTOPTS          = 59
	IPV6_RECVPATHMTU      = 60
	IPV6_DONTFRAG         = 62
	IPV6_RECVTCLASS       = 66
	IPV6_TCLASS           = 67
	IPV6_AUTOFLOWLABEL    = 70
	IPV6_ADDR_PREFERENCES = 72
	IPV6_MINHOPCOUNT      = 73
	IPV6_RECVORIGDSTADDR  = 74
	IPV6_TRANSPARENT      = 75
	IPV6_UNICAST_IF       = 76
	IPV6_RECVFRAGSIZE     = 77
	IPV6_FREEBIND         = 78
)

// SOL_TCPのオプション
const (
	TCP_NODELAY              = 1
	TCP_MAXSEG               = 2
	TCP_CORK                 = 3
	TCP_KEEPIDLE             = 4
	TCP_KEEPINTVL            = 5
	TCP_KEEPCNT              = 6
	TCP_SYNCNT               = 7
	TCP_LINGER2              = 8
	TCP_DEFER_ACCEPT         = 9
	TCP_WINDOW_CLAMP         = 10
	TCP_INFO                 = 11
	TCP_QUICKACK             = 12
	TCP_CONGESTION           = 13
	TCP_MD5SIG               = 14
	TCP_THIN_LINEAR_TIMEOUTS = 16
	TCP_THIN_DUPACK          = 17
	TCP_USER_TIMEOUT         = 18
	TCP_REPAIR               = 19
	TCP_REPAIR_QUEUE         = 20
	TCP_QUEUE_SEQ            = 21
	TCP_REPAIR_OPTIONS       = 22
	TCP_FASTOPEN             = 23
	TCP_TIMESTAMP            = 24
	TCP_NOTSENT_LOWAT        = 25
	TCP_CC_INFO              = 26
	TCP_SAVE_SYN             = 27
	TCP_REPAIR_WINDOW        = 29
	TCP_FASTOPEN_CONNECT     = 30
	TCP_ULP                  = 31
	TCP_MD5SIG_EXT           = 32
	TCP_FASTOPEN_KEY         = 33
	TCP_FASTOPEN_NO_COOKIE   = 34
	TCP_INQ                  = 36
	TCP_TX_DELAY             = 37
	TCP_IS_MPTCP             = 43
)

// SOL_MPTCPのオプション
const (
	MPTCP_INFO          = 1
	MPTCP_TCPINFO       = 2
	MPTCP_SUBFLOW_ADDRS = 3
	MPTCP_FULL_INFO     = 4
)

// mptcp_info.mptcpi_flags
const (
	MPTCP_INFO_FLAG_FALLBACK            = 1 << 0
	MPTCP_INFO_FLAG_REMOTE_KEY_RECEIVED = 1 << 1
)

// TCPの制限値
const (
	TCP_CA_NAME_MAX   = 16
	MAX_TCP_KEEPIDLE  = 32767
	MAX_TCP_KEEPINTVL = 32767
	MAX_TCP_KEEPCNT   = 127
	TCP_MIN_MSS       = 88
	MAX_TCP_WINDOW    = 32767
	INT_MAX           = 1<<31 - 1
)

// アドレスファミリ
const (
	AF_INET  = 2
	AF_INET6 = 10
)

// SizeOfInt32 は、setsockopt/getsockoptのint値のサイズです。
const SizeOfInt32 = 4

// sk_userlocks のビット
const (
	SOCK_SNDBUF_LOCK = 1
	SOCK_RCVBUF_LOCK = 2
)

// バッファサイズの下限
const (
	SOCK_MIN_SNDBUF = 4608
	SOCK_MIN_RCVBUF = 2304
)
