package mptcp

import (
	"time"

	"github.com/google/uuid"

	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/log"
)

// Sysctlは、ネットワーク名前空間のデフォルト値です。
//
// セッションにキャッシュされていない値を返却する場合や、バッファサイズを制限する場合に参照します。
type Sysctl struct {
	// net.ipv4.tcp_keepalive_time
	KeepaliveTime time.Duration
	// net.ipv4.tcp_keepalive_intvl
	KeepaliveIntvl time.Duration
	// net.ipv4.tcp_keepalive_probes
	KeepaliveProbes int32
	// net.core.wmem_max
	WmemMax int32
	// net.core.rmem_max
	RmemMax int32
	// net.ipv4.tcp_rmem
	TCPRmem [3]int32
	// net.ipv4.tcp_wmem
	TCPWmem [3]int32

	// mptcp_info に報告するパスマネージャの上限値
	SubflowsMax        uint8
	AddAddrSignalMax   uint8
	AddAddrAcceptedMax uint8
	LocalAddrMax       uint8
}

// DefaultSysctlは、Linuxのデフォルト値です。
var DefaultSysctl = Sysctl{
	KeepaliveTime:      7200 * time.Second,
	KeepaliveIntvl:     75 * time.Second,
	KeepaliveProbes:    9,
	WmemMax:            212992,
	RmemMax:            212992,
	TCPRmem:            [3]int32{4096, 131072, 6291456},
	TCPWmem:            [3]int32{4096, 16384, 4194304},
	SubflowsMax:        2,
	AddAddrSignalMax:   0,
	AddAddrAcceptedMax: 0,
	LocalAddrMax:       0,
}

var defaultSessionConfig = SessionConfig{
	ID:                 "",
	State:              StateClose,
	Logger:             log.NewNop(),
	Sysctl:             DefaultSysctl,
	Factory:            nil,
	Observer:           NopObserver{},
	WriteSpaceHandler:  nopWriteSpaceHandler{},
	PendingPushHandler: nopPendingPushHandler{},
}

// SessionConfigは、セッションの設定です。
type SessionConfig struct {
	// セッションID
	//
	// 空の場合はUUIDを生成します。
	ID string

	// 初期状態
	State State

	// ロガー
	Logger log.Logger

	// ネットワーク名前空間のデフォルト値
	Sysctl Sysctl

	// 最初のサブフローを生成するファクトリ
	//
	// nilの場合、最初のサブフローが存在しないセッションへの最初のサブフロー向けの操作は失敗します。
	Factory SubflowFactory

	// オブザーバー
	Observer Observer

	// 送信可能領域が変化したときのハンドラ
	WriteSpaceHandler WriteSpaceHandler

	// 保留中のデータの送信が必要になったときのハンドラ
	PendingPushHandler PendingPushHandler
}

// DefaultSessionConfigは、デフォルトのSessionConfigを取得します。
func DefaultSessionConfig() *SessionConfig {
	c := defaultSessionConfig
	return &c
}

// SessionOptionは、Sessionのオプションです。
type SessionOption func(*SessionConfig)

// WithSessionIDは、セッションIDを設定します。
func WithSessionID(id string) SessionOption {
	return func(c *SessionConfig) {
		c.ID = id
	}
}

// WithSessionStateは、初期状態を設定します。
func WithSessionState(s State) SessionOption {
	return func(c *SessionConfig) {
		c.State = s
	}
}

// WithSessionLoggerは、ロガーを設定します。
func WithSessionLogger(l log.Logger) SessionOption {
	return func(c *SessionConfig) {
		c.Logger = l
	}
}

// WithSessionSysctlは、ネットワーク名前空間のデフォルト値を設定します。
func WithSessionSysctl(s Sysctl) SessionOption {
	return func(c *SessionConfig) {
		c.Sysctl = s
	}
}

// WithSessionFactoryは、最初のサブフローのファクトリを設定します。
func WithSessionFactory(f SubflowFactory) SessionOption {
	return func(c *SessionConfig) {
		c.Factory = f
	}
}

// WithSessionObserverは、オブザーバーを設定します。
func WithSessionObserver(o Observer) SessionOption {
	return func(c *SessionConfig) {
		c.Observer = o
	}
}

// WithSessionWriteSpaceHandlerは、送信可能領域のハンドラを設定します。
func WithSessionWriteSpaceHandler(h WriteSpaceHandler) SessionOption {
	return func(c *SessionConfig) {
		c.WriteSpaceHandler = h
	}
}

// WithSessionPendingPushHandlerは、保留データ送信のハンドラを設定します。
func WithSessionPendingPushHandler(h PendingPushHandler) SessionOption {
	return func(c *SessionConfig) {
		c.PendingPushHandler = h
	}
}

func validateConfig(c *SessionConfig) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.State == 0 {
		c.State = StateClose
	}
	if _, ok := stateNames[c.State]; !ok {
		return errors.Errorf("%w: unknown state %d", errors.ErrInvalidArgument, c.State)
	}
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	if c.Observer == nil {
		c.Observer = NopObserver{}
	}
	if c.WriteSpaceHandler == nil {
		c.WriteSpaceHandler = nopWriteSpaceHandler{}
	}
	if c.PendingPushHandler == nil {
		c.PendingPushHandler = nopPendingPushHandler{}
	}
	if c.Sysctl.WmemMax <= 0 || c.Sysctl.RmemMax <= 0 {
		return errors.Errorf("%w: wmem_max and rmem_max must be positive", errors.ErrInvalidArgument)
	}
	if c.Sysctl.TCPRmem[2] <= 0 {
		return errors.Errorf("%w: tcp_rmem max must be positive", errors.ErrInvalidArgument)
	}
	return nil
}
