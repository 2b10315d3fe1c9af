/*
Package mem は、インメモリで動作するサブフローのコネクションを提供します。

ソケットオプションはコネクションごとに保持され、Linux の TCP ソケットと同様の検証
（輻輳制御アルゴリズム名、キープアライブの範囲、MSSの範囲、int値の長さ）を行います。
FailOption で任意のオプションに失敗を注入できます。
*/
package mem

import (
	"bytes"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/transport"
)

var _ transport.Conn = (*Conn)(nil)

// DefaultCongestionsは、Config.Congestions が空の場合に受け付ける輻輳制御アルゴリズムです。
var DefaultCongestions = []string{"reno", "cubic"}

const (
	defaultCongestion = "cubic"
	defaultMSS        = 1460
	defaultRTT        = 10 * time.Millisecond
	defaultRTTVar     = 5 * time.Millisecond
	defaultSndCwnd    = 10
)

// Configは、インメモリコネクションの設定です。
type Config struct {
	// LocalAddr は、ローカルアドレスです。nilの場合はゼロ値の *net.TCPAddr になります。
	LocalAddr net.Addr

	// Congestions は、TCP_CONGESTION で受け付けるアルゴリズム名です。
	Congestions []string

	// RTT と RTTVar は、TCP_INFO で返却する平滑化RTTとその変動です。
	RTT    time.Duration
	RTTVar time.Duration

	// SndCwnd は、TCP_INFO で返却する輻輳ウィンドウ（セグメント数）です。
	SndCwnd uint32

	remoteAddr net.Addr
}

type optKey struct {
	level, name int
}

// Connは、インメモリのサブフローです。
type Conn struct {
	*pipe
	cfg Config

	mu       sync.Mutex
	opts     map[optKey][]byte
	faults   map[optKey]error
	setCount map[optKey]int
}

func newConn(c Config, p *pipe) *Conn {
	if len(c.Congestions) == 0 {
		c.Congestions = DefaultCongestions
	}
	if c.RTT == 0 {
		c.RTT = defaultRTT
	}
	if c.RTTVar == 0 {
		c.RTTVar = defaultRTTVar
	}
	if c.SndCwnd == 0 {
		c.SndCwnd = defaultSndCwnd
	}
	return &Conn{
		pipe:     p,
		cfg:      c,
		opts:     make(map[optKey][]byte),
		faults:   make(map[optKey]error),
		setCount: make(map[optKey]int),
	}
}

// LocalAddr implements transport.Conn.
func (c *Conn) LocalAddr() net.Addr {
	return c.cfg.LocalAddr
}

// RemoteAddr implements transport.Conn.
func (c *Conn) RemoteAddr() net.Addr {
	return c.cfg.remoteAddr
}

// FailOptionは、指定したオプションの SetOption が err を返すようにします。
//
// err が nil の場合は注入を解除します。
func (c *Conn) FailOption(level, name int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := optKey{level, name}
	if err == nil {
		delete(c.faults, k)
		return
	}
	c.faults[k] = err
}

// SetOption implements transport.OptionConn.
func (c *Conn) SetOption(level, name int, val []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pipe.closed() {
		return transport.ErrAlreadyClosed
	}
	k := optKey{level, name}
	c.setCount[k]++
	if err, ok := c.faults[k]; ok {
		return err
	}

	stored, err := validate(c.cfg, level, name, val)
	if err != nil {
		return err
	}
	c.opts[k] = stored
	return nil
}

func validate(cfg Config, level, name int, val []byte) ([]byte, error) {
	switch {
	case level == abi.SOL_TCP && name == abi.TCP_CONGESTION:
		n := val
		if i := bytes.IndexByte(n, 0); i >= 0 {
			n = n[:i]
		}
		if len(n) == 0 || len(n) >= abi.TCP_CA_NAME_MAX {
			return nil, errors.FromErrno(syscall.ENOENT)
		}
		for _, ca := range cfg.Congestions {
			if ca == string(n) {
				return bytes.Clone(n), nil
			}
		}
		return nil, errors.FromErrno(syscall.ENOENT)
	case rawValue(level, name):
		return bytes.Clone(val), nil
	}

	if len(val) < abi.SizeOfInt32 {
		return nil, errors.FromErrno(syscall.EINVAL)
	}
	v := abi.Int32(val)
	if level == abi.SOL_TCP {
		switch name {
		case abi.TCP_KEEPIDLE, abi.TCP_KEEPINTVL:
			if v < 1 || v > abi.MAX_TCP_KEEPIDLE {
				return nil, errors.FromErrno(syscall.EINVAL)
			}
		case abi.TCP_KEEPCNT:
			if v < 1 || v > abi.MAX_TCP_KEEPCNT {
				return nil, errors.FromErrno(syscall.EINVAL)
			}
		case abi.TCP_MAXSEG:
			if v != 0 && (v < abi.TCP_MIN_MSS || v > abi.MAX_TCP_WINDOW) {
				return nil, errors.FromErrno(syscall.EINVAL)
			}
		}
	}
	return abi.PutInt32(v), nil
}

func rawValue(level, name int) bool {
	switch level {
	case abi.SOL_SOCKET:
		switch name {
		case abi.SO_LINGER, abi.SO_BINDTODEVICE, abi.SO_TIMESTAMPING_OLD, abi.SO_TIMESTAMPING_NEW,
			abi.SO_RCVTIMEO_OLD, abi.SO_RCVTIMEO_NEW, abi.SO_SNDTIMEO_OLD, abi.SO_SNDTIMEO_NEW:
			return true
		}
	case abi.SOL_TCP:
		switch name {
		case abi.TCP_ULP, abi.TCP_FASTOPEN_KEY:
			return true
		}
	}
	return false
}

// GetOption implements transport.OptionConn.
func (c *Conn) GetOption(level, name int, buf []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pipe.closed() {
		return 0, transport.ErrAlreadyClosed
	}

	var v []byte
	switch {
	case level == abi.SOL_TCP && name == abi.TCP_INFO:
		info := c.tcpInfo()
		v = abi.Marshal(&info)
	case level == abi.SOL_TCP && name == abi.TCP_CONGESTION:
		v = make([]byte, abi.TCP_CA_NAME_MAX)
		copy(v, c.congestionLocked())
	case level == abi.SOL_TCP && name == abi.TCP_MAXSEG:
		v = abi.PutInt32(c.mssLocked())
	default:
		stored, ok := c.opts[optKey{level, name}]
		switch {
		case ok:
			v = stored
		case rawValue(level, name):
			v = nil
		default:
			v = abi.PutInt32(0)
		}
	}
	return copy(buf, v), nil
}

func (c *Conn) congestionLocked() string {
	if v, ok := c.opts[optKey{abi.SOL_TCP, abi.TCP_CONGESTION}]; ok {
		return string(v)
	}
	return defaultCongestion
}

func (c *Conn) mssLocked() int32 {
	if v, ok := c.opts[optKey{abi.SOL_TCP, abi.TCP_MAXSEG}]; ok && abi.Int32(v) != 0 {
		return abi.Int32(v)
	}
	return defaultMSS
}

func (c *Conn) tcpInfo() abi.TCPInfo {
	state := uint8(abi.TCP_ESTABLISHED)
	select {
	case <-c.pipe.remoteClosedCh:
		state = abi.TCP_CLOSE_WAIT
	default:
	}
	mss := uint32(c.mssLocked())
	return abi.TCPInfo{
		State:         state,
		RTO:           uint32((200*time.Millisecond + 4*c.cfg.RTTVar) / time.Microsecond),
		SndMSS:        mss,
		RcvMSS:        mss,
		PMTU:          1500,
		RTT:           uint32(c.cfg.RTT / time.Microsecond),
		RTTVar:        uint32(c.cfg.RTTVar / time.Microsecond),
		SndCwnd:       c.cfg.SndCwnd,
		AdvMSS:        mss,
		MinRTT:        uint32(c.cfg.RTT / time.Microsecond),
		BytesAcked:    c.TxBytesCounterValue(),
		BytesSent:     c.TxBytesCounterValue(),
		BytesReceived: c.RxBytesCounterValue(),
	}
}

// Optionは、設定済みのオプション値を返却します。
func (c *Conn) Option(level, name int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.opts[optKey{level, name}]
	return bytes.Clone(v), ok
}

// IntOptionは、設定済みのint値のオプションを返却します。
func (c *Conn) IntOption(level, name int) (int32, bool) {
	v, ok := c.Option(level, name)
	if !ok || len(v) < abi.SizeOfInt32 {
		return 0, false
	}
	return abi.Int32(v), true
}

// Congestionは、現在の輻輳制御アルゴリズム名を返却します。
func (c *Conn) Congestion() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.congestionLocked()
}

// SetCountは、指定したオプションに対して SetOption が呼ばれた回数を返却します。失敗した呼び出しも含みます。
func (c *Conn) SetCount(level, name int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCount[optKey{level, name}]
}
