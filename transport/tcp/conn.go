/*
Package tcp は、*net.TCPConn をMPTCPセッションのサブフローとして扱うための実装です。

ソケットオプションは Linux では setsockopt(2)/getsockopt(2) を直接呼び出します。
Linux 以外では全てのオプション操作が ENOPROTOOPT になります。
*/
package tcp

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/internal/retry"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/transport"
)

var _ transport.Conn = (*Conn)(nil)

const defaultReadBufferSize = 64 * 1024

// Connは、TCPコネクションのサブフローです。
type Conn struct {
	conn *net.TCPConn
	buf  []byte

	rxCounter atomic.Uint64
	txCounter atomic.Uint64

	closeOnce sync.Once
	closeErr  error
}

// Newは、既存のTCPコネクションからConnを生成します。
func New(conn *net.TCPConn) *Conn {
	return &Conn{
		conn: conn,
		buf:  make([]byte, defaultReadBufferSize),
	}
}

// Read implements transport.Reader.
//
// 1回の読み出しで得られたバイト列を返却します。メッセージ境界は保存されません。
func (c *Conn) Read() ([]byte, error) {
	n, err := c.conn.Read(c.buf)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, transport.ErrAlreadyClosed
		}
		return nil, err
	}
	c.rxCounter.Add(uint64(n))
	res := make([]byte, n)
	copy(res, c.buf[:n])
	return res, nil
}

// Write implements transport.Writer.
func (c *Conn) Write(b []byte) error {
	n, err := c.conn.Write(b)
	c.txCounter.Add(uint64(n))
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return transport.ErrAlreadyClosed
		}
		return err
	}
	return nil
}

// Close implements transport.ReadWriter.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *Conn) RxBytesCounterValue() uint64 {
	return c.rxCounter.Load()
}

func (c *Conn) TxBytesCounterValue() uint64 {
	return c.txCounter.Load()
}

func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// SetOption implements transport.OptionConn.
func (c *Conn) SetOption(level, name int, val []byte) error {
	raw, err := c.conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("syscall conn: %w", errors.ErrConnectionClosed)
	}
	var sysErr error
	if err := raw.Control(func(fd uintptr) {
		sysErr = setsockopt(fd, level, name, val)
	}); err != nil {
		return fmt.Errorf("control: %w", errors.ErrConnectionClosed)
	}
	return sysErr
}

// GetOption implements transport.OptionConn.
func (c *Conn) GetOption(level, name int, buf []byte) (int, error) {
	raw, err := c.conn.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("syscall conn: %w", errors.ErrConnectionClosed)
	}
	var (
		n      int
		sysErr error
	)
	if err := raw.Control(func(fd uintptr) {
		n, sysErr = getsockopt(fd, level, name, buf)
	}); err != nil {
		return 0, fmt.Errorf("control: %w", errors.ErrConnectionClosed)
	}
	return n, sysErr
}

// DialConfigは、サブフローの接続設定です。
type DialConfig struct {
	// LocalAddr は、バインドするローカルアドレスです。nilの場合は自動で選択されます。
	LocalAddr *net.TCPAddr
	// RemoteAddr は、接続先アドレスです。
	RemoteAddr string
}

// Dialerは、サブフローを接続するダイアラーです。
type Dialer struct {
	// Retry は、接続失敗時のリトライ設定です。
	Retry retry.Retry
	// Logger は、ロガーです。nilの場合はログを出力しません。
	Logger log.Logger
}

// Dialは、1つのサブフローを接続します。失敗した場合は Retry の設定に従ってリトライします。
func (d *Dialer) Dial(ctx context.Context, c DialConfig) (*Conn, error) {
	logger := d.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	nd := net.Dialer{}
	if c.LocalAddr != nil {
		nd.LocalAddr = c.LocalAddr
	}
	var conn net.Conn
	err := d.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		conn, err = nd.DialContext(ctx, "tcp", c.RemoteAddr)
		if err != nil {
			logger.Warnf(ctx, "Failed to dial subflow to %s: %v", c.RemoteAddr, err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w: %w", c.RemoteAddr, errors.ErrResourceUnavailable, err)
	}
	return New(conn.(*net.TCPConn)), nil
}

// DialSubflowsは、全てのサブフローを並行して接続します。
//
// いずれかの接続に失敗した場合は、接続済みのサブフローを閉じてエラーを返却します。
// 返却するスライスの順序は configs の順序と一致します。
func (d *Dialer) DialSubflows(ctx context.Context, configs []DialConfig) ([]*Conn, error) {
	conns := make([]*Conn, len(configs))
	eg, ctx := errgroup.WithContext(ctx)
	for i, c := range configs {
		eg.Go(func() error {
			conn, err := d.Dial(ctx, c)
			if err != nil {
				return err
			}
			conns[i] = conn
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		for _, c := range conns {
			if c != nil {
				c.Close()
			}
		}
		return nil, err
	}
	return conns, nil
}
