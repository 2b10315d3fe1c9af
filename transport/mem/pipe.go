package mem

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/aptpod/mptcp-go/transport"
)

type pipe struct {
	rx        <-chan []byte
	rxErr     chan error
	rxCounter atomic.Uint64

	tx        chan<- []byte
	txErr     chan error
	txCounter atomic.Uint64

	once           sync.Once
	closedCh       chan struct{}
	remoteClosedCh <-chan struct{}
}

func (p *pipe) Read() ([]byte, error) {
	select {
	case <-p.remoteClosedCh:
		return nil, transport.EOF
	case <-p.closedCh:
		return nil, transport.ErrAlreadyClosed
	case msg := <-p.rx:
		p.rxErr <- nil
		p.rxCounter.Add(uint64(len(msg)))
		return msg, nil
	}
}

func (p *pipe) Write(message []byte) error {
	select {
	case <-p.remoteClosedCh:
		return transport.ErrAlreadyClosed
	case <-p.closedCh:
		return transport.ErrAlreadyClosed
	case p.tx <- message:
		p.txCounter.Add(uint64(len(message)))
		return <-p.txErr
	}
}

func (p *pipe) RxBytesCounterValue() uint64 {
	return p.rxCounter.Load()
}

func (p *pipe) TxBytesCounterValue() uint64 {
	return p.txCounter.Load()
}

func (p *pipe) Close() error {
	p.once.Do(func() {
		close(p.closedCh)
	})
	return nil
}

func (p *pipe) closed() bool {
	select {
	case <-p.closedCh:
		return true
	default:
		return false
	}
}

/*
Pipe は、互いに接続されたインメモリのサブフローのペアを返却します。

a から書き込んだデータは b から読み出せます。各コネクションは独立したソケットオプションを持ちます。
*/
func Pipe(a, b Config) (*Conn, *Conn) {
	ch1 := make(chan []byte)
	ch1err := make(chan error)

	ch2 := make(chan []byte)
	ch2err := make(chan error)

	chClosed1 := make(chan struct{})
	chClosed2 := make(chan struct{})

	a.LocalAddr = addrOrZero(a.LocalAddr)
	b.LocalAddr = addrOrZero(b.LocalAddr)
	a.remoteAddr = b.LocalAddr
	b.remoteAddr = a.LocalAddr

	return newConn(a, &pipe{
			rx:    ch2,
			rxErr: ch2err,

			tx:    ch1,
			txErr: ch1err,

			closedCh:       chClosed1,
			remoteClosedCh: chClosed2,
		}), newConn(b, &pipe{
			rx:    ch1,
			rxErr: ch1err,

			tx:    ch2,
			txErr: ch2err,

			closedCh:       chClosed2,
			remoteClosedCh: chClosed1,
		})
}

// Newは、対向を持たないサブフローを返却します。
//
// 対向が閉じているため読み書きは失敗しますが、ソケットオプションは操作できます。
func New(c Config, remote net.Addr) *Conn {
	a, b := Pipe(c, Config{LocalAddr: remote})
	b.Close()
	return a
}

func addrOrZero(addr net.Addr) net.Addr {
	if addr == nil {
		return &net.TCPAddr{}
	}
	return addr
}
