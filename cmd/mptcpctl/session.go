package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/transport"
	"github.com/aptpod/mptcp-go/transport/mem"
	"github.com/aptpod/mptcp-go/transport/tcp"
)

var errNoSubflows = errors.New("no subflows configured")

func sessionOptions(conf *Config, logger log.Logger, extra ...mptcp.SessionOption) []mptcp.SessionOption {
	opts := []mptcp.SessionOption{mptcp.WithSessionLogger(logger)}
	if conf.SessionID != "" {
		opts = append(opts, mptcp.WithSessionID(conf.SessionID))
	}
	return append(opts, extra...)
}

// dialSession は、設定された全てのサブフローを並行して接続し、同期済みのセッションを返却します。
func dialSession(ctx context.Context, conf *Config, logger log.Logger, extra ...mptcp.SessionOption) (*mptcp.Session, error) {
	if len(conf.Subflows) == 0 {
		return nil, errNoSubflows
	}

	configs := make([]tcp.DialConfig, 0, len(conf.Subflows))
	for _, sc := range conf.Subflows {
		dc, err := sc.dialConfig()
		if err != nil {
			return nil, err
		}
		configs = append(configs, dc)
	}

	d := conf.Dial.dialer()
	d.Logger = logger
	dialCtx, cancel := context.WithTimeout(ctx, conf.Dial.Timeout)
	defer cancel()
	conns, err := d.DialSubflows(dialCtx, configs)
	if err != nil {
		return nil, fmt.Errorf("error dialing subflows: %w", err)
	}

	extra = append(extra, mptcp.WithSessionState(mptcp.StateEstablished))
	sess, err := mptcp.NewSession(sessionOptions(conf, logger, extra...)...)
	if err != nil {
		for _, c := range conns {
			c.Close()
		}
		return nil, err
	}
	for _, c := range conns {
		if err := addSynced(ctx, sess, c); err != nil {
			sess.Close(ctx)
			return nil, err
		}
	}
	return sess, nil
}

// addSynced は、サブフローを追加して同期します。同期の失敗はログに残し、追加は継続します。
func addSynced(ctx context.Context, sess *mptcp.Session, conn transport.Conn) error {
	sf, err := sess.AddSubflow(ctx, conn)
	if err != nil {
		return err
	}
	if err := sess.SyncSubflow(ctx, sf); err != nil {
		slog.Warn("subflow sync incomplete", "subflow", sf.ID(), "err", err)
	}
	return nil
}

var simulatedRemote = &net.TCPAddr{IP: net.IPv4(192, 0, 2, 1), Port: 443}

func simulatedLocal(i int) *net.TCPAddr {
	return &net.TCPAddr{IP: net.IPv4(10, 0, 0, byte(i+1)), Port: 40000 + i}
}

// newSimulatedPipe は、i 番目のシミュレーション用サブフローと、その対向を返却します。
func newSimulatedPipe(i int, rtt time.Duration) (*mem.Conn, *mem.Conn) {
	return mem.Pipe(
		mem.Config{LocalAddr: simulatedLocal(i), RTT: rtt},
		mem.Config{LocalAddr: simulatedRemote},
	)
}
