package main

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/transport/multi"
)

/*
simulate は、インメモリのサブフローでセッションを構成し、設定の一斉適用と遅延同期の流れを再現します。

 1. Simulate.Subflows 本のサブフローを追加して同期します。Failures の失敗はこの時点で注入します。
 2. Options を順に設定し、結果とセッションのシーケンスを出力します。
 3. LateSubflow が有効な場合は、遅れて参加するサブフローを追加します。このサブフローは未同期のままです。
 4. multi.Transport で writes 回書き込みます。書き込み先のサブフローは書き込む前に同期されます。

最後に問い合わせの結果をまとめた Report を返却します。
*/
func simulate(ctx context.Context, w io.Writer, conf *Config, writes int, logger log.Logger, extra ...mptcp.SessionOption) (*Report, error) {
	sc := conf.Simulate
	if sc.Subflows <= 0 {
		return nil, errNoSubflows
	}
	total := sc.Subflows
	if late := sc.LateSubflow != nil && *sc.LateSubflow; late {
		total++
	}
	faults, err := resolveFailures(sc.Failures, total)
	if err != nil {
		return nil, err
	}

	extra = append(extra, mptcp.WithSessionState(mptcp.StateEstablished))
	sess, err := mptcp.NewSession(sessionOptions(conf, logger, extra...)...)
	if err != nil {
		return nil, err
	}
	mt, err := multi.NewTransport(multi.TransportConfig{
		Session:  sess,
		Selector: multi.NewRoundRobinSelector(nil),
		Logger:   logger,
	})
	if err != nil {
		sess.Close(ctx)
		return nil, err
	}

	var peers errgroup.Group
	defer func() {
		mt.Close()
		peers.Wait()
	}()

	attach := func(i int) (*mptcp.Subflow, error) {
		conn, peer := newSimulatedPipe(i, sc.RTT)
		peers.Go(func() error {
			for {
				if _, err := peer.Read(); err != nil {
					return nil
				}
			}
		})
		for _, f := range faults[i] {
			conn.FailOption(f.level, f.name, f.err)
		}
		return mt.AddSubflow(ctx, conn)
	}

	for i := 0; i < sc.Subflows; i++ {
		sf, err := attach(i)
		if err != nil {
			return nil, err
		}
		if err := sess.SyncSubflow(ctx, sf); err != nil {
			fmt.Fprintf(w, "subflow %d initial sync: %s\n", sf.ID(), describe(err))
		}
	}
	fmt.Fprintf(w, "session %s seq=%s subflows=%d\n", sess.ID(), sess.Seq(), sc.Subflows)

	if _, err := applyOptions(ctx, w, sess, conf.Options); err != nil {
		return nil, err
	}

	if total > sc.Subflows {
		sf, err := attach(sc.Subflows)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "late subflow %d seq=%s session=%s stale=%t\n", sf.ID(), sf.Seq(), sess.Seq(), sf.Seq() != sess.Seq())
	}

	for i := 0; i < writes; i++ {
		if err := mt.Write([]byte(fmt.Sprintf("message-%d", i))); err != nil {
			return nil, fmt.Errorf("error writing message %d: %w", i, err)
		}
	}
	for _, sf := range sess.Subflows() {
		fmt.Fprintf(w, "subflow %d seq=%s synced=%t\n", sf.ID(), sf.Seq(), sf.Seq() == sess.Seq())
	}

	return inspect(ctx, sess)
}

type fault struct {
	level, name int
	err         error
}

func resolveFailures(failures []FailureConfig, subflows int) (map[int][]fault, error) {
	res := make(map[int][]fault)
	for _, f := range failures {
		if f.Subflow < 0 || f.Subflow >= subflows {
			return nil, fmt.Errorf("failure subflow index %d out of range [0, %d)", f.Subflow, subflows)
		}
		opt, err := (OptionConfig{Name: f.Option}).option()
		if err != nil {
			return nil, err
		}
		errno, err := f.errno()
		if err != nil {
			return nil, err
		}
		res[f.Subflow] = append(res[f.Subflow], fault{level: opt.Level, name: opt.Name, err: errors.FromErrno(errno)})
	}
	return res, nil
}
