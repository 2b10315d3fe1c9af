package mptcp

import (
	"context"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

// fanoutOp は、サブフローへの適用操作です。
type fanoutOp struct {
	level, name int
	mode        lockMode
	// bump が true の場合、適用前にセッションのシーケンスを進め、適用に成功したサブフローに記録します。
	bump bool
	// stopOnError が true の場合、最初の失敗で残りのサブフローへの適用を中止します。
	stopOnError bool
	apply       func(sf *Subflow) error
}

// fanout は、現在の全てのサブフローに op を適用します。呼び出し元はセッションのロックを保持していること。
//
// セッションのキャッシュは呼び出し前に更新済みであること。失敗したサブフローがあっても
// キャッシュとシーケンスは戻さず、*errors.FanoutError を返却します。
func (s *Session) fanout(ctx context.Context, op fanoutOp) error {
	return s.fanoutTo(ctx, s.snapshot(), op)
}

func (s *Session) fanoutTo(ctx context.Context, targets []*Subflow, op fanoutOp) error {
	prev := s.seq
	if op.bump {
		s.bumpSeq(ctx)
	}

	var (
		applied int
		failed  []errors.SubflowFailure
	)
	for _, sf := range targets {
		if err := s.applyOne(ctx, sf, prev, op); err != nil {
			s.logger().Warnf(sf.logContext(ctx), "Failed to apply %s: %v", abi.OptionName(op.level, op.name), err)
			failed = append(failed, errors.SubflowFailure{SubflowID: sf.id, Err: err})
			if op.stopOnError {
				break
			}
			continue
		}
		applied++
	}
	s.cfg.Observer.OnFanout(op.level, op.name, applied, len(failed))
	if len(failed) > 0 {
		return &errors.FanoutError{Level: op.level, Name: op.name, Failed: failed}
	}
	return nil
}

func (s *Session) applyOne(ctx context.Context, sf *Subflow, prev Seq, op fanoutOp) error {
	unlock, slow := sf.lock(op.mode)
	defer unlock()
	if slow {
		s.cfg.Observer.OnSlowLock()
	}

	if op.bump && sf.seq != prev {
		// 以前の変更も反映されていないため、個別の適用ではなく全ての設定を再適用する
		return s.syncLocked(ctx, sf)
	}
	if err := op.apply(sf); err != nil {
		return err
	}
	if op.bump {
		sf.seq = s.seq
	}
	return nil
}
