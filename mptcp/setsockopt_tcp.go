package mptcp

import (
	"context"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

func (s *Session) setTCP(ctx context.Context, name int, val []byte, ev *events) error {
	switch name {
	case abi.TCP_CONGESTION:
		return s.setCongestion(ctx, val)
	case abi.TCP_DEFER_ACCEPT:
		// TCP_DEFER_ACCEPT は失敗しない
		if first, err := s.nmpc(ctx); err == nil {
			_ = s.setFirst(ctx, first, abi.SOL_TCP, name, val)
		}
		return nil
	case abi.TCP_FASTOPEN, abi.TCP_FASTOPEN_CONNECT, abi.TCP_FASTOPEN_KEY, abi.TCP_FASTOPEN_NO_COOKIE:
		// 接続前の最初のサブフローにのみ設定できる
		first, err := s.nmpc(ctx)
		if err != nil {
			return err
		}
		return s.setFirst(ctx, first, abi.SOL_TCP, name, val)
	}

	if d, _ := DispatchOf(abi.SOL_TCP, name); d.Policy == PolicyReject {
		return errors.Errorf("SOL_TCP name:%d: %w", name, errors.ErrNoProtocolOption)
	}

	v, err := intOption(val)
	if err != nil {
		return err
	}

	switch name {
	case abi.TCP_INQ:
		if v < 0 || v > 1 {
			return errors.Errorf("inq %d: %w", v, errors.ErrInvalidArgument)
		}
		s.opts.Inq = v == 1
		return nil
	case abi.TCP_NOTSENT_LOWAT:
		s.opts.NotsentLowat = uint32(v)
		ev.writeSpace = &WriteSpaceEvent{SessionID: s.cfg.ID, NotsentLowat: s.opts.NotsentLowat}
		return nil
	case abi.TCP_CORK:
		s.opts.Cork = v != 0
		if !s.opts.Cork {
			ev.pendingPush = &PendingPushEvent{SessionID: s.cfg.ID, Name: name}
		}
		return s.fanoutTCPBool(ctx, name, s.opts.Cork)
	case abi.TCP_NODELAY:
		s.opts.NoDelay = v != 0
		if s.opts.NoDelay {
			ev.pendingPush = &PendingPushEvent{SessionID: s.cfg.ID, Name: name}
		}
		return s.fanoutTCPBool(ctx, name, s.opts.NoDelay)
	case abi.TCP_KEEPIDLE:
		if err := checkRange(name, v, 1, abi.MAX_TCP_KEEPIDLE); err != nil {
			return err
		}
		s.opts.KeepIdle = v
		return s.fanoutTCPInt(ctx, name, v, false)
	case abi.TCP_KEEPINTVL:
		if err := checkRange(name, v, 1, abi.MAX_TCP_KEEPINTVL); err != nil {
			return err
		}
		s.opts.KeepIntvl = v
		return s.fanoutTCPInt(ctx, name, v, false)
	case abi.TCP_KEEPCNT:
		if err := checkRange(name, v, 1, abi.MAX_TCP_KEEPCNT); err != nil {
			return err
		}
		s.opts.KeepCnt = v
		return s.fanoutTCPInt(ctx, name, v, false)
	case abi.TCP_MAXSEG:
		if v != 0 {
			if err := checkRange(name, v, abi.TCP_MIN_MSS, abi.MAX_TCP_WINDOW); err != nil {
				return err
			}
		}
		s.opts.MaxSeg = v
		return s.fanoutTCPInt(ctx, name, v, true)
	}
	return errors.Errorf("SOL_TCP name:%d: %w", name, errors.ErrNoProtocolOption)
}

func checkRange(name int, v, lo, hi int32) error {
	if v < lo || v > hi {
		return errors.Errorf("SOL_TCP name:%d value %d out of range [%d, %d]: %w", name, v, lo, hi, errors.ErrInvalidArgument)
	}
	return nil
}

func (s *Session) fanoutTCPBool(ctx context.Context, name int, v bool) error {
	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_TCP,
		name:  name,
		mode:  lockSlow,
		bump:  true,
		apply: func(sf *Subflow) error {
			return sf.setBool(abi.SOL_TCP, name, v)
		},
	})
}

func (s *Session) fanoutTCPInt(ctx context.Context, name int, v int32, stopOnError bool) error {
	return s.fanout(ctx, fanoutOp{
		level:       abi.SOL_TCP,
		name:        name,
		mode:        lockSlow,
		bump:        true,
		stopOnError: stopOnError,
		apply: func(sf *Subflow) error {
			return sf.setInt(abi.SOL_TCP, name, v)
		},
	})
}

// setCongestion は、輻輳制御アルゴリズム名を全てのサブフローに適用します。
//
// 値は最初のNULまたは15バイトで切り詰めます。適用に失敗したサブフローがあってもセッションの値は更新します。
func (s *Session) setCongestion(ctx context.Context, val []byte) error {
	if len(val) < 1 {
		return errors.Errorf("congestion length 0: %w", errors.ErrInvalidArgument)
	}
	n := len(val)
	if n > abi.TCP_CA_NAME_MAX-1 {
		n = abi.TCP_CA_NAME_MAX - 1
	}
	ca := cString(val[:n])
	s.opts.Congestion = ca

	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_TCP,
		name:  abi.TCP_CONGESTION,
		mode:  lockSlow,
		bump:  true,
		apply: func(sf *Subflow) error {
			return sf.conn.SetOption(abi.SOL_TCP, abi.TCP_CONGESTION, []byte(ca))
		},
	})
}
