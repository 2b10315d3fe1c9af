package mptcp

import (
	"context"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

// ipInt は、SOL_IP 形式の値を読み出します。4バイト以上はint、1バイト以上はバイト、空の場合は0です。
func ipInt(val []byte) int32 {
	switch {
	case len(val) >= abi.SizeOfInt32:
		return abi.Int32(val)
	case len(val) >= 1:
		return int32(val[0])
	}
	return 0
}

func (s *Session) setIP(ctx context.Context, name int, val []byte) error {
	switch name {
	case abi.IP_FREEBIND, abi.IP_TRANSPARENT, abi.IP_BIND_ADDRESS_NO_PORT, abi.IP_LOCAL_PORT_RANGE:
		return s.setIPFirst(ctx, name, val)
	case abi.IP_TOS:
		return s.setTOS(ctx, val)
	}
	return errors.Errorf("SOL_IP name:%d: %w", name, errors.ErrNotSupported)
}

// setIPFirst は、セッションに値を保持してから最初のサブフローに適用します。
func (s *Session) setIPFirst(ctx context.Context, name int, val []byte) error {
	first, err := s.nmpc(ctx)
	if err != nil {
		return err
	}

	v := ipInt(val)
	switch name {
	case abi.IP_FREEBIND:
		if len(val) < 1 {
			return errors.Errorf("freebind length 0: %w", errors.ErrInvalidArgument)
		}
		s.opts.Freebind = v != 0
	case abi.IP_TRANSPARENT:
		if len(val) < 1 {
			return errors.Errorf("transparent length 0: %w", errors.ErrInvalidArgument)
		}
		s.opts.Transparent = v != 0
	case abi.IP_BIND_ADDRESS_NO_PORT:
		s.opts.BindAddressNoPort = v != 0
	case abi.IP_LOCAL_PORT_RANGE:
		if len(val) != abi.SizeOfInt32 {
			return errors.Errorf("local port range length %d: %w", len(val), errors.ErrInvalidArgument)
		}
		lo, hi := uint16(v), uint16(uint32(v)>>16)
		if lo != 0 && hi != 0 && lo > hi {
			return errors.Errorf("local port range %d-%d: %w", lo, hi, errors.ErrInvalidArgument)
		}
		s.opts.LocalPortRange = uint32(v)
	}

	return s.fanoutTo(ctx, []*Subflow{first}, fanoutOp{
		level: abi.SOL_IP,
		name:  name,
		mode:  lockSlow,
		bump:  true,
		apply: func(sf *Subflow) error {
			return sf.setInt(abi.SOL_IP, name, v)
		},
	})
}

func (s *Session) setTOS(ctx context.Context, val []byte) error {
	// ECNビットはセッションの値を維持する
	s.opts.TOS = uint8(ipInt(val))&^0x03 | s.opts.TOS&0x03
	tos := int32(s.opts.TOS)
	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_IP,
		name:  abi.IP_TOS,
		mode:  lockFast,
		bump:  true,
		apply: func(sf *Subflow) error {
			return sf.setInt(abi.SOL_IP, abi.IP_TOS, tos)
		},
	})
}

// setIPv6 は、最初のサブフローに適用し、成功した場合にシーケンスを進めてセッションへ値を反映します。
func (s *Session) setIPv6(ctx context.Context, name int, val []byte) error {
	switch name {
	case abi.IPV6_V6ONLY, abi.IPV6_TRANSPARENT, abi.IPV6_FREEBIND:
	default:
		return errors.Errorf("SOL_IPV6 name:%d: %w", name, errors.ErrNotSupported)
	}

	first, err := s.nmpc(ctx)
	if err != nil {
		return err
	}

	unlock, _ := first.lock(lockSlow)
	defer unlock()
	if err := first.conn.SetOption(abi.SOL_IPV6, name, val); err != nil {
		s.logger().Debugf(first.logContext(ctx), "First subflow rejected level:SOL_IPV6 name:%d: %v", name, err)
		return err
	}
	v, err := first.getInt(abi.SOL_IPV6, name)
	if err != nil {
		v = ipInt(val)
	}

	prev := s.seq
	s.bumpSeq(ctx)
	if first.seq == prev {
		first.seq = s.seq
	}

	switch name {
	case abi.IPV6_V6ONLY:
		s.opts.V6Only = v != 0
	case abi.IPV6_TRANSPARENT:
		s.opts.Transparent = v != 0
	case abi.IPV6_FREEBIND:
		s.opts.Freebind = v != 0
	}
	return nil
}
