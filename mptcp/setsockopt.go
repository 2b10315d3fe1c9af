package mptcp

import (
	"context"
	"net"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

// events は、セッションのロックを解放した後に通知するイベントです。
type events struct {
	writeSpace  *WriteSpaceEvent
	pendingPush *PendingPushEvent
}

func (s *Session) fire(ev *events) {
	if ev.writeSpace != nil {
		s.cfg.WriteSpaceHandler.OnWriteSpace(ev.writeSpace)
	}
	if ev.pendingPush != nil {
		s.cfg.PendingPushHandler.OnPendingPush(ev.pendingPush)
	}
}

/*
SetOptionは、セッションのソケットオプションを設定します。

設定はセッションにキャッシュされ、オプションの種類に応じてサブフローに適用されます。
一部のサブフローへの適用に失敗した場合もキャッシュは更新され、*errors.FanoutError を返却します。
失敗したサブフローは次の SyncSubflow で再適用されます。

許可リストにないオプションは errors.ErrNotSupported（SOL_SOCKET 以外では errors.ErrNoProtocolOption）を返却し、
セッションの状態は変更しません。
*/
func (s *Session) SetOption(ctx context.Context, level, name int, val []byte) error {
	ctx = s.logContext(ctx)
	var ev events
	err := s.setOption(ctx, level, name, val, &ev)
	s.fire(&ev)
	return err
}

func (s *Session) setOption(ctx context.Context, level, name int, val []byte, ev *events) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.cfg.Observer.OnSetOption(level, name, err)
	}()

	if level == abi.SOL_SOCKET {
		return s.setSocket(ctx, name, val, ev)
	}
	if _, ok := DispatchOf(level, name); !ok {
		s.logger().Debugf(ctx, "Rejected unsupported option %s", abi.OptionName(level, name))
		return errors.Errorf("level:%d name:%d: %w", level, name, errors.ErrNoProtocolOption)
	}
	if s.fallback && s.first != nil {
		return s.setFirst(ctx, s.first, level, name, val)
	}
	switch level {
	case abi.SOL_IP:
		return s.setIP(ctx, name, val)
	case abi.SOL_IPV6:
		return s.setIPv6(ctx, name, val)
	case abi.SOL_TCP:
		return s.setTCP(ctx, name, val, ev)
	}
	return errors.Errorf("level:%d name:%d: %w", level, name, errors.ErrNotSupported)
}

// intOption は、int形式の値を読み出します。4バイト未満の場合は errors.ErrInvalidArgument を返却します。
func intOption(val []byte) (int32, error) {
	if len(val) < abi.SizeOfInt32 {
		return 0, errors.Errorf("option length %d: %w", len(val), errors.ErrInvalidArgument)
	}
	return abi.Int32(val), nil
}

func (s *Session) setSocket(ctx context.Context, name int, val []byte, ev *events) error {
	d, ok := DispatchOf(abi.SOL_SOCKET, name)
	if !ok {
		s.logger().Debugf(ctx, "Rejected unsupported option level:SOL_SOCKET name:%d", name)
		return errors.Errorf("SOL_SOCKET name:%d: %w", name, errors.ErrNotSupported)
	}

	switch d.Policy {
	case PolicyNoop:
		return nil
	case PolicySession:
		return s.setSocketSession(ctx, name, val)
	case PolicyFirstSubflow:
		return s.setSocketFirst(ctx, name, val)
	}

	switch name {
	case abi.SO_LINGER:
		return s.setLinger(ctx, val)
	case abi.SO_TIMESTAMP_OLD, abi.SO_TIMESTAMP_NEW, abi.SO_TIMESTAMPNS_OLD, abi.SO_TIMESTAMPNS_NEW:
		return s.setTimestamp(ctx, name, val)
	case abi.SO_TIMESTAMPING_OLD, abi.SO_TIMESTAMPING_NEW:
		return s.setTimestamping(ctx, name, val)
	}
	return s.setSocketInt(ctx, name, val)
}

func (s *Session) setSocketInt(ctx context.Context, name int, val []byte) error {
	v, err := intOption(val)
	if err != nil {
		return err
	}

	sysctl := s.cfg.Sysctl
	switch name {
	case abi.SO_KEEPALIVE:
		s.opts.KeepAlive = v != 0
	case abi.SO_DEBUG:
		s.opts.Debug = v != 0
	case abi.SO_MARK:
		s.opts.Mark = uint32(v)
	case abi.SO_PRIORITY:
		s.opts.Priority = v
	case abi.SO_SNDBUF, abi.SO_SNDBUFFORCE:
		s.opts.SndBuf = bufSize(v, sysctl.WmemMax, abi.SOCK_MIN_SNDBUF, name == abi.SO_SNDBUFFORCE)
		s.opts.UserLocks |= abi.SOCK_SNDBUF_LOCK
	case abi.SO_RCVBUF, abi.SO_RCVBUFFORCE:
		s.opts.RcvBuf = bufSize(v, sysctl.RmemMax, abi.SOCK_MIN_RCVBUF, name == abi.SO_RCVBUFFORCE)
		s.opts.UserLocks |= abi.SOCK_RCVBUF_LOCK
	case abi.SO_INCOMING_CPU:
		s.opts.IncomingCPU = v
	}

	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_SOCKET,
		name:  name,
		mode:  lockFast,
		bump:  true,
		apply: func(sf *Subflow) error {
			return sf.setInt(abi.SOL_SOCKET, name, v)
		},
	})
}

func (s *Session) setLinger(ctx context.Context, val []byte) error {
	if len(val) < abi.SizeOfLinger {
		return errors.Errorf("linger length %d: %w", len(val), errors.ErrInvalidArgument)
	}
	var l abi.Linger
	l.UnmarshalBytes(val)
	if l.OnOff == 0 {
		s.opts.Linger.OnOff = 0
	} else {
		s.opts.Linger = abi.Linger{OnOff: 1, Linger: l.Linger}
	}

	raw := abi.Marshal(&l)
	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_SOCKET,
		name:  abi.SO_LINGER,
		mode:  lockFast,
		bump:  true,
		apply: func(sf *Subflow) error {
			return sf.conn.SetOption(abi.SOL_SOCKET, abi.SO_LINGER, raw)
		},
	})
}

func (s *Session) setTimestamp(ctx context.Context, name int, val []byte) error {
	v, err := intOption(val)
	if err != nil {
		return err
	}
	switch {
	case v != 0:
		s.opts.Timestamp = int32(name)
	case s.opts.Timestamp == int32(name):
		s.opts.Timestamp = 0
	}
	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_SOCKET,
		name:  name,
		mode:  lockFast,
		apply: func(sf *Subflow) error {
			return sf.setBool(abi.SOL_SOCKET, name, v != 0)
		},
	})
}

func (s *Session) setTimestamping(ctx context.Context, name int, val []byte) error {
	var ts abi.Timestamping
	switch len(val) {
	case abi.SizeOfTimestamping:
		ts.UnmarshalBytes(val)
	case abi.SizeOfInt32:
		ts.Flags = abi.Int32(val)
	default:
		return errors.Errorf("timestamping length %d: %w", len(val), errors.ErrInvalidArgument)
	}
	s.opts.Timestamping = ts

	raw := abi.Marshal(&ts)
	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_SOCKET,
		name:  name,
		mode:  lockFast,
		apply: func(sf *Subflow) error {
			return sf.conn.SetOption(abi.SOL_SOCKET, name, raw)
		},
	})
}

// setSocketFirst は、最初のサブフローに適用し、成功した場合にセッションへ値を反映します。
func (s *Session) setSocketFirst(ctx context.Context, name int, val []byte) error {
	first, err := s.nmpc(ctx)
	if err != nil {
		return err
	}
	if err := s.setFirst(ctx, first, abi.SOL_SOCKET, name, val); err != nil {
		return err
	}

	switch name {
	case abi.SO_REUSEPORT:
		s.opts.ReusePort = ipInt(val) != 0
	case abi.SO_REUSEADDR:
		if ipInt(val) != 0 {
			s.opts.ReuseAddr = 1
		} else {
			s.opts.ReuseAddr = 0
		}
	case abi.SO_BINDTODEVICE:
		n := len(val)
		if n > ifNameSize-1 {
			n = ifNameSize - 1
		}
		s.opts.BindToDevice = cString(val[:n])
		s.opts.BoundDevIf = 0
		if s.opts.BindToDevice != "" {
			if ifi, err := net.InterfaceByName(s.opts.BindToDevice); err == nil {
				s.opts.BoundDevIf = int32(ifi.Index)
			}
		}
	case abi.SO_BINDTOIFINDEX:
		s.opts.BoundDevIf = ipInt(val)
		s.opts.BindToDevice = ""
		if s.opts.BoundDevIf != 0 {
			if ifi, err := net.InterfaceByIndex(int(s.opts.BoundDevIf)); err == nil {
				s.opts.BindToDevice = ifi.Name
			}
		}
	}
	return nil
}

const ifNameSize = 16

// sockTimeoutSize は、struct timeval および struct __kernel_sock_timeval のサイズです。
const sockTimeoutSize = 16

func (s *Session) setSocketSession(ctx context.Context, name int, val []byte) error {
	switch name {
	case abi.SO_RCVTIMEO_OLD, abi.SO_RCVTIMEO_NEW, abi.SO_SNDTIMEO_OLD, abi.SO_SNDTIMEO_NEW:
		if len(val) < sockTimeoutSize {
			return errors.Errorf("timeout length %d: %w", len(val), errors.ErrInvalidArgument)
		}
		if name == abi.SO_RCVTIMEO_OLD || name == abi.SO_RCVTIMEO_NEW {
			s.opts.RcvTimeo = string(val[:sockTimeoutSize])
		} else {
			s.opts.SndTimeo = string(val[:sockTimeoutSize])
		}
		return nil
	}

	v, err := intOption(val)
	if err != nil {
		return err
	}
	switch name {
	case abi.SO_RCVLOWAT:
		if v < 0 {
			v = abi.INT_MAX
		}
		return s.setRcvLowat(ctx, v)
	case abi.SO_BUSY_POLL:
		if v < 0 {
			return errors.Errorf("busy poll %d: %w", v, errors.ErrInvalidArgument)
		}
		s.opts.BusyPoll = v
	case abi.SO_PREFER_BUSY_POLL:
		s.opts.PreferBusyPoll = v != 0
	case abi.SO_BUSY_POLL_BUDGET:
		if v < 0 || v > 0xffff {
			return errors.Errorf("busy poll budget %d: %w", v, errors.ErrInvalidArgument)
		}
		s.opts.BusyPollBudget = v
	}
	return nil
}
