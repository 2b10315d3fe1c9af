package mptcp

import (
	"context"
	"time"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

/*
GetOptionは、セッションのソケットオプションを buf に読み出します。

SOL_SOCKET はセッションの値を返却します。SOL_IP/SOL_IPV6/SOL_TCP はセッションにキャッシュされた値、
または最初のサブフローの値を返却します。SOL_MPTCP はセッションとサブフローの情報を集約して返却します。
セッションがTCPにフォールバックしている場合は、SOL_SOCKET 以外は最初のサブフローの値を返却します。
*/
func (s *Session) GetOption(ctx context.Context, level, name int, buf *Buffer) (err error) {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		s.cfg.Observer.OnGetOption(level, name, err)
	}()

	if level == abi.SOL_SOCKET {
		return s.getSocket(ctx, name, buf)
	}
	if s.fallback && s.first != nil {
		if level == abi.SOL_MPTCP {
			// TCPにフォールバックしたセッションは SOL_MPTCP に応答しない
			return errors.Errorf("SOL_MPTCP on fallback session: %w", errors.ErrNoProtocolOption)
		}
		return s.getFirst(ctx, s.first, level, name, buf)
	}
	switch level {
	case abi.SOL_IP:
		return s.getIP(ctx, name, buf)
	case abi.SOL_IPV6:
		return s.getIPv6(ctx, name, buf)
	case abi.SOL_TCP:
		return s.getTCP(ctx, name, buf)
	case abi.SOL_MPTCP:
		return s.getMPTCP(ctx, name, buf)
	}
	return errors.Errorf("level:%d name:%d: %w", level, name, errors.ErrNotSupported)
}

func (s *Session) getSocket(_ context.Context, name int, buf *Buffer) error {
	o := &s.opts
	switch name {
	case abi.SO_KEEPALIVE:
		return buf.writeTrunc(abi.PutBool(o.KeepAlive))
	case abi.SO_DEBUG:
		return buf.writeTrunc(abi.PutBool(o.Debug))
	case abi.SO_MARK:
		return buf.writeTrunc(abi.PutInt32(int32(o.Mark)))
	case abi.SO_PRIORITY:
		return buf.writeTrunc(abi.PutInt32(o.Priority))
	case abi.SO_SNDBUF:
		return buf.writeTrunc(abi.PutInt32(o.SndBuf))
	case abi.SO_RCVBUF:
		return buf.writeTrunc(abi.PutInt32(o.RcvBuf))
	case abi.SO_INCOMING_CPU:
		return buf.writeTrunc(abi.PutInt32(o.IncomingCPU))
	case abi.SO_REUSEADDR:
		return buf.writeTrunc(abi.PutInt32(o.ReuseAddr))
	case abi.SO_REUSEPORT:
		return buf.writeTrunc(abi.PutBool(o.ReusePort))
	case abi.SO_BINDTOIFINDEX:
		return buf.writeTrunc(abi.PutInt32(o.BoundDevIf))
	case abi.SO_BINDTODEVICE:
		if buf.Len < ifNameSize {
			return errors.Errorf("bindtodevice length %d: %w", buf.Len, errors.ErrInvalidArgument)
		}
		if o.BindToDevice == "" {
			buf.Len = 0
			return nil
		}
		return buf.write(append([]byte(o.BindToDevice), 0))
	case abi.SO_LINGER:
		return buf.writeTrunc(abi.Marshal(&o.Linger))
	case abi.SO_RCVLOWAT:
		return buf.writeTrunc(abi.PutInt32(o.RcvLowat))
	case abi.SO_RCVTIMEO_OLD, abi.SO_RCVTIMEO_NEW:
		return buf.writeTrunc(timeoutBytes(o.RcvTimeo))
	case abi.SO_SNDTIMEO_OLD, abi.SO_SNDTIMEO_NEW:
		return buf.writeTrunc(timeoutBytes(o.SndTimeo))
	case abi.SO_BUSY_POLL:
		return buf.writeTrunc(abi.PutInt32(o.BusyPoll))
	case abi.SO_PREFER_BUSY_POLL:
		return buf.writeTrunc(abi.PutBool(o.PreferBusyPoll))
	case abi.SO_BUSY_POLL_BUDGET:
		return buf.writeTrunc(abi.PutInt32(o.BusyPollBudget))
	case abi.SO_TIMESTAMP_OLD, abi.SO_TIMESTAMP_NEW, abi.SO_TIMESTAMPNS_OLD, abi.SO_TIMESTAMPNS_NEW:
		return buf.writeTrunc(abi.PutBool(o.Timestamp == int32(name)))
	case abi.SO_TIMESTAMPING_OLD, abi.SO_TIMESTAMPING_NEW:
		return buf.writeTrunc(abi.Marshal(&o.Timestamping))
	}
	return errors.Errorf("SOL_SOCKET name:%d: %w", name, errors.ErrNoProtocolOption)
}

func timeoutBytes(raw string) []byte {
	if raw == "" {
		return make([]byte, sockTimeoutSize)
	}
	return []byte(raw)
}

func (s *Session) getIP(_ context.Context, name int, buf *Buffer) error {
	o := &s.opts
	switch name {
	case abi.IP_TOS:
		return buf.putInt(int32(o.TOS))
	case abi.IP_FREEBIND:
		return buf.putBool(o.Freebind)
	case abi.IP_TRANSPARENT:
		return buf.putBool(o.Transparent)
	case abi.IP_BIND_ADDRESS_NO_PORT:
		return buf.putBool(o.BindAddressNoPort)
	case abi.IP_LOCAL_PORT_RANGE:
		return buf.putInt(int32(o.LocalPortRange))
	}
	return errors.Errorf("SOL_IP name:%d: %w", name, errors.ErrNotSupported)
}

func (s *Session) getIPv6(_ context.Context, name int, buf *Buffer) error {
	o := &s.opts
	switch name {
	case abi.IPV6_V6ONLY:
		return buf.putBool(o.V6Only)
	case abi.IPV6_TRANSPARENT:
		return buf.putBool(o.Transparent)
	case abi.IPV6_FREEBIND:
		return buf.putBool(o.Freebind)
	}
	return errors.Errorf("SOL_IPV6 name:%d: %w", name, errors.ErrNotSupported)
}

func (s *Session) getTCP(ctx context.Context, name int, buf *Buffer) error {
	o := &s.opts
	sysctl := s.cfg.Sysctl
	switch name {
	case abi.TCP_ULP, abi.TCP_CONGESTION, abi.TCP_INFO, abi.TCP_CC_INFO, abi.TCP_DEFER_ACCEPT,
		abi.TCP_FASTOPEN, abi.TCP_FASTOPEN_CONNECT, abi.TCP_FASTOPEN_KEY, abi.TCP_FASTOPEN_NO_COOKIE,
		abi.TCP_MAXSEG:
		first, err := s.firstSubflow(ctx)
		if err != nil {
			return err
		}
		return s.getFirst(ctx, first, abi.SOL_TCP, name, buf)
	case abi.TCP_INQ:
		return buf.putBool(o.Inq)
	case abi.TCP_CORK:
		return buf.putBool(o.Cork)
	case abi.TCP_NODELAY:
		return buf.putBool(o.NoDelay)
	case abi.TCP_KEEPIDLE:
		return buf.putInt(orDefault(o.KeepIdle, seconds(sysctl.KeepaliveTime)))
	case abi.TCP_KEEPINTVL:
		return buf.putInt(orDefault(o.KeepIntvl, seconds(sysctl.KeepaliveIntvl)))
	case abi.TCP_KEEPCNT:
		return buf.putInt(orDefault(o.KeepCnt, sysctl.KeepaliveProbes))
	case abi.TCP_NOTSENT_LOWAT:
		return buf.putInt(int32(o.NotsentLowat))
	case abi.TCP_IS_MPTCP:
		return buf.putInt(1)
	}
	return errors.Errorf("SOL_TCP name:%d: %w", name, errors.ErrNotSupported)
}

func orDefault(v, def int32) int32 {
	if v != 0 {
		return v
	}
	return def
}

func seconds(d time.Duration) int32 {
	return int32(d / time.Second)
}
