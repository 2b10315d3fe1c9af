package mptcp

import (
	"context"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

// notsentLowatPinned は、サブフローに設定する TCP_NOTSENT_LOWAT（UINT32_MAX）です。
const notsentLowatPinned int32 = -1

/*
SyncSubflowは、サブフローをセッションの設定に同期します。

サブフローがセッションに追加された後と、サブフローでデータを送受信する前に呼び出します。
サブフローに記録されたシーケンスがセッションのシーケンスと一致する場合は何もしません。
一致しない場合は、セッションの全ての設定をサブフローに再適用し、セッションのシーケンスを記録します。

一部の設定の再適用に失敗した場合もシーケンスは記録し、失敗をまとめたエラーを返却します。
*/
func (s *Session) SyncSubflow(ctx context.Context, sf *Subflow) error {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isMember(sf) {
		return errors.Errorf("subflow %d is not a member: %w", sf.id, errors.ErrInvalidArgument)
	}

	unlock, _ := sf.lock(lockSlow)
	defer unlock()
	return s.syncLocked(ctx, sf)
}

// syncLocked は、セッションとサブフローのロックを保持した状態でサブフローを同期します。
func (s *Session) syncLocked(ctx context.Context, sf *Subflow) error {
	ctx = sf.logContext(ctx)
	var errs []error
	if !sf.pinned {
		// サブフロー単位の受信/送信の閾値は使用しない
		pinErr := errors.Join(
			sf.setInt(abi.SOL_SOCKET, abi.SO_RCVLOWAT, 0),
			sf.conn.SetOption(abi.SOL_TCP, abi.TCP_NOTSENT_LOWAT, abi.PutInt32(notsentLowatPinned)),
		)
		if pinErr == nil {
			sf.pinned = true
		} else {
			errs = append(errs, pinErr)
		}
	}

	replayed := false
	if sf.seq != s.seq {
		if err := s.replay(sf); err != nil {
			errs = append(errs, err)
		}
		s.logger().Debugf(ctx, "Subflow synced %s -> %s", sf.seq, s.seq)
		sf.seq = s.seq
		replayed = true
	}

	err := errors.Join(errs...)
	if err != nil {
		s.logger().Warnf(ctx, "Subflow sync incomplete: %v", err)
	}
	s.cfg.Observer.OnSync(replayed, err)
	return err
}

// replay は、セッションの設定をサブフローに再適用します。
func (s *Session) replay(sf *Subflow) error {
	o := &s.opts
	var errs []error
	set := func(level, name int, val []byte) {
		if err := sf.conn.SetOption(level, name, val); err != nil {
			errs = append(errs, errors.Errorf("level:%d name:%d: %w", level, name, err))
		}
	}
	setInt := func(level, name int, v int32) {
		set(level, name, abi.PutInt32(v))
	}

	set(abi.SOL_SOCKET, abi.SO_KEEPALIVE, abi.PutBool(o.KeepAlive))
	setInt(abi.SOL_SOCKET, abi.SO_PRIORITY, o.Priority)
	switch {
	case o.BoundDevIf != 0:
		setInt(abi.SOL_SOCKET, abi.SO_BINDTOIFINDEX, o.BoundDevIf)
	case o.BindToDevice != "":
		set(abi.SOL_SOCKET, abi.SO_BINDTODEVICE, []byte(o.BindToDevice))
	}
	if o.IncomingCPU >= 0 {
		setInt(abi.SOL_SOCKET, abi.SO_INCOMING_CPU, o.IncomingCPU)
	}
	if sf.isIPv6() {
		set(abi.SOL_IPV6, abi.IPV6_V6ONLY, abi.PutBool(o.V6Only))
	}
	setInt(abi.SOL_IP, abi.IP_TOS, int32(o.TOS))

	if o.sndBufLocked() {
		setInt(abi.SOL_SOCKET, abi.SO_SNDBUF, o.SndBuf/2)
	}
	if o.rcvBufLocked() {
		setInt(abi.SOL_SOCKET, abi.SO_RCVBUF, o.RcvBuf/2)
	}
	if o.Linger.OnOff != 0 {
		set(abi.SOL_SOCKET, abi.SO_LINGER, abi.Marshal(&o.Linger))
	}
	if o.Mark != 0 {
		setInt(abi.SOL_SOCKET, abi.SO_MARK, int32(o.Mark))
	}
	set(abi.SOL_SOCKET, abi.SO_DEBUG, abi.PutBool(o.Debug))

	if o.Congestion != "" {
		if cur, err := sf.congestion(); err != nil || cur != o.Congestion {
			set(abi.SOL_TCP, abi.TCP_CONGESTION, []byte(o.Congestion))
		}
	}
	set(abi.SOL_TCP, abi.TCP_CORK, abi.PutBool(o.Cork))
	set(abi.SOL_TCP, abi.TCP_NODELAY, abi.PutBool(o.NoDelay))
	if o.KeepIdle != 0 {
		setInt(abi.SOL_TCP, abi.TCP_KEEPIDLE, o.KeepIdle)
	}
	if o.KeepIntvl != 0 {
		setInt(abi.SOL_TCP, abi.TCP_KEEPINTVL, o.KeepIntvl)
	}
	if o.KeepCnt != 0 {
		setInt(abi.SOL_TCP, abi.TCP_KEEPCNT, o.KeepCnt)
	}
	if o.MaxSeg != 0 {
		setInt(abi.SOL_TCP, abi.TCP_MAXSEG, o.MaxSeg)
	}

	set(abi.SOL_IP, abi.IP_TRANSPARENT, abi.PutBool(o.Transparent))
	set(abi.SOL_IP, abi.IP_FREEBIND, abi.PutBool(o.Freebind))
	set(abi.SOL_IP, abi.IP_BIND_ADDRESS_NO_PORT, abi.PutBool(o.BindAddressNoPort))
	setInt(abi.SOL_IP, abi.IP_LOCAL_PORT_RANGE, int32(o.LocalPortRange))

	return errors.Join(errs...)
}

/*
setRcvLowat は、SO_RCVLOWAT をセッションに設定します。

値は受信バッファの半分（受信バッファがロックされていない場合は tcp_rmem の最大値の半分）で制限し、
0の場合は1として保持します。受信バッファがロックされておらず、必要な領域が現在の受信バッファを
超える場合は、セッションと全てのサブフローの受信バッファを拡張し、サブフローのウィンドウを制限します。
*/
func (s *Session) setRcvLowat(ctx context.Context, val int32) error {
	locked := s.opts.rcvBufLocked()
	limit := s.cfg.Sysctl.TCPRmem[2] >> 1
	if locked {
		limit = s.opts.RcvBuf >> 1
	}
	if val > limit {
		val = limit
	}
	if val == 0 {
		s.opts.RcvLowat = 1
	} else {
		s.opts.RcvLowat = val
	}
	if locked {
		return nil
	}

	space := int64(val) * 2
	if space <= int64(s.opts.RcvBuf) {
		return nil
	}
	if space > abi.INT_MAX {
		space = abi.INT_MAX
	}
	s.opts.RcvBuf = int32(space)
	s.logger().Debugf(ctx, "Receive buffer grown to %d for rcvlowat %d", space, val)

	clamp := val
	return s.fanout(ctx, fanoutOp{
		level: abi.SOL_SOCKET,
		name:  abi.SO_RCVLOWAT,
		mode:  lockFast,
		apply: func(sf *Subflow) error {
			return errors.Join(
				sf.setInt(abi.SOL_SOCKET, abi.SO_RCVBUF, int32(space/2)),
				sf.setInt(abi.SOL_TCP, abi.TCP_WINDOW_CLAMP, clamp),
			)
		},
	})
}
