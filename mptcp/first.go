package mptcp

import (
	"context"

	"github.com/aptpod/mptcp-go/abi"
	"github.com/aptpod/mptcp-go/errors"
)

// nmpc は、最初のサブフローを返却します。呼び出し元はセッションのロックを保持していること。
//
// セッションが CLOSE または LISTEN の状態でない場合は errors.ErrInvalidArgument を返却します。
// 最初のサブフローが存在しない場合はファクトリで生成し、生成できなければ errors.ErrResourceUnavailable を返却します。
func (s *Session) nmpc(ctx context.Context) (*Subflow, error) {
	if s.state != StateClose && s.state != StateListen {
		return nil, errors.Errorf("first subflow in state %s: %w", s.state, errors.ErrInvalidArgument)
	}
	if s.first != nil {
		return s.first, nil
	}
	return s.createFirst(ctx)
}

// firstSubflow は、最初のサブフローを返却します。呼び出し元はセッションのロックを保持していること。
//
// 読み出し側で使用します。最初のサブフローが存在する場合はセッションの状態に関わらずそれを返却し、存在しない場合は nmpc と同じです。
func (s *Session) firstSubflow(ctx context.Context) (*Subflow, error) {
	if s.first != nil {
		return s.first, nil
	}
	return s.nmpc(ctx)
}

func (s *Session) createFirst(ctx context.Context) (*Subflow, error) {
	if s.closed {
		return nil, errors.Errorf("create first subflow: %w", errors.ErrConnectionClosed)
	}
	if s.cfg.Factory == nil {
		return nil, errors.Errorf("no subflow factory: %w", errors.ErrResourceUnavailable)
	}
	conn, err := s.cfg.Factory.NewSubflow(ctx)
	if err != nil {
		s.logger().Warnf(ctx, "Failed to create first subflow: %v", err)
		return nil, errors.Errorf("create first subflow: %v: %w", err, errors.ErrResourceUnavailable)
	}
	return s.addSubflowLocked(ctx, conn), nil
}

// setFirst は、val をそのまま最初のサブフローに設定します。
func (s *Session) setFirst(ctx context.Context, sf *Subflow, level, name int, val []byte) error {
	unlock, _ := sf.lock(lockSlow)
	defer unlock()
	if err := sf.conn.SetOption(level, name, val); err != nil {
		s.logger().Debugf(sf.logContext(ctx), "First subflow rejected %s: %v", abi.OptionName(level, name), err)
		return err
	}
	return nil
}

// maxFirstOptionLen は、最初のサブフローから読み出す値の最大長です。tcp_info を含む全ての値が収まります。
const maxFirstOptionLen = 1024

// getFirst は、最初のサブフローから値を読み出し、buf に書き込みます。
//
// 読み出す長さは buf.Len と maxFirstOptionLen の小さい方です。
func (s *Session) getFirst(ctx context.Context, sf *Subflow, level, name int, buf *Buffer) error {
	if buf.Len < 0 {
		return errors.Errorf("negative length: %w", errors.ErrInvalidArgument)
	}
	unlock, _ := sf.lock(lockSlow)
	tmp := make([]byte, min(buf.Len, maxFirstOptionLen))
	n, err := sf.conn.GetOption(level, name, tmp)
	unlock()
	if err != nil {
		s.logger().Debugf(sf.logContext(ctx), "First subflow read %s: %v", abi.OptionName(level, name), err)
		return err
	}
	return buf.write(tmp[:n])
}
