package mptcp

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/transport"
)

const membersDegree = 8

/*
Sessionは、複数のサブフローで構成されるMPTCPのセッションです。

ソケットオプションの設定はセッションにキャッシュされ、設定の種類に応じて全てのサブフロー、
または最初のサブフローに適用されます。セッションの設定が変更されるとシーケンスが進み、
シーケンスが一致しないサブフローは SyncSubflow で全ての設定を再適用します。

セッションの状態はセッションのロックで保護されます。サブフローのロックはセッションのロックを
保持した状態で1つずつ取得します。
*/
type Session struct {
	cfg SessionConfig

	mu       sync.Mutex
	state    State
	seq      Seq
	opts     Options
	fallback bool
	closed   bool
	members  *btree.BTreeG[*Subflow]
	first    *Subflow
	nextID   uint32
	counters Counters
}

// NewSessionは、セッションを生成します。
func NewSession(opts ...SessionOption) (*Session, error) {
	cfg := defaultSessionConfig
	for _, o := range opts {
		o(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return newSession(cfg), nil
}

func newSession(cfg SessionConfig) *Session {
	return &Session{
		cfg:   cfg,
		state: cfg.State,
		seq:   resetSeq(cfg.State),
		opts:  defaultOptions(cfg.Sysctl),
		members: btree.NewG(membersDegree, func(a, b *Subflow) bool {
			return a.id < b.id
		}),
		counters: Counters{Token: tokenFromID(cfg.ID)},
	}
}

func (s *Session) logger() log.Logger {
	return s.cfg.Logger
}

func (s *Session) logContext(ctx context.Context) context.Context {
	if log.TrackSessionID(ctx) != "" {
		return ctx
	}
	return log.WithTrackSessionID(ctx, s.cfg.ID)
}

// IDは、セッションIDを返却します。
func (s *Session) ID() string {
	return s.cfg.ID
}

// Stateは、セッションの状態を返却します。
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetStateは、セッションの状態を変更します。
//
// 状態の変更だけではシーケンスは進みません。次にシーケンスが進んだときに新しい状態が記録されます。
func (s *Session) SetState(ctx context.Context, state State) {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == state {
		return
	}
	s.logger().Infof(ctx, "Session state changed %s -> %s", s.state, state)
	s.state = state
}

// Seqは、セッションの現在のシーケンスを返却します。
func (s *Session) Seq() Seq {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Optionsは、セッションが保持しているソケットオプションの値を返却します。
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Fallbackは、セッションがTCPにフォールバックしているかどうかを返却します。
func (s *Session) Fallback() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

// SetFallbackは、セッションをTCPにフォールバックさせます。
//
// フォールバック後は、SOL_SOCKET 以外のソケットオプションの操作は最初のサブフローへそのまま渡されます。
// フォールバックは解除できません。
func (s *Session) SetFallback(ctx context.Context) {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fallback {
		return
	}
	s.fallback = true
	s.logger().Infof(ctx, "Session fell back to TCP")
}

// AddSubflowは、コネクションをサブフローとしてセッションに追加します。
//
// 追加されたサブフローは未同期です。データの送受信に使用する前に SyncSubflow を呼び出してください。
// 最初に追加されたサブフローが最初のサブフローになります。
func (s *Session) AddSubflow(ctx context.Context, conn transport.Conn) (*Subflow, error) {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.Errorf("failed to add subflow: %w", errors.ErrConnectionClosed)
	}
	return s.addSubflowLocked(ctx, conn), nil
}

func (s *Session) addSubflowLocked(ctx context.Context, conn transport.Conn) *Subflow {
	s.nextID++
	sf := &Subflow{
		id:   s.nextID,
		conn: conn,
	}
	s.members.ReplaceOrInsert(sf)
	if s.first == nil {
		s.first = sf
	}
	s.logger().Infof(sf.logContext(ctx), "Subflow attached local:%v remote:%v", conn.LocalAddr(), conn.RemoteAddr())
	return sf
}

// RemoveSubflowは、サブフローをセッションから取り除き、コネクションを閉じます。
func (s *Session) RemoveSubflow(ctx context.Context, sf *Subflow) error {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isMember(sf) {
		return errors.Errorf("subflow %d is not a member: %w", sf.id, errors.ErrInvalidArgument)
	}
	s.members.Delete(sf)
	if s.first == sf {
		s.first = nil
	}
	s.logger().Infof(sf.logContext(ctx), "Subflow detached")
	return sf.close()
}

// Subflowsは、サブフローをID順に返却します。
func (s *Session) Subflows() []*Subflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subflowは、IDに対応するサブフローを返却します。
func (s *Session) Subflow(id uint32) (*Subflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.members.Get(&Subflow{id: id})
}

// isMember は、sf 自身がこのセッションのサブフローかどうかを返却します。
// 他のセッションの同じIDのサブフローは含みません。呼び出し元はセッションのロックを保持していること。
func (s *Session) isMember(sf *Subflow) bool {
	got, ok := s.members.Get(sf)
	return ok && got == sf
}

// snapshot は、現在のサブフローをID順に返却します。呼び出し元はセッションのロックを保持していること。
func (s *Session) snapshot() []*Subflow {
	res := make([]*Subflow, 0, s.members.Len())
	s.members.Ascend(func(sf *Subflow) bool {
		res = append(res, sf)
		return true
	})
	return res
}

// Acceptは、待ち受け中のセッションから新しいセッションを生成し、conn を最初のサブフローとして追加します。
//
// 新しいセッションはソケットオプションの値とシーケンスを引き継ぎます。シーケンスは待ち受け状態で
// 採番されているため、新しいセッションのサブフローは SyncSubflow で必ず設定が再適用されます。
func (s *Session) Accept(ctx context.Context, conn transport.Conn, opts ...SessionOption) (*Session, *Subflow, error) {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateListen {
		return nil, nil, errors.Errorf("accept in state %s: %w", s.state, errors.ErrInvalidArgument)
	}

	cfg := s.cfg
	cfg.ID = ""
	cfg.State = StateEstablished
	for _, o := range opts {
		o(&cfg)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, nil, err
	}
	child := newSession(cfg)
	child.opts = s.opts
	child.seq = s.seq

	s.logger().Infof(ctx, "Accepted session %s", cfg.ID)
	sf := child.addSubflowLocked(child.logContext(ctx), conn)
	return child, sf, nil
}

// Closeは、全てのサブフローを閉じ、セッションを閉じた状態にします。
func (s *Session) Close(ctx context.Context) error {
	ctx = s.logContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.state = StateClose

	var errs []error
	for _, sf := range s.snapshot() {
		if err := sf.close(); err != nil {
			errs = append(errs, errors.Errorf("subflow %d: %w", sf.id, err))
		}
	}
	s.members.Clear(false)
	s.first = nil
	s.logger().Infof(ctx, "Session closed")
	return errors.Join(errs...)
}

// bumpSeq は、セッションのシーケンスを進めます。呼び出し元はセッションのロックを保持していること。
func (s *Session) bumpSeq(ctx context.Context) {
	s.seq = s.seq.next(s.state)
	s.logger().Debugf(ctx, "Configuration sequence bumped to %s", s.seq)
	s.cfg.Observer.OnSeqBump(s.seq)
}
