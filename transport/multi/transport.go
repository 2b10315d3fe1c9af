package multi

import (
	"context"
	"maps"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/aptpod/mptcp-go/errors"
	"github.com/aptpod/mptcp-go/internal/ch"
	"github.com/aptpod/mptcp-go/log"
	"github.com/aptpod/mptcp-go/mptcp"
	"github.com/aptpod/mptcp-go/transport"
	"github.com/aptpod/mptcp-go/transport/metrics"
)

var _ transport.ReadWriter = (*Transport)(nil)

type readRes struct {
	id uint32
	bs []byte
}

type subflowState struct {
	sf       *mptcp.Subflow
	provider metrics.ManagedMetricsProvider
}

/*
Transport は、セッションのサブフローを束ねて1本のコネクションとして読み書きします。

書き込みのたびに SubflowSelector でサブフローを選択し、書き込む前に mptcp.Session.SyncSubflow で
サブフローをセッションの設定に同期します。読み出しは全てのサブフローから到着順に返却します。
*/
type Transport struct {
	ctx    context.Context
	cancel context.CancelFunc

	session  *mptcp.Session
	selector SubflowSelector
	updater  MetricsUpdater
	logger   log.Logger

	metricsInterval time.Duration
	newProvider     func(metrics.OptionGetter, time.Duration) metrics.ManagedMetricsProvider

	readResCh chan *readRes

	mu         sync.RWMutex
	subflows   map[uint32]*subflowState
	readLoopWg sync.WaitGroup
	loopWg     sync.WaitGroup
	closeOnce  sync.Once
}

// TransportConfig は Transport の設定です。
type TransportConfig struct {
	// 束ねるセッション。Transport を閉じるとセッションも閉じます。
	Session *mptcp.Session
	// サブフローの選択方法
	Selector SubflowSelector
	Logger   log.Logger
	// MetricsInterval は、TCP_INFO を読み出す間隔です。0以下の場合は100msです。
	MetricsInterval time.Duration
	// NewProvider は、サブフローごとのメトリクスプロバイダーを生成します。nil の場合は metrics.NewProvider です。
	NewProvider func(metrics.OptionGetter, time.Duration) metrics.ManagedMetricsProvider
}

const defaultMetricsInterval = 100 * time.Millisecond

// NewTransport は、セッションに属している全てのサブフローを束ねた Transport を返却します。
func NewTransport(c TransportConfig) (*Transport, error) {
	if err := validateConfig(&c); err != nil {
		return nil, err
	}

	m := &Transport{
		session:         c.Session,
		selector:        c.Selector,
		logger:          c.Logger,
		metricsInterval: c.MetricsInterval,
		newProvider:     c.NewProvider,
		readResCh:       make(chan *readRes, 1024),
		subflows:        make(map[uint32]*subflowState),
	}
	m.ctx, m.cancel = context.WithCancel(log.WithTrackSessionID(context.Background(), c.Session.ID()))

	if src, ok := c.Selector.(interface{ SetTxBytesSource(TxBytesSource) }); ok {
		src.SetTxBytesSource(m)
	}
	if updater, ok := c.Selector.(MetricsUpdater); ok {
		m.updater = updater
	}

	for _, sf := range c.Session.Subflows() {
		if err := m.attach(sf); err != nil {
			m.Close()
			return nil, err
		}
	}

	if m.updater != nil {
		m.updateMetrics()
		m.loopWg.Add(1)
		go m.metricsUpdateLoop()
	}
	return m, nil
}

func validateConfig(c *TransportConfig) error {
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	if c.Session == nil {
		return errors.Errorf("session cannot be nil: %w", errors.ErrInvalidArgument)
	}
	if c.Selector == nil {
		return errors.Errorf("subflow selector cannot be nil: %w", errors.ErrInvalidArgument)
	}
	if c.MetricsInterval <= 0 {
		c.MetricsInterval = defaultMetricsInterval
	}
	if c.NewProvider == nil {
		c.NewProvider = metrics.NewProvider
	}
	return nil
}

// AddSubflow は、コネクションをセッションに追加し、書き込み先の候補に加えます。
//
// 追加したサブフローは、最初に選択されたときにセッションの設定に同期されます。
func (m *Transport) AddSubflow(ctx context.Context, conn transport.Conn) (*mptcp.Subflow, error) {
	sf, err := m.session.AddSubflow(ctx, conn)
	if err != nil {
		return nil, err
	}
	if err := m.attach(sf); err != nil {
		if rerr := m.session.RemoveSubflow(ctx, sf); rerr != nil {
			m.logger.Warnf(m.subflowContext(sf.ID()), "Failed to remove unscheduled subflow: %v", rerr)
		}
		return nil, err
	}
	return sf, nil
}

// RemoveSubflow は、サブフローを書き込み先の候補から外し、セッションから取り除きます。
func (m *Transport) RemoveSubflow(ctx context.Context, sf *mptcp.Subflow) error {
	m.detach(sf.ID())
	return m.session.RemoveSubflow(ctx, sf)
}

func (m *Transport) attach(sf *mptcp.Subflow) error {
	provider := m.newProvider(sf.Conn(), m.metricsInterval)
	if err := provider.Start(); err != nil {
		return err
	}

	m.mu.Lock()
	m.subflows[sf.ID()] = &subflowState{sf: sf, provider: provider}
	m.readLoopWg.Add(1)
	m.mu.Unlock()

	go m.readLoopSubflow(sf)
	m.notifySubflows()
	m.logger.Infof(m.subflowContext(sf.ID()), "Subflow scheduled")
	return nil
}

func (m *Transport) detach(id uint32) {
	m.mu.Lock()
	st, ok := m.subflows[id]
	delete(m.subflows, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	st.provider.Stop()
	if m.updater != nil {
		m.updater.RemoveSubflow(id)
	}
	m.notifySubflows()
	m.logger.Infof(m.subflowContext(id), "Subflow unscheduled")
}

func (m *Transport) notifySubflows() {
	setter, ok := m.selector.(SubflowSetter)
	if !ok {
		return
	}
	setter.SetSubflows(m.SubflowIDs())
}

func (m *Transport) subflowContext(id uint32) context.Context {
	return log.WithTrackSubflowID(m.ctx, strconv.FormatUint(uint64(id), 10))
}

// SubflowIDs は、書き込み先の候補になっているサブフローのIDを昇順で返却します。
func (m *Transport) SubflowIDs() []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.subflows))
}

// TxBytes は、サブフローごとの累積送信バイト数を返却します。
func (m *Transport) TxBytes() map[uint32]uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res := make(map[uint32]uint64, len(m.subflows))
	for id, st := range m.subflows {
		res[id] = st.sf.Conn().TxBytesCounterValue()
	}
	return res
}

// Write は、選択したサブフローを同期してから bs を書き込みます。
func (m *Transport) Write(bs []byte) error {
	id := m.selector.Get(int64(len(bs)))

	m.mu.RLock()
	st, ok := m.subflows[id]
	m.mu.RUnlock()
	if !ok {
		return transport.ErrAlreadyClosed
	}

	ctx := m.subflowContext(id)
	if err := m.session.SyncSubflow(ctx, st.sf); err != nil {
		// 同期が不完全でもシーケンスは記録されるため、書き込みは続ける
		m.logger.Warnf(ctx, "Subflow sync before write failed: %v", err)
	}

	n := uint64(len(bs))
	st.provider.AddBytesInFlight(n)
	defer st.provider.SubBytesInFlight(n)
	if err := st.sf.Conn().Write(bs); err != nil {
		return err
	}

	m.session.Account(func(c *mptcp.Counters) {
		c.WriteSeq += n
		c.SndUna += n
		c.BytesSent += n
		c.BytesAcked += n
		c.LastDataSent = time.Now()
	})
	return nil
}

// Read は、いずれかのサブフローに到着したデータを返却します。
func (m *Transport) Read() ([]byte, error) {
	res, ok := ch.ReadOrDoneOne(m.ctx, m.readResCh)
	if !ok {
		return nil, transport.ErrAlreadyClosed
	}
	return res.bs, nil
}

func (m *Transport) readLoopSubflow(sf *mptcp.Subflow) {
	defer m.readLoopWg.Done()
	defer m.detach(sf.ID())

	ctx := m.subflowContext(sf.ID())
	for {
		bs, err := sf.Conn().Read()
		if err != nil {
			if errors.Is(err, transport.EOF) || errors.Is(err, transport.ErrAlreadyClosed) {
				m.logger.Infof(ctx, "Subflow closed (will exit read loop)")
			} else {
				m.logger.Warnf(ctx, "Error reading from subflow: %v (will exit read loop)", err)
			}
			return
		}

		n := uint64(len(bs))
		m.session.Account(func(c *mptcp.Counters) {
			c.RcvNxt += n
			c.BytesReceived += n
			c.LastDataRecv = time.Now()
		})
		if !ch.WriteOrDone(m.ctx, &readRes{id: sf.ID(), bs: bs}, m.readResCh) {
			return
		}
	}
}

func (m *Transport) metricsUpdateLoop() {
	defer m.loopWg.Done()
	ticker := time.NewTicker(m.metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.updateMetrics()
		}
	}
}

// updateMetrics は、各サブフローのメトリクスをセレクタへ渡します。
func (m *Transport) updateMetrics() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, st := range m.subflows {
		m.updater.UpdateSubflow(id, NewSubflowMetrics(id, st.provider))
	}
}

// RxBytesCounterValue は、全てのサブフローの受信バイト数の合計を返却します。
func (m *Transport) RxBytesCounterValue() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res uint64
	for _, st := range m.subflows {
		res += st.sf.Conn().RxBytesCounterValue()
	}
	return res
}

// TxBytesCounterValue は、全てのサブフローの送信バイト数の合計を返却します。
func (m *Transport) TxBytesCounterValue() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var res uint64
	for _, st := range m.subflows {
		res += st.sf.Conn().TxBytesCounterValue()
	}
	return res
}

// Close は、セッションを閉じ、全てのバックグラウンド処理の終了を待ちます。
func (m *Transport) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.cancel()
		err = m.session.Close(m.ctx)
		m.readLoopWg.Wait()
		m.loopWg.Wait()
	})
	return err
}
