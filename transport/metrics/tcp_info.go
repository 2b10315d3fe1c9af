package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/aptpod/mptcp-go/abi"
)

const (
	// Default values when metrics are not yet available
	defaultRTT    = 100 * time.Millisecond
	defaultRTTVar = 50 * time.Millisecond
	defaultCWND   = 14600 // 10 * MSS (1460 bytes)
)

// OptionGetter は、TCP_INFO を読み出すためのソケットオプション取得プリミティブです。
// transport.OptionConn はこのインターフェースを満たします。
type OptionGetter interface {
	GetOption(level, name int, buf []byte) (int, error)
}

var _ ManagedMetricsProvider = (*TCPInfoProvider)(nil)

// TCPInfoProvider retrieves subflow metrics from TCP_INFO through the option primitive.
// It periodically updates metrics in the background and provides thread-safe access.
type TCPInfoProvider struct {
	conn OptionGetter

	// Background update control
	stateMu  sync.Mutex
	started  bool
	stopped  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	interval time.Duration

	// Metrics from kernel (protected by metricsMu)
	metricsMu   sync.RWMutex
	smoothedRTT time.Duration
	rttvar      time.Duration
	cwnd        uint64
	info        abi.TCPInfo

	// Managed at application layer
	bytesInFlight uint64
}

// NewTCPInfoProvider creates a new TCPInfoProvider.
//
// conn: The subflow to monitor
// interval: Update interval for background metrics collection (e.g., 100ms)
//
// The provider must be started with Start() to begin collecting metrics.
func NewTCPInfoProvider(conn OptionGetter, interval time.Duration) *TCPInfoProvider {
	return &TCPInfoProvider{
		conn:     conn,
		stopCh:   make(chan struct{}),
		interval: interval,
	}
}

// Start begins the background metrics collection loop.
// Returns an error if already started or already stopped.
func (p *TCPInfoProvider) Start() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if p.started && !p.stopped {
		return fmt.Errorf("TCPInfoProvider already started")
	}
	if p.stopped {
		return fmt.Errorf("TCPInfoProvider already stopped, cannot restart")
	}

	p.started = true
	_ = p.update()
	p.wg.Add(1)
	go p.updateLoop()
	return nil
}

func (p *TCPInfoProvider) updateLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = p.update()
		case <-p.stopCh:
			return
		}
	}
}

// update reads TCP_INFO and refreshes the cached metrics.
// A short read keeps the fields that were not returned at zero.
func (p *TCPInfoProvider) update() error {
	buf := make([]byte, abi.SizeOfTCPInfo)
	n, err := p.conn.GetOption(abi.SOL_TCP, abi.TCP_INFO, buf)
	if err != nil {
		return err
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	var ti abi.TCPInfo
	ti.UnmarshalBytes(buf)

	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.info = ti
	p.smoothedRTT = time.Duration(ti.RTT) * time.Microsecond
	p.rttvar = time.Duration(ti.RTTVar) * time.Microsecond
	p.cwnd = uint64(ti.SndCwnd) * uint64(ti.SndMSS)
	return nil
}

// TCPInfo returns the last TCP_INFO snapshot. It is the zero value until the first successful update.
func (p *TCPInfoProvider) TCPInfo() abi.TCPInfo {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.info
}

// RTT returns the Smoothed RTT (SRTT).
// Returns defaultRTT (100ms) if not yet measured.
func (p *TCPInfoProvider) RTT() time.Duration {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	if p.smoothedRTT == 0 {
		return defaultRTT
	}
	return p.smoothedRTT
}

// RTTVar returns the RTT Variation (RTTVAR, Mean Deviation).
// Returns defaultRTTVar (50ms) if not yet measured.
func (p *TCPInfoProvider) RTTVar() time.Duration {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	if p.rttvar == 0 {
		return defaultRTTVar
	}
	return p.rttvar
}

// CongestionWindow returns the congestion window size in bytes (SndCwnd * SndMSS).
// Returns defaultCWND (14600 bytes) if not yet measured.
func (p *TCPInfoProvider) CongestionWindow() uint64 {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	if p.cwnd == 0 {
		return defaultCWND
	}
	return p.cwnd
}

// BytesInFlight returns the number of bytes currently in flight.
// This is managed at the application layer.
func (p *TCPInfoProvider) BytesInFlight() uint64 {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.bytesInFlight
}

// AddBytesInFlight adds n bytes to bytesInFlight.
// Should be called before Write() operations.
func (p *TCPInfoProvider) AddBytesInFlight(n uint64) {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.bytesInFlight += n
}

// SubBytesInFlight subtracts n bytes from bytesInFlight.
// Should be called after Write() operations complete.
func (p *TCPInfoProvider) SubBytesInFlight(n uint64) {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	if n > p.bytesInFlight {
		p.bytesInFlight = 0
	} else {
		p.bytesInFlight -= n
	}
}

// Stop terminates the background update loop and waits for it to finish.
// Multiple calls to Stop are safe (idempotent).
func (p *TCPInfoProvider) Stop() {
	p.stateMu.Lock()
	if p.stopped {
		p.stateMu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	p.stateMu.Unlock()

	close(p.stopCh)
	if started {
		p.wg.Wait()
	}
}
