package multi

import (
	"time"

	"github.com/aptpod/mptcp-go/transport/metrics"
)

// SubflowMetrics は、セレクタがサブフローを比較するためのメトリクスのスナップショットです。
type SubflowMetrics struct {
	id              uint32
	metricsProvider metrics.MetricsProvider
	sendingAllowed  bool

	// minRTT は観測された最小RTT（ベースRTT）です。
	minRTT time.Duration
}

// NewSubflowMetrics は新しいSubflowMetricsを作成します。
func NewSubflowMetrics(id uint32, metricsProvider metrics.MetricsProvider) *SubflowMetrics {
	return &SubflowMetrics{
		id:              id,
		metricsProvider: metricsProvider,
	}
}

// Update はメトリクスプロバイダーから最新の値を取得し、送信可否と最小RTTを更新します。
//
// 送信中のバイト数が輻輳ウィンドウより小さい場合に送信可能とします。
func (p *SubflowMetrics) Update() {
	if p.metricsProvider == nil {
		p.sendingAllowed = false
		return
	}

	p.sendingAllowed = p.metricsProvider.BytesInFlight() < p.metricsProvider.CongestionWindow()

	if rtt := p.metricsProvider.RTT(); rtt > 0 && (p.minRTT == 0 || rtt < p.minRTT) {
		p.minRTT = rtt
	}
}

// ID はサブフローIDを返します。
func (p *SubflowMetrics) ID() uint32 {
	return p.id
}

// SmoothedRTT は平滑化RTTを返します。プロバイダーがない場合はデフォルト値です。
func (p *SubflowMetrics) SmoothedRTT() time.Duration {
	if p.metricsProvider == nil {
		return 100 * time.Millisecond
	}
	return p.metricsProvider.RTT()
}

// MinRTT は観測された最小RTTを返します。
// まだ観測されていない場合は SmoothedRTT() と同じ値を返します。
func (p *SubflowMetrics) MinRTT() time.Duration {
	if p.minRTT == 0 {
		return p.SmoothedRTT()
	}
	return p.minRTT
}

// MeanDeviation はRTT変動を返します。
func (p *SubflowMetrics) MeanDeviation() time.Duration {
	if p.metricsProvider == nil {
		return 50 * time.Millisecond
	}
	return p.metricsProvider.RTTVar()
}

// CongestionWindow は輻輳ウィンドウ（バイト数）を返します。
func (p *SubflowMetrics) CongestionWindow() uint64 {
	if p.metricsProvider == nil {
		return 14600
	}
	return p.metricsProvider.CongestionWindow()
}

// BytesInFlight は送信中のバイト数を返します。
func (p *SubflowMetrics) BytesInFlight() uint64 {
	if p.metricsProvider == nil {
		return 0
	}
	return p.metricsProvider.BytesInFlight()
}

// SendingAllowed は直近の Update() 時点で送信可能だったかを返します。
func (p *SubflowMetrics) SendingAllowed() bool {
	return p.sendingAllowed
}
