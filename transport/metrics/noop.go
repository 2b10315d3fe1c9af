package metrics

import "time"

var _ ManagedMetricsProvider = noopMetricsProvider{}

// noopMetricsProvider は、TCP_INFO を読み出せないサブフロー向けに固定値を返すプロバイダーです。
type noopMetricsProvider struct{}

// NewNopMetricsProvider は、常にデフォルト値を返すプロバイダーを返却します。
func NewNopMetricsProvider() ManagedMetricsProvider {
	return noopMetricsProvider{}
}

func (noopMetricsProvider) RTT() time.Duration       { return defaultRTT }
func (noopMetricsProvider) RTTVar() time.Duration    { return defaultRTTVar }
func (noopMetricsProvider) CongestionWindow() uint64 { return defaultCWND }
func (noopMetricsProvider) BytesInFlight() uint64    { return 0 }
func (noopMetricsProvider) AddBytesInFlight(uint64)  {}
func (noopMetricsProvider) SubBytesInFlight(uint64)  {}
func (noopMetricsProvider) Start() error             { return nil }
func (noopMetricsProvider) Stop()                    {}
