package multi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/aptpod/mptcp-go/transport/multi"
)

type mockMetricsProvider struct {
	rtt              time.Duration
	rttvar           time.Duration
	congestionWindow uint64
	bytesInFlight    uint64
}

func (m *mockMetricsProvider) RTT() time.Duration       { return m.rtt }
func (m *mockMetricsProvider) RTTVar() time.Duration    { return m.rttvar }
func (m *mockMetricsProvider) CongestionWindow() uint64 { return m.congestionWindow }
func (m *mockMetricsProvider) BytesInFlight() uint64    { return m.bytesInFlight }

func TestSubflowMetrics_Update_SendingAllowed(t *testing.T) {
	tests := []struct {
		name             string
		bytesInFlight    uint64
		congestionWindow uint64
		want             bool
	}{
		{name: "success: less than cwnd", bytesInFlight: 5000, congestionWindow: 10000, want: true},
		{name: "success: boundary", bytesInFlight: 9999, congestionWindow: 10000, want: true},
		{name: "success: equals cwnd", bytesInFlight: 10000, congestionWindow: 10000, want: false},
		{name: "success: exceeds cwnd", bytesInFlight: 15000, congestionWindow: 10000, want: false},
		{name: "success: both zero", bytesInFlight: 0, congestionWindow: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSubflowMetrics(1, &mockMetricsProvider{
				bytesInFlight:    tt.bytesInFlight,
				congestionWindow: tt.congestionWindow,
			})
			m.Update()
			assert.Equal(t, tt.want, m.SendingAllowed())
		})
	}
}

func TestSubflowMetrics_NilProvider(t *testing.T) {
	m := NewSubflowMetrics(3, nil)
	m.Update()

	assert.Equal(t, uint32(3), m.ID())
	assert.False(t, m.SendingAllowed())
	assert.Equal(t, 100*time.Millisecond, m.SmoothedRTT())
	assert.Equal(t, 100*time.Millisecond, m.MinRTT())
	assert.Equal(t, 50*time.Millisecond, m.MeanDeviation())
	assert.Equal(t, uint64(14600), m.CongestionWindow())
	assert.Zero(t, m.BytesInFlight())
}

func TestSubflowMetrics_MinRTT(t *testing.T) {
	p := &mockMetricsProvider{rtt: 80 * time.Millisecond, congestionWindow: 1}
	m := NewSubflowMetrics(1, p)

	// 未観測の場合は平滑化RTT
	assert.Equal(t, 80*time.Millisecond, m.MinRTT())

	m.Update()
	p.rtt = 40 * time.Millisecond
	m.Update()
	p.rtt = 120 * time.Millisecond
	m.Update()

	assert.Equal(t, 40*time.Millisecond, m.MinRTT())
	assert.Equal(t, 120*time.Millisecond, m.SmoothedRTT())
}
