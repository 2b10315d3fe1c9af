package multi_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/aptpod/mptcp-go/transport/multi"
)

func updateSubflow(s *MinRTTSelector, id uint32, p *mockMetricsProvider) {
	s.UpdateSubflow(id, NewSubflowMetrics(id, p))
}

func TestMinRTTSelector_Get(t *testing.T) {
	tests := []struct {
		name      string
		providers map[uint32]*mockMetricsProvider
		want      uint32
	}{
		{
			name: "success: no subflows",
			want: 0,
		},
		{
			name: "success: single subflow",
			providers: map[uint32]*mockMetricsProvider{
				5: {rtt: 50 * time.Millisecond, congestionWindow: 20000},
			},
			want: 5,
		},
		{
			name: "success: lowest rtt among sendable",
			providers: map[uint32]*mockMetricsProvider{
				1: {rtt: 80 * time.Millisecond, congestionWindow: 20000},
				2: {rtt: 20 * time.Millisecond, congestionWindow: 20000},
				3: {rtt: 50 * time.Millisecond, congestionWindow: 20000},
			},
			want: 2,
		},
		{
			name: "success: skips subflow with full window",
			providers: map[uint32]*mockMetricsProvider{
				1: {rtt: 80 * time.Millisecond, congestionWindow: 20000},
				2: {rtt: 20 * time.Millisecond, congestionWindow: 20000, bytesInFlight: 20000},
			},
			want: 1,
		},
		{
			name: "success: falls back to lowest rtt when none can send",
			providers: map[uint32]*mockMetricsProvider{
				1: {rtt: 80 * time.Millisecond, congestionWindow: 100, bytesInFlight: 100},
				2: {rtt: 20 * time.Millisecond, congestionWindow: 100, bytesInFlight: 200},
			},
			want: 2,
		},
		{
			name: "success: tie broken by lower id",
			providers: map[uint32]*mockMetricsProvider{
				4: {rtt: 30 * time.Millisecond, congestionWindow: 20000},
				2: {rtt: 30 * time.Millisecond, congestionWindow: 20000},
			},
			want: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMinRTTSelector()
			for id, p := range tt.providers {
				updateSubflow(s, id, p)
			}
			assert.Equal(t, tt.want, s.Get(1000))
		})
	}
}

func TestMinRTTSelector_PreservesMinRTT(t *testing.T) {
	s := NewMinRTTSelector()
	updateSubflow(s, 1, &mockMetricsProvider{rtt: 10 * time.Millisecond, congestionWindow: 20000})
	updateSubflow(s, 2, &mockMetricsProvider{rtt: 30 * time.Millisecond, congestionWindow: 20000})
	require.Equal(t, uint32(1), s.Get(0))

	// 一時的にRTTが増えても観測済みの最小RTTで比較する
	updateSubflow(s, 1, &mockMetricsProvider{rtt: 60 * time.Millisecond, congestionWindow: 20000})
	assert.Equal(t, uint32(1), s.Get(0))
}

func TestMinRTTSelector_SetSubflows(t *testing.T) {
	s := NewMinRTTSelector()
	updateSubflow(s, 1, &mockMetricsProvider{rtt: 10 * time.Millisecond, congestionWindow: 20000})
	updateSubflow(s, 2, &mockMetricsProvider{rtt: 30 * time.Millisecond, congestionWindow: 20000})

	// メトリクスが残っていてもセッションに属していないサブフローは選択しない
	s.SetSubflows([]uint32{2})
	assert.Equal(t, uint32(2), s.Get(0))

	s.RemoveSubflow(1)
	s.SetSubflows([]uint32{1, 2})
	assert.Equal(t, uint32(2), s.Get(0))
}

func TestMinRTTSelector_Stats(t *testing.T) {
	s := NewMinRTTSelector()
	p1 := &mockMetricsProvider{rtt: 10 * time.Millisecond, congestionWindow: 20000}
	updateSubflow(s, 1, p1)
	updateSubflow(s, 2, &mockMetricsProvider{rtt: 30 * time.Millisecond, congestionWindow: 20000})

	s.Get(0)
	s.Get(0)
	p1.bytesInFlight = 20000
	updateSubflow(s, 1, p1)
	s.Get(0)

	stats := s.Stats()
	assert.Equal(t, uint64(3), stats.TotalSelections)
	assert.Equal(t, uint64(1), stats.SwitchCount)
	assert.Equal(t, map[uint32]uint64{1: 2, 2: 1}, stats.SelectionCounts)

	s.ResetStats()
	stats = s.Stats()
	assert.Zero(t, stats.TotalSelections)
	assert.Zero(t, stats.SwitchCount)
	assert.Empty(t, stats.SelectionCounts)
}

func TestMinRTTSelector_Concurrent(t *testing.T) {
	s := NewMinRTTSelector()
	var wg sync.WaitGroup
	for i := uint32(1); i <= 4; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				updateSubflow(s, id, &mockMetricsProvider{rtt: time.Duration(id) * time.Millisecond, congestionWindow: 20000})
				s.Get(0)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, uint32(1), s.Get(0))
}
