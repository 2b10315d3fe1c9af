package multi

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
)

var (
	_ MetricsUpdater = (*MinRTTSelector)(nil)
	_ SubflowSetter  = (*MinRTTSelector)(nil)
)

// MinRTTSelector は、送信可能なサブフローのうち最小RTTが最も小さいものを選択する SubflowSelector です。
// 待機判定は行いません。送信可能なサブフローがない場合は、全てのサブフローから最小RTTのものを選択します。
type MinRTTSelector struct {
	subflowsMu sync.RWMutex
	subflows   map[uint32]*SubflowMetrics
	ids        []uint32

	stateMu      sync.Mutex
	lastSelected uint32

	totalSelections atomic.Uint64
	switchCount     atomic.Uint64

	selectionCountsMu sync.Mutex
	selectionCounts   map[uint32]uint64
}

// MinRTTStats は MinRTTSelector の統計情報です。
type MinRTTStats struct {
	SelectionCounts map[uint32]uint64
	TotalSelections uint64
	SwitchCount     uint64
}

// NewMinRTTSelector は新しい MinRTTSelector を作成します。
func NewMinRTTSelector() *MinRTTSelector {
	return &MinRTTSelector{
		subflows:        make(map[uint32]*SubflowMetrics),
		selectionCounts: make(map[uint32]uint64),
	}
}

// SetSubflows は、現在セッションに属しているサブフローを設定します。
func (s *MinRTTSelector) SetSubflows(ids []uint32) {
	s.subflowsMu.Lock()
	defer s.subflowsMu.Unlock()
	s.ids = slices.Clone(ids)
}

// UpdateSubflow はサブフローのメトリクスを更新します。既に観測済みの最小RTTは引き継ぎます。
func (s *MinRTTSelector) UpdateSubflow(id uint32, m *SubflowMetrics) {
	s.subflowsMu.Lock()
	defer s.subflowsMu.Unlock()

	if existing, ok := s.subflows[id]; ok && existing.minRTT > 0 {
		m.minRTT = existing.minRTT
	}
	m.Update()
	s.subflows[id] = m
}

// RemoveSubflow はサブフローのメトリクスを破棄します。
func (s *MinRTTSelector) RemoveSubflow(id uint32) {
	s.subflowsMu.Lock()
	defer s.subflowsMu.Unlock()
	delete(s.subflows, id)
}

// Get は最小RTTのサブフローIDを返します。
func (s *MinRTTSelector) Get(_ int64) uint32 {
	selected := s.selectMinRTT()

	s.subflowsMu.RLock()
	ids := s.ids
	s.subflowsMu.RUnlock()
	if ids == nil {
		return selected
	}
	return selectAvailable(selected, ids)
}

func (s *MinRTTSelector) selectMinRTT() uint32 {
	s.subflowsMu.RLock()
	defer s.subflowsMu.RUnlock()

	if len(s.subflows) == 0 {
		return 0
	}

	var selected, fallback uint32
	minRTT, minSRTT := ^uint64(0), ^uint64(0)
	fallbackRTT, fallbackSRTT := ^uint64(0), ^uint64(0)

	// マップの走査順に依存しないようにID順で比較する
	for _, id := range slices.Sorted(maps.Keys(s.subflows)) {
		m := s.subflows[id]
		rtt := uint64(m.MinRTT().Microseconds())
		srtt := uint64(m.SmoothedRTT().Microseconds())

		if rtt < fallbackRTT || (rtt == fallbackRTT && srtt < fallbackSRTT) {
			fallback, fallbackRTT, fallbackSRTT = id, rtt, srtt
		}
		if !m.SendingAllowed() {
			continue
		}
		if rtt < minRTT || (rtt == minRTT && srtt < minSRTT) {
			selected, minRTT, minSRTT = id, rtt, srtt
		}
	}
	if selected == 0 {
		selected = fallback
	}
	s.recordSelection(selected)
	return selected
}

func (s *MinRTTSelector) recordSelection(id uint32) {
	s.totalSelections.Add(1)

	s.stateMu.Lock()
	if s.lastSelected != 0 && s.lastSelected != id {
		s.switchCount.Add(1)
	}
	s.lastSelected = id
	s.stateMu.Unlock()

	s.selectionCountsMu.Lock()
	s.selectionCounts[id]++
	s.selectionCountsMu.Unlock()
}

// Stats は現在の統計情報のスナップショットを返します。
func (s *MinRTTSelector) Stats() MinRTTStats {
	s.selectionCountsMu.Lock()
	counts := maps.Clone(s.selectionCounts)
	s.selectionCountsMu.Unlock()

	return MinRTTStats{
		SelectionCounts: counts,
		TotalSelections: s.totalSelections.Load(),
		SwitchCount:     s.switchCount.Load(),
	}
}

// ResetStats は統計情報をリセットします。
func (s *MinRTTSelector) ResetStats() {
	s.totalSelections.Store(0)
	s.switchCount.Store(0)

	s.selectionCountsMu.Lock()
	s.selectionCounts = make(map[uint32]uint64)
	s.selectionCountsMu.Unlock()

	s.stateMu.Lock()
	s.lastSelected = 0
	s.stateMu.Unlock()
}
