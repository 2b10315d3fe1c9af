package multi

import (
	"maps"
	"sync"
	"sync/atomic"
)

// TxBytesSource は、サブフローごとの累積送信バイト数を提供するインターフェースです。
// Transport はこのインターフェースを満たします。
type TxBytesSource interface {
	TxBytes() map[uint32]uint64
}

// ByteBalancedSelector は、累積送信バイト数が最も少ないサブフローを選択する SubflowSelector です。
// サブフロー間の送信量を均等化します。送信バイト数が同じ場合はIDが小さいサブフローを優先します。
type ByteBalancedSelector struct {
	mu     sync.RWMutex
	source TxBytesSource

	stateMu         sync.Mutex
	lastSelected    uint32
	totalSelections atomic.Uint64
	switchCount     atomic.Uint64

	selectionCountsMu sync.Mutex
	selectionCounts   map[uint32]uint64
}

// ByteBalancedStats は ByteBalancedSelector の統計情報です。
type ByteBalancedStats struct {
	SelectionCounts map[uint32]uint64
	TotalSelections uint64
	SwitchCount     uint64
}

// NewByteBalancedSelector は新しい ByteBalancedSelector を作成します。
func NewByteBalancedSelector() *ByteBalancedSelector {
	return &ByteBalancedSelector{
		selectionCounts: make(map[uint32]uint64),
	}
}

// SetTxBytesSource は送信バイト数の取得元を設定します。
// Transport は生成時に自身を設定します。
func (s *ByteBalancedSelector) SetTxBytesSource(src TxBytesSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = src
}

// Get は送信バイト数が最小のサブフローIDを返します。bsSize は使用しません。
func (s *ByteBalancedSelector) Get(_ int64) uint32 {
	s.mu.RLock()
	src := s.source
	s.mu.RUnlock()
	if src == nil {
		return 0
	}

	var (
		selected uint32
		minTx    = ^uint64(0)
	)
	for id, tx := range src.TxBytes() {
		if tx < minTx || (tx == minTx && id < selected) {
			selected, minTx = id, tx
		}
	}
	if selected != 0 {
		s.recordSelection(selected)
	}
	return selected
}

func (s *ByteBalancedSelector) recordSelection(id uint32) {
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
func (s *ByteBalancedSelector) Stats() ByteBalancedStats {
	s.selectionCountsMu.Lock()
	counts := maps.Clone(s.selectionCounts)
	s.selectionCountsMu.Unlock()

	return ByteBalancedStats{
		SelectionCounts: counts,
		TotalSelections: s.totalSelections.Load(),
		SwitchCount:     s.switchCount.Load(),
	}
}
