package multi

import (
	"slices"
	"sync"
)

var _ SubflowSetter = (*RoundRobinSelector)(nil)

// RoundRobinSelector は、サブフローを順番に選択する SubflowSelector です。
type RoundRobinSelector struct {
	mu      sync.Mutex
	ids     []uint32
	current int
	last    uint32
}

// NewRoundRobinSelector は新しいRoundRobinSelectorを作成します。
func NewRoundRobinSelector(ids []uint32) *RoundRobinSelector {
	return &RoundRobinSelector{ids: slices.Clone(ids)}
}

// SetSubflows は、選択対象のサブフローを置き換えます。
// 直前に選択したサブフローが残っている場合は、その次から選択を続けます。
func (s *RoundRobinSelector) SetSubflows(ids []uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = slices.Clone(ids)
	s.current = 0
	if i := slices.Index(s.ids, s.last); s.last != 0 && i >= 0 {
		s.current = (i + 1) % len(s.ids)
	}
}

// Get は次のサブフローIDを返します。bsSize は使用しません。
func (s *RoundRobinSelector) Get(_ int64) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return 0
	}
	id := s.ids[s.current]
	s.current = (s.current + 1) % len(s.ids)
	s.last = id
	return id
}
