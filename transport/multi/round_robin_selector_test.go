package multi_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/aptpod/mptcp-go/transport/multi"
)

func TestRoundRobinSelector(t *testing.T) {
	t.Run("正常なラウンドロビン", func(t *testing.T) {
		selector := NewRoundRobinSelector([]uint32{1, 2, 3})
		for round := 0; round < 2; round++ {
			assert.Equal(t, uint32(1), selector.Get(0))
			assert.Equal(t, uint32(2), selector.Get(0))
			assert.Equal(t, uint32(3), selector.Get(0))
		}
	})

	t.Run("空のサブフロー", func(t *testing.T) {
		selector := NewRoundRobinSelector(nil)
		assert.Zero(t, selector.Get(0))
	})

	t.Run("単一のサブフロー", func(t *testing.T) {
		selector := NewRoundRobinSelector([]uint32{7})
		assert.Equal(t, uint32(7), selector.Get(0))
		assert.Equal(t, uint32(7), selector.Get(0))
	})

	t.Run("サブフローの追加後も順番を維持する", func(t *testing.T) {
		selector := NewRoundRobinSelector([]uint32{1, 2})
		assert.Equal(t, uint32(1), selector.Get(0))
		selector.SetSubflows([]uint32{1, 2, 3})
		assert.Equal(t, uint32(2), selector.Get(0))
		assert.Equal(t, uint32(3), selector.Get(0))
		assert.Equal(t, uint32(1), selector.Get(0))
	})

	t.Run("直前のサブフローが取り除かれた場合は先頭から", func(t *testing.T) {
		selector := NewRoundRobinSelector([]uint32{1, 2, 3})
		assert.Equal(t, uint32(1), selector.Get(0))
		selector.SetSubflows([]uint32{2, 3})
		assert.Equal(t, uint32(2), selector.Get(0))
	})

	t.Run("並行アクセス", func(t *testing.T) {
		selector := NewRoundRobinSelector([]uint32{1, 2, 3})
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					assert.NotZero(t, selector.Get(0))
				}
			}()
		}
		wg.Wait()
	})
}
