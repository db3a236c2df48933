package cache_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/uaparser/pkg/cache"
)

func TestLRU_GetAdd(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](3)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Add("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 3, c.Len())

	st := c.Stats()
	assert.Equal(t, uint64(2), st.Hits)
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, 3, st.Len)
}

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2)

	var evicted []string
	c.OnEvict(func(key string, _ int) { evicted = append(evicted, key) })

	c.Add("a", 1)
	c.Add("b", 2)
	c.Get("a")
	c.Add("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestLRU_RemovePurge(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, string](4)
	for i := range 4 {
		c.Add(i, fmt.Sprint(i))
	}

	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))
	assert.Equal(t, 3, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(0)
	assert.False(t, ok)

	c.Add(7, "7")
	assert.Equal(t, 1, c.Len())
}

func TestLRU_InvalidCapacity(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { cache.NewLRU[string, int](0) })
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				k := (g*31 + i) % 128
				if _, ok := c.Get(k); !ok {
					c.Add(k, k)
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 64)
	st := c.Stats()
	assert.Equal(t, uint64(8*500), st.Hits+st.Misses)
}
