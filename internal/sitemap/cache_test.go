package sitemap

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_StoresOnlySuccess(t *testing.T) {
	var c Cache
	boom := errors.New("boom")

	_, err := c.Get(func() (*Stack, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.False(t, c.Cached())

	want := &Stack{}
	got, err := c.Get(func() (*Stack, error) { return want, nil })
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.True(t, c.Cached())

	again, err := c.Get(func() (*Stack, error) {
		t.Fatal("compute must not run once a result is cached")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Same(t, want, again)

	c.Reset()
	assert.False(t, c.Cached())
}

func TestCache_SingleComputation(t *testing.T) {
	var (
		c     Cache
		calls atomic.Int32
		wg    sync.WaitGroup
	)
	results := make([]*Stack, 16)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := c.Get(func() (*Stack, error) {
				calls.Add(1)
				return &Stack{}, nil
			})
			assert.NoError(t, err)
			results[i] = s
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, s := range results {
		assert.Same(t, results[0], s)
	}
}

func TestGenerator_IdempotentForCacheLifetime(t *testing.T) {
	gen := NewGenerator(NewBuilder(nil, nil), &Cache{})

	first, err := gen.Compute(context.Background(), []RawPage{{ID: "a"}})
	require.NoError(t, err)

	second, err := gen.Compute(context.Background(), []RawPage{{ID: "x"}, {ID: "y"}})
	require.NoError(t, err)

	assert.Same(t, first, second)
	require.Len(t, second.Flat, 1)
	assert.Equal(t, "a", second.Flat[0].ID)
}

func TestGenerator_SharedCache(t *testing.T) {
	cache := &Cache{}
	a := NewGenerator(NewBuilder(nil, nil), cache)
	b := NewGenerator(NewBuilder(nil, nil), cache)

	s1, err := a.Compute(context.Background(), []RawPage{{ID: "a"}})
	require.NoError(t, err)
	s2, err := b.Compute(context.Background(), nil)
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}

func TestGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cache := &Cache{}
	_, err := NewGenerator(NewBuilder(nil, nil), cache).Compute(ctx, []RawPage{{ID: "a"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, cache.Cached())
}
