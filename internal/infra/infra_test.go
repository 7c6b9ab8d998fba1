package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC)}
}

// ════════════════════════════════════════════════════════════════════
// Cache
// ════════════════════════════════════════════════════════════════════

func TestCacheExpiry(t *testing.T) {
	clk := newClock()
	c := NewCache[string](time.Minute)
	c.now = clk.now

	c.Set("page", "<html>")
	v, ok := c.Get("page")
	require.True(t, ok)
	assert.Equal(t, "<html>", v)

	clk.advance(time.Minute)
	_, ok = c.Get("page")
	assert.False(t, ok, "entry must expire at its deadline")

	assert.Equal(t, 1, c.Len())
	c.Cleanup()
	assert.Equal(t, 0, c.Len())
}

func TestCacheDisabled(t *testing.T) {
	c := NewCache[int](0)
	c.Set("k", 1)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCacheGetOrLoad(t *testing.T) {
	c := NewCache[string](time.Hour)
	calls := 0
	load := func() (string, error) {
		calls++
		return "rendered", nil
	}

	v, hit, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "rendered", v)

	v, hit, err = c.GetOrLoad("k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "rendered", v)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, _, err = c.GetOrLoad("other", func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get("other")
	assert.False(t, ok, "failed loads are not cached")
}

func TestCacheInvalidateAndFlush(t *testing.T) {
	c := NewCache[int](time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	c.Flush()
	assert.Equal(t, 0, c.Len())
}

// ════════════════════════════════════════════════════════════════════
// Rate limiter
// ════════════════════════════════════════════════════════════════════

func TestRateLimiterAllowAndRefill(t *testing.T) {
	clk := newClock()
	rl := NewRateLimiter(2, time.Second)
	rl.now = clk.now
	rl.lastRefill = clk.now()

	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	clk.advance(1500 * time.Millisecond)
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow())

	clk.advance(10 * time.Second)
	assert.True(t, rl.Allow())
	assert.True(t, rl.Allow())
	assert.False(t, rl.Allow(), "tokens are capped at the bucket size")
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
}
