package loadercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/mpapenbr/racelog-analytics/pkg/utils/cache"
)

type counter struct {
	calls map[string]int
}

func (c *counter) load(ctx context.Context, key string) (*int, error) {
	c.calls[key]++
	if key == "bad" {
		return nil, errors.New("bad key")
	}
	v := c.calls[key]
	return &v, nil
}

func TestGet(t *testing.T) {
	cnt := &counter{calls: map[string]int{}}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(
		WithLoader[string, int](cnt.load),
		WithExpiration[string, int](time.Minute),
		withClock[string, int](func() time.Time { return now }),
	)
	ctx := context.Background()

	v, err := c.Get(ctx, "a")
	assert.NilError(t, err)
	assert.Equal(t, 1, *v)
	v, _ = c.Get(ctx, "a")
	assert.Equal(t, 1, *v)

	now = now.Add(2 * time.Minute)
	v, _ = c.Get(ctx, "a")
	assert.Equal(t, 2, *v)

	c.Invalidate(ctx, "a")
	v, _ = c.Get(ctx, "a")
	assert.Equal(t, 3, *v)

	_, _ = c.Get(ctx, "b")
	c.InvalidateAll(ctx)
	v, _ = c.Get(ctx, "b")
	assert.Equal(t, 2, *v)
}

func TestGetError(t *testing.T) {
	cnt := &counter{calls: map[string]int{}}
	c := New(WithLoader[string, int](cnt.load))
	ctx := context.Background()
	_, err := c.Get(ctx, "bad")
	assert.ErrorContains(t, err, "bad key")
	_, err = c.Get(ctx, "bad")
	assert.ErrorContains(t, err, "bad key")
	assert.Equal(t, 2, cnt.calls["bad"])
}

func TestNoLoader(t *testing.T) {
	c := New[string, int]()
	_, err := c.Get(context.Background(), "x")
	assert.Assert(t, errors.Is(err, cache.ErrCacheMiss))
}
