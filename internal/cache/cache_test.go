package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, ok, _ = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_ZeroTTLNotStored(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Set(context.Background(), "k", []byte("v"), 0))
	assert.Equal(t, 0, m.Len())
}

func TestKeyer_Key(t *testing.T) {
	k := Keyer{Prefix: "encyc"}
	assert.Equal(t, "encyc:wiki:page:Ansel_Adams", k.Key("wiki", "page", "Ansel Adams"))
	assert.Equal(t, "wiki:all", Keyer{}.Key("wiki", "all"))

	long := k.Key("sources", strings.Repeat("x", 300))
	assert.LessOrEqual(t, len(long), maxKeyLength)
	assert.True(t, strings.HasPrefix(long, "encyc:sources:"))
	assert.Equal(t, long, k.Key("sources", strings.Repeat("x", 300)))
	assert.NotEqual(t, long, Keyer{Prefix: "staging"}.Key("sources", strings.Repeat("x", 300)))

	unprefixed := Keyer{}.Key("sources", strings.Repeat("x", 300))
	assert.True(t, strings.HasPrefix(unprefixed, "sources:"))
}

func TestMemory_Purge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", []byte("v"), time.Minute))
	require.NoError(t, m.Set(ctx, "long", []byte("v"), time.Hour))

	now = now.Add(2 * time.Minute)
	n, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, m.Len())
}

type countingPurger struct {
	Noop
	calls chan struct{}
}

func (c *countingPurger) Purge(context.Context) (int64, error) {
	c.calls <- struct{}{}
	return 1, nil
}

func TestRunPurger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &countingPurger{calls: make(chan struct{}, 8)}

	done := make(chan struct{})
	go func() {
		RunPurger(ctx, p, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-p.calls:
	case <-time.After(time.Second):
		t.Fatal("purge was not called")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger did not stop")
	}
}

func TestRunPurger_NonPurgerReturns(t *testing.T) {
	done := make(chan struct{})
	go func() {
		RunPurger(context.Background(), Noop{}, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purger should return for caches without Purge")
	}
}

func TestFetch_ReadThrough(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := Fetch(ctx, m, "k", time.Minute, load)
	require.NoError(t, err)
	second, err := Fetch(ctx, m, "k", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestFetch_ErrorNotCached(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, err := Fetch(ctx, m, "k", time.Minute, func(context.Context) (int, error) {
		return 0, errors.New("down")
	})
	require.Error(t, err)
	assert.Equal(t, 0, m.Len())
}

func TestFetch_NilCache(t *testing.T) {
	v, err := Fetch(context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
