package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hihello1226/our-ledger/internal/core/domain"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time           { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache[T any](size int, ttl time.Duration) (*LRUCache[T], *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[T](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache[string](10, time.Minute)
	c.Set("a", "1")

	clock.advance(59 * time.Second)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	clock.advance(2 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_CleanExpired(t *testing.T) {
	c, clock := newTestCache[int](10, time.Minute)
	c.Set("old", 1)
	clock.advance(30 * time.Second)
	c.Set("new", 2)
	clock.advance(45 * time.Second)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
}

func TestManager_CleanNow(t *testing.T) {
	c, clock := newTestCache[domain.UploadedTable](10, time.Minute)
	uploads := &UploadCache{lru: c}
	m := NewManager(nil)
	m.Register(uploads)

	require.NoError(t, uploads.Put(context.Background(), domain.UploadedTable{Key: "k", HouseholdID: "h"}))
	assert.Equal(t, 0, m.CleanNow())

	clock.advance(2 * time.Minute)
	assert.Equal(t, 1, m.CleanNow())
	m.Stop()
	m.Stop()
}

func TestUploadCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	uc := NewUploadCache(4, time.Minute)
	table := domain.UploadedTable{Key: "k1", HouseholdID: "h1", Table: domain.ParsedTable{Headers: []string{"date"}}}

	require.NoError(t, uc.Put(ctx, table))
	got, ok, err := uc.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, table, got)

	require.NoError(t, uc.Delete(ctx, "k1"))
	_, ok, _ = uc.Get(ctx, "k1")
	assert.False(t, ok)
}
