package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	c.Prefix = "estate:"
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestSetGetRemove(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "properties", "1", []byte("a"), time.Minute)
	b, ok := c.Get(ctx, "properties", "1")
	require.True(t, ok)
	assert.Equal(t, "a", string(b))
	assert.True(t, c.Exists(ctx, "properties", "1"))
	assert.True(t, mr.Exists("estate:properties:1"))

	c.Remove(ctx, "properties", "1")
	_, ok = c.Get(ctx, "properties", "1")
	assert.False(t, ok)
	members, _ := mr.Members("estate:idx:properties")
	assert.Empty(t, members)
}

func TestRemoveNamespaceUsesIndex(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "property-types", "all", []byte("x"), 0)
	c.Set(ctx, "property-types", "deleted", []byte("y"), 0)
	c.Set(ctx, "properties", "7", []byte("z"), 0)

	c.RemoveNamespace(ctx, "property-types")
	assert.False(t, mr.Exists("estate:property-types:all"))
	assert.False(t, mr.Exists("estate:property-types:deleted"))
	assert.False(t, mr.Exists("estate:idx:property-types"))
	assert.True(t, mr.Exists("estate:properties:7"))

	// 默认 TTL
	assert.Equal(t, DefaultTTL, mr.TTL("estate:properties:7"))
}

type item struct {
	Name string `json:"name"`
}

func TestGetOrLoadJSON(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	var calls int32
	load := func(context.Context) (*item, error) {
		atomic.AddInt32(&calls, 1)
		return &item{Name: "Villa"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrLoadJSON(c, ctx, "property-types", "10", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "Villa", v.Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	none, err := GetOrLoadJSON(c, ctx, "property-types", "11", time.Minute, func(context.Context) (*item, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.False(t, c.Exists(ctx, "property-types", "11"))

	boom := errors.New("db down")
	_, err = GetOrLoadJSON(c, ctx, "property-types", "12", time.Minute, func(context.Context) (*item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCorruptEntryFallsBackToLoad(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("estate:properties:5", "{not json"))

	v, err := GetOrLoadJSON(c, ctx, "properties", "5", time.Minute, func(context.Context) (*item, error) { return &item{Name: "fresh"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "fresh", v.Name)
}

func TestFailuresDegradeToMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, ok := c.Get(ctx, "properties", "1")
	assert.False(t, ok)
	c.Set(ctx, "properties", "1", []byte("x"), time.Minute)
	c.RemoveNamespace(ctx, "properties")

	b, err := c.GetOrLoad(ctx, "properties", "1", time.Minute, func(context.Context) ([]byte, error) { return []byte("db"), nil })
	require.NoError(t, err)
	assert.Equal(t, "db", string(b))
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *Cache
	ctx := context.Background()
	c.Set(ctx, "ns", "k", []byte("v"), 0)
	_, ok := c.Get(ctx, "ns", "k")
	assert.False(t, ok)
	c.RemoveNamespace(ctx, "ns")
	v, err := GetOrLoadJSON(c, ctx, "ns", "k", 0, func(context.Context) (*item, error) { return &item{Name: "n"}, nil })
	require.NoError(t, err)
	assert.Equal(t, "n", v.Name)
	assert.NoError(t, c.Close())
}

func TestEvictDuringLoadSkipsWriteBack(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// 回源过程中另一个请求失效了同一个 key
	b, err := c.GetOrLoad(ctx, "properties", "3:false", time.Minute, func(ctx context.Context) ([]byte, error) {
		c.Remove(ctx, "properties", "3:false")
		return []byte("active"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "active", string(b))
	assert.False(t, mr.Exists("estate:properties:3:false"))

	// 没有并发失效时正常回写
	b, err = c.GetOrLoad(ctx, "properties", "3:false", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("deleted"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "deleted", string(b))
	got, ok := c.Get(ctx, "properties", "3:false")
	require.True(t, ok)
	assert.Equal(t, "deleted", string(got))
}

func TestRemoveNamespaceDuringLoadSkipsWriteBack(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	v, err := GetOrLoadJSON(c, ctx, "property-types", "active", time.Minute, func(ctx context.Context) (*item, error) {
		c.RemoveNamespace(ctx, "property-types")
		return &item{Name: "Villa"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Villa", v.Name)
	assert.False(t, mr.Exists("estate:property-types:active"))
}

func TestSetIfGeneration(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gen := c.Generation(ctx, "properties")
	assert.EqualValues(t, 0, gen)
	assert.True(t, c.SetIfGeneration(ctx, "properties", "1", []byte("a"), time.Minute, gen))

	c.Remove(ctx, "properties", "9")
	assert.EqualValues(t, 1, c.Generation(ctx, "properties"))
	assert.False(t, c.SetIfGeneration(ctx, "properties", "1", []byte("stale"), time.Minute, gen))
	b, ok := c.Get(ctx, "properties", "1")
	require.True(t, ok)
	assert.Equal(t, "a", string(b))

	// 其他 namespace 不受影响
	assert.True(t, c.SetIfGeneration(ctx, "property-types", "1", []byte("t"), time.Minute, c.Generation(ctx, "property-types")))

	var nilCache *Cache
	assert.EqualValues(t, -1, nilCache.Generation(ctx, "properties"))
	assert.False(t, nilCache.SetIfGeneration(ctx, "properties", "1", []byte("x"), 0, 0))
}
