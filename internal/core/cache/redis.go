package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache redis 读穿缓存。key 统一为 <prefix><namespace>:<key>，
// 每个 namespace 维护一个 SET 索引，按 namespace 批量失效。
// 每次失效都会递增 namespace 的代数；回源期间代数变化则不回写。
// 所有 redis 错误只记日志并按未命中处理；nil *Cache 可直接使用（全部未命中）。
type Cache struct {
	RDB    *redis.Client
	Prefix string
	TTL    time.Duration
	Log    *zap.Logger
	sf     singleflight.Group
}

const DefaultTTL = 30 * time.Minute

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		TTL: DefaultTTL,
		Log: zap.NewNop(),
	}
}

func (c *Cache) enabled() bool { return c != nil && c.RDB != nil }

func (c *Cache) key(ns, key string) string { return c.Prefix + ns + ":" + key }

func (c *Cache) indexKey(ns string) string { return c.Prefix + "idx:" + ns }

func (c *Cache) genKey(ns string) string { return c.Prefix + "gen:" + ns }

var errStale = errors.New("cache: namespace invalidated during load")

func (c *Cache) ttl(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	if c.TTL > 0 {
		return c.TTL
	}
	return DefaultTTL
}

func (c *Cache) warn(msg string, err error, fields ...zap.Field) {
	if c.Log != nil {
		c.Log.Warn(msg, append(fields, zap.Error(err))...)
	}
}

// Get 未命中或出错都返回 false
func (c *Cache) Get(ctx context.Context, ns, key string) ([]byte, bool) {
	if !c.enabled() {
		return nil, false
	}
	b, err := c.RDB.Get(ctx, c.key(ns, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.warn("cache get", err, zap.String("ns", ns), zap.String("key", key))
		}
		return nil, false
	}
	return b, true
}

func (c *Cache) Set(ctx context.Context, ns, key string, val []byte, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	if _, err := c.RDB.TxPipelined(ctx, c.queueSet(ctx, ns, key, val, ttl)); err != nil {
		c.warn("cache set", err, zap.String("ns", ns), zap.String("key", key))
	}
}

func (c *Cache) queueSet(ctx context.Context, ns, key string, val []byte, ttl time.Duration) func(redis.Pipeliner) error {
	ttl = c.ttl(ttl)
	full, idx := c.key(ns, key), c.indexKey(ns)
	return func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, full, val, ttl)
		pipe.SAdd(ctx, idx, full)
		pipe.Expire(ctx, idx, ttl)
		return nil
	}
}

// Generation namespace 当前代数，出错时返回 -1（之后的 SetIfGeneration 一律放弃）
func (c *Cache) Generation(ctx context.Context, ns string) int64 {
	if !c.enabled() {
		return -1
	}
	n, err := c.RDB.Get(ctx, c.genKey(ns)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0
	case err != nil:
		c.warn("cache generation", err, zap.String("ns", ns))
		return -1
	}
	return n
}

// SetIfGeneration 仅当 namespace 代数仍为 gen 时写入；WATCH 保证与失效互斥。
// 返回是否写入。
func (c *Cache) SetIfGeneration(ctx context.Context, ns, key string, val []byte, ttl time.Duration, gen int64) bool {
	if !c.enabled() || gen < 0 {
		return false
	}
	gk := c.genKey(ns)
	err := c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if errors.Is(err, redis.Nil) {
			cur, err = 0, nil
		}
		if err != nil {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, c.queueSet(ctx, ns, key, val, ttl))
		return err
	}, gk)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		return false
	}
	c.warn("cache set", err, zap.String("ns", ns), zap.String("key", key))
	return false
}

func (c *Cache) Exists(ctx context.Context, ns, key string) bool {
	if !c.enabled() {
		return false
	}
	n, err := c.RDB.Exists(ctx, c.key(ns, key)).Result()
	if err != nil {
		c.warn("cache exists", err, zap.String("ns", ns))
		return false
	}
	return n > 0
}

func (c *Cache) Remove(ctx context.Context, ns, key string) {
	if !c.enabled() {
		return
	}
	full := c.key(ns, key)
	pipe := c.RDB.TxPipeline()
	pipe.Incr(ctx, c.genKey(ns))
	pipe.Del(ctx, full)
	pipe.SRem(ctx, c.indexKey(ns), full)
	if _, err := pipe.Exec(ctx); err != nil {
		c.warn("cache remove", err, zap.String("ns", ns), zap.String("key", key))
	}
}

// RemoveNamespace 删除 namespace 下所有 key（依据索引，不做 SCAN）
func (c *Cache) RemoveNamespace(ctx context.Context, ns string) {
	if !c.enabled() {
		return
	}
	idx := c.indexKey(ns)
	// 先递增代数，让正在回源的请求放弃回写
	if err := c.RDB.Incr(ctx, c.genKey(ns)).Err(); err != nil {
		c.warn("cache generation", err, zap.String("ns", ns))
	}
	keys, err := c.RDB.SMembers(ctx, idx).Result()
	if err != nil {
		c.warn("cache index", err, zap.String("ns", ns))
		return
	}
	if err := c.RDB.Del(ctx, append(keys, idx)...).Err(); err != nil {
		c.warn("cache remove namespace", err, zap.String("ns", ns))
	}
}

// GetOrLoad 先读缓存，未命中时 singleflight 合并回源并回写。
// load 的错误原样返回，缓存自身的错误不影响结果。
func (c *Cache) GetOrLoad(ctx context.Context, ns, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if !c.enabled() {
		return load(ctx)
	}
	if b, ok := c.Get(ctx, ns, key); ok {
		return b, nil
	}
	v, err, _ := c.sf.Do(c.key(ns, key), func() (any, error) {
		gen := c.Generation(ctx, ns)
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		c.SetIfGeneration(ctx, ns, key, b, ttl, gen)
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.RDB.Close()
}
