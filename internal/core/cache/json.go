package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var errNothingToStore = errors.New("cache: nothing to store")

// GetOrLoadJSON 值按 JSON 序列化；load 返回 nil 时不写缓存
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	ns, key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	var loaded *T
	b, err := c.GetOrLoad(ctx, ns, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if v == nil {
			return nil, errNothingToStore
		}
		loaded = v
		return json.Marshal(v)
	})
	if errors.Is(err, errNothingToStore) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if loaded != nil {
		return loaded, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		// 脏数据：删掉后回源
		c.Remove(ctx, ns, key)
		return load(ctx)
	}
	return &out, nil
}
