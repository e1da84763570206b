package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// errMiss 回源未找到；不写入 redis（不做负缓存）
var errMiss = errors.New("cache: miss")

// GetOrLoadJSON 以 JSON 缓存 load 的结果；load 返回 ok=false 表示不存在。
// 无法解码为 T 的旧数据会被删除并重新回源
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, bool, error),
) (T, bool, error) {
	var zero T
	fetch := func() ([]byte, error) {
		return c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
			v, ok, err := load(ctx)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errMiss
			}
			return json.Marshal(v)
		})
	}

	b, err := fetch()
	if err == nil {
		var out T
		if json.Unmarshal(b, &out) == nil {
			return out, true, nil
		}
		_ = c.Del(ctx, key)
		if b, err = fetch(); err == nil {
			if err = json.Unmarshal(b, &out); err == nil {
				return out, true, nil
			}
		}
	}
	if errors.Is(err, errMiss) {
		return zero, false, nil
	}
	return zero, false, err
}
