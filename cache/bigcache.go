package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/wyfcoding/naivebayes/config"
)

// BigCache 实现了 `Cache` 接口，使用 `allegro/bigcache` 作为底层存储。
// 所有条目共享同一个全局 TTL（LifeWindow）。
type BigCache struct {
	cache  *bigcache.BigCache
	prefix string
}

// NewBigCache 创建并返回一个新的 BigCache 实例。
// ttl: 缓存项的全局过期时间。
// maxMB: 缓存的最大容量（单位MB），0 表示不限制。
func NewBigCache(ttl time.Duration, maxMB int) (*BigCache, error) {
	return NewBigCacheFromConfig(config.BigCacheConfig{
		LifeWindow:       ttl,
		CleanWindow:      5 * time.Minute,
		HardMaxCacheSize: maxMB,
	})
}

// NewBigCacheFromConfig 按配置创建 BigCache，未设置的字段沿用 bigcache 默认值。
func NewBigCacheFromConfig(cfg config.BigCacheConfig) (*BigCache, error) {
	ttl := cfg.LifeWindow
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	bc := bigcache.DefaultConfig(ttl)
	if cfg.CleanWindow > 0 {
		bc.CleanWindow = cfg.CleanWindow
	}
	if cfg.Shards > 0 {
		bc.Shards = cfg.Shards
	}
	if cfg.MaxEntrySize > 0 {
		bc.MaxEntrySize = cfg.MaxEntrySize
	}
	bc.HardMaxCacheSize = cfg.HardMaxCacheSize

	c, err := bigcache.New(context.Background(), bc)
	if err != nil {
		return nil, fmt.Errorf("初始化 bigcache 失败: %w", err)
	}
	return &BigCache{cache: c, prefix: "dataset"}, nil
}

// Get 读取原始字节，未命中时返回 ErrMiss。
func (c *BigCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			cacheMisses.WithLabelValues(c.prefix).Inc()
			return nil, fmt.Errorf("%w: %s", ErrMiss, key)
		}
		return nil, err
	}
	cacheHits.WithLabelValues(c.prefix).Inc()
	return data, nil
}

// Set 写入原始字节。bigcache 不支持逐条过期时间，统一使用 LifeWindow。
func (c *BigCache) Set(ctx context.Context, key string, value []byte) error {
	return c.cache.Set(key, value)
}

// Delete 从BigCache中删除一个或多个键，键不存在时忽略。
func (c *BigCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := c.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
			return err
		}
	}
	return nil
}

// Len 返回当前缓存条目数。
func (c *BigCache) Len() int {
	return c.cache.Len()
}

// Close 关闭BigCache实例，释放其占用的资源。
func (c *BigCache) Close() error {
	return c.cache.Close()
}
