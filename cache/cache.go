// Package cache 提供了字节级缓存抽象及基于 bigcache 的本地实现，用于缓存按名称加载的数据集原文。
package cache

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrMiss 表示缓存未命中。
var ErrMiss = errors.New("cache miss")

var (
	// cacheHits 缓存命中次数
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "naivebayes_cache_hits_total",
			Help: "The total number of cache hits",
		},
		[]string{"prefix"},
	)
	// cacheMisses 缓存未命中次数
	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "naivebayes_cache_misses_total",
			Help: "The total number of cache misses",
		},
		[]string{"prefix"},
	)
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses)
}

// Collectors 返回本包的指标，便于注册到独立的注册表。
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{cacheHits, cacheMisses}
}

// Cache 定义字节缓存接口。
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
