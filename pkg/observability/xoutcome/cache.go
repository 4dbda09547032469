package xoutcome

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/xixiU/monilog-sub001/pkg/observability/xpath"
)

// 解析缓存默认容量。
const (
	DefaultSiteCacheSize = 10000
)

// CacheOption 配置 ResolutionCache。
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	accessorSize int
	siteSize     int64
}

// WithAccessorCacheSize 设置访问器缓存容量（类型×名称）。
func WithAccessorCacheSize(n int) CacheOption {
	return func(o *cacheOptions) { o.accessorSize = n }
}

// WithSiteCacheSize 设置调用点缓存容量。
func WithSiteCacheSize(n int64) CacheOption {
	return func(o *cacheOptions) { o.siteSize = n }
}

type siteEntry struct {
	gen  uint64
	site *Site
}

// ResolutionCache 是进程级的解析缓存：访问器解析（golang-lru）与
// 调用点解析（ristretto）。
//
// 读多写少、惰性填充。ristretto 异步写入，写入前的并发未命中会重复计算，
// 计算是幂等的。调用点条目带配置代数，配置替换后旧条目自动失效。
type ResolutionCache struct {
	Accessors *xpath.AccessorCache
	sites     *ristretto.Cache[string, siteEntry]
}

// NewResolutionCache 创建解析缓存，用完需 Close 释放 ristretto 的后台 goroutine。
func NewResolutionCache(opts ...CacheOption) (*ResolutionCache, error) {
	o := cacheOptions{accessorSize: xpath.DefaultAccessorCacheSize, siteSize: DefaultSiteCacheSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.siteSize <= 0 {
		return nil, fmt.Errorf("%w: site cache size %d", ErrInvalidCacheConfig, o.siteSize)
	}
	accessors, err := xpath.NewAccessorCache(o.accessorSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCacheConfig, err)
	}
	sites, err := ristretto.NewCache(&ristretto.Config[string, siteEntry]{
		NumCounters: o.siteSize * 10,
		MaxCost:     o.siteSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCacheConfig, err)
	}
	return &ResolutionCache{Accessors: accessors, sites: sites}, nil
}

func (c *ResolutionCache) site(key string, gen uint64) (*Site, bool) {
	if c == nil {
		return nil, false
	}
	e, ok := c.sites.Get(key)
	if !ok || e.gen != gen {
		return nil, false
	}
	return e.site, true
}

func (c *ResolutionCache) storeSite(key string, gen uint64, s *Site) {
	if c == nil {
		return
	}
	c.sites.Set(key, siteEntry{gen: gen, site: s}, 1)
}

// Wait 等待挂起的异步写入完成，主要用于测试。
func (c *ResolutionCache) Wait() {
	if c != nil {
		c.sites.Wait()
	}
}

// Clear 清空两级缓存。
func (c *ResolutionCache) Clear() {
	if c == nil {
		return
	}
	c.Accessors.Purge()
	c.sites.Clear()
}

// Close 停止 ristretto 后台 goroutine。
func (c *ResolutionCache) Close() {
	if c != nil {
		c.sites.Close()
	}
}
