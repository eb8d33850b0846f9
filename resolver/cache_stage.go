package resolver

import (
	"github.com/dnsresolver/coreresolver/cache"
	"github.com/dnsresolver/coreresolver/metrics"
	"github.com/dnsresolver/coreresolver/wire"
)

// CacheStage answers from the tiered cache when a fresh entry exists for
// the query's fingerprint, rewriting the stored response's id to match
// the current request.
type CacheStage struct {
	cache *cache.Cache
}

// NewCacheStage binds c, the shared three-tier cache.
func NewCacheStage(c *cache.Cache) *CacheStage {
	return &CacheStage{cache: c}
}

func (s *CacheStage) Name() string { return "cache" }

func (s *CacheStage) Handle(c *Context) {
	fp := cache.NewFingerprint(c.Query.QName, c.Query.QType, c.Query.QClass)

	entry, hit := s.cache.Get(fp, c.Now)
	if !hit {
		metrics.ObserveCacheMiss()
		return
	}
	metrics.ObserveCacheHit()

	resp := append([]byte(nil), entry.Raw...)
	wire.RewriteID(resp, c.Query.ID)
	c.Response = resp
	c.Abort()
}
