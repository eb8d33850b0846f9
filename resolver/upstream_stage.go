package resolver

import (
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dnsresolver/coreresolver/cache"
	"github.com/dnsresolver/coreresolver/upstream"
	"github.com/dnsresolver/coreresolver/wire"
)

// UpstreamStage forwards a query that missed every cache tier to the
// load balancer, caches a genuine answer, and replies SERVFAIL when the
// balancer exhausts every upstream. Concurrent misses for the same
// fingerprint are coalesced onto a single in-flight upstream query.
type UpstreamStage struct {
	lb    *upstream.LoadBalancer
	cache *cache.Cache
	group singleflight.Group
}

// NewUpstreamStage binds lb for selection/execution and c for caching
// genuine upstream answers.
func NewUpstreamStage(lb *upstream.LoadBalancer, c *cache.Cache) *UpstreamStage {
	return &UpstreamStage{lb: lb, cache: c}
}

func (s *UpstreamStage) Name() string { return "upstream" }

func (s *UpstreamStage) Handle(c *Context) {
	fp := cache.NewFingerprint(c.Query.QName, c.Query.QType, c.Query.QClass)
	qc := upstream.QueryContext{QType: c.Query.QType}

	raw, _, _ := s.group.Do(string(fp), func() (interface{}, error) {
		resp, answered := s.lb.Execute(c.Query.Raw[:c.Query.QuestionEnd], qc)
		if answered {
			s.cache.Put(fp, resp, s.cache.AdjustTTL(fp, defaultUpstreamTTL), c.Now)
		}
		return resp, nil
	})

	resp := raw.([]byte)
	out := append([]byte(nil), resp...)
	wire.RewriteID(out, c.Query.ID)
	c.Response = out
	c.Abort()
}

// defaultUpstreamTTL is the baseline before AdjustTTL scales it by
// observed frequency; a fresh upstream answer carries no TTL of its own
// in this core's simplified response model.
const defaultUpstreamTTL = 300 * time.Second
