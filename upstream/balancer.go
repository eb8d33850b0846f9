package upstream

import (
	"errors"
	"time"

	"github.com/dnsresolver/coreresolver/metrics"
	"github.com/dnsresolver/coreresolver/wire"
)

// Transport performs the actual network exchange with an upstream. The
// load balancer depends on this interface rather than a concrete UDP
// socket so tests can substitute a fake.
type Transport interface {
	Exchange(addr string, query []byte, timeout time.Duration) ([]byte, error)
}

// ErrNoUpstreams is returned when the balancer has nothing to select
// from.
var ErrNoUpstreams = errors.New("upstream: no upstreams configured")

// LoadBalancer owns the upstream set and drives selection, circuit
// breaking, adaptive timeouts and failover for every query.
type LoadBalancer struct {
	Strategy   Strategy
	MaxRetries int

	upstreams []*Upstream
	health    *HealthTracker
	transport Transport
	now       func() time.Time
}

// NewLoadBalancer constructs a balancer over ups using transport for the
// wire exchange. strategy selects the scoring algorithm; maxRetries
// bounds the number of distinct upstreams tried per query.
func NewLoadBalancer(ups []*Upstream, transport Transport, strategy Strategy, maxRetries int) *LoadBalancer {
	return &LoadBalancer{
		Strategy:   strategy,
		MaxRetries: maxRetries,
		upstreams:  ups,
		health:     NewHealthTracker(),
		transport:  transport,
		now:        time.Now,
	}
}

// Health returns the balancer's health tracker, so a caller can start
// its background evaluation loop or query it directly.
func (lb *LoadBalancer) Health() *HealthTracker {
	return lb.health
}

// Upstreams returns the configured upstream set.
func (lb *LoadBalancer) Upstreams() []*Upstream {
	return lb.upstreams
}

// eligible returns the upstreams, excluding those in skip, that are
// healthy and whose breaker allows a request right now.
func (lb *LoadBalancer) eligible(skip map[string]bool) []*Upstream {
	now := lb.now()
	out := make([]*Upstream, 0, len(lb.upstreams))
	for _, u := range lb.upstreams {
		if skip[u.ID] {
			continue
		}
		if !lb.health.Healthy(u.ID) {
			continue
		}
		if !u.Breaker.Allow(now) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Select picks one eligible upstream for qc without excluding any.
func (lb *LoadBalancer) Select(qc QueryContext) (*Upstream, error) {
	candidates := lb.eligible(nil)
	if len(candidates) == 0 {
		return nil, ErrNoUpstreams
	}
	return Pick(lb.Strategy, qc, candidates), nil
}

// attempts bounds how many distinct upstreams a single query may try:
// at most MaxRetries, and never more than the upstream count.
func (lb *LoadBalancer) attempts() int {
	n := lb.MaxRetries
	if n <= 0 {
		n = 1
	}
	if n > len(lb.upstreams) {
		n = len(lb.upstreams)
	}
	if n <= 0 {
		n = 1
	}
	return n
}

// Execute resolves query against the upstream set, retrying on a
// distinct upstream on failure up to lb.attempts() times. answered is
// true only when some upstream actually replied; the caller should skip
// caching a synthesized SERVFAIL.
func (lb *LoadBalancer) Execute(query []byte, qc QueryContext) (resp []byte, answered bool) {
	tried := make(map[string]bool, lb.attempts())

	for i := 0; i < lb.attempts(); i++ {
		candidates := lb.eligible(tried)
		if len(candidates) == 0 {
			break
		}
		u := Pick(lb.Strategy, qc, candidates)
		if u == nil {
			break
		}
		tried[u.ID] = true

		resp, ok := lb.tryOne(u, query)
		if ok {
			return resp, true
		}
	}

	servfail := append([]byte(nil), query...)
	wire.BuildServFailInPlace(servfail)
	return servfail, false
}

// tryOne performs a single attempt against u, updating its stats,
// breaker and adaptive timeout from the outcome.
func (lb *LoadBalancer) tryOne(u *Upstream, query []byte) ([]byte, bool) {
	done := u.BeginAttempt()
	defer done()

	timeout := time.Duration(u.Timeout.CurrentMs()) * time.Millisecond
	start := lb.now()
	resp, err := lb.transport.Exchange(u.Addr, query, timeout)
	elapsedMs := lb.now().Sub(start).Milliseconds()

	now := lb.now()
	if err != nil || len(resp) == 0 {
		u.RecordFailure(elapsedMs)
		u.Breaker.RecordFailure(now)
		u.Timeout.OnFailure(elapsedMs)
		metrics.ObserveUpstreamAttempt(u.ID, "failure", elapsedMs)
		metrics.SetBreakerState(u.ID, int(u.Breaker.State()))
		return nil, false
	}

	u.RecordSuccess(elapsedMs)
	u.Breaker.RecordSuccess(now)
	u.Timeout.OnSuccess(elapsedMs)
	metrics.ObserveUpstreamAttempt(u.ID, "success", elapsedMs)
	metrics.SetBreakerState(u.ID, int(u.Breaker.State()))
	return resp, true
}
