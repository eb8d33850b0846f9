package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnsresolver/coreresolver/altnaming"
	"github.com/dnsresolver/coreresolver/blocklist"
	"github.com/dnsresolver/coreresolver/cache"
	"github.com/dnsresolver/coreresolver/upstream"
)

func buildQuery(id uint16, name string) []byte {
	q := make([]byte, 0, 32)
	q = append(q, byte(id>>8), byte(id))
	q = append(q, 0x01, 0x00)
	q = append(q, 0, 1, 0, 0, 0, 0, 0, 0)

	start := 0
	for i := 0; i <= len(name); i++ {
		if i == len(name) || name[i] == '.' {
			label := name[start:i]
			q = append(q, byte(len(label)))
			q = append(q, label...)
			start = i + 1
		}
	}
	q = append(q, 0, 0, 1, 0, 1)
	return q
}

type alwaysFailTransport struct{}

func (alwaysFailTransport) Exchange(addr string, query []byte, timeout time.Duration) ([]byte, error) {
	return nil, assertErr
}

var assertErr = assertError("no upstream reachable in test")

type assertError string

func (e assertError) Error() string { return string(e) }

func TestPipelineBlocklistShortCircuits(t *testing.T) {
	bl := blocklist.New(blocklist.ModeSuffix)
	bl.Insert("ads.example.com")

	p := New(NewBlocklistStage(bl))
	resp := p.Resolve(buildQuery(0x1234, "ads.example.com"), time.Now())

	require.NotNil(t, resp)
	assert.Equal(t, byte(0x12), resp[0])
	assert.Equal(t, byte(0x34), resp[1])
	assert.Equal(t, byte(0x03), resp[3]&0x0F)
}

func TestPipelineDropsUnparseableDatagram(t *testing.T) {
	p := New(NewBlocklistStage(blocklist.New(blocklist.ModeSuffix)))
	resp := p.Resolve([]byte{0x00, 0x01}, time.Now())
	assert.Nil(t, resp)
}

func TestPipelineAltNamingHitCachesAndShortCircuits(t *testing.T) {
	c := cache.New(cache.Sizes{L3: 16})
	defer c.Stop()

	dispatcher := altnaming.NewDispatcher()
	dispatcher.Register(altnaming.SchemeENS, altnaming.NewStubResolver([4]byte{192, 168, 1, 100}, 300*time.Second))

	p := New(NewAltNamingStage(dispatcher, c))
	resp := p.Resolve(buildQuery(0xABCD, "vitalik.eth"), time.Now())

	require.NotNil(t, resp)
	assert.Equal(t, byte(0xAB), resp[0])
	assert.Equal(t, byte(0xCD), resp[1])

	fp := cache.NewFingerprint("vitalik.eth", 1, 1)
	entry, hit := c.Get(fp, time.Now())
	require.True(t, hit)
	assert.Equal(t, resp, append([]byte(nil), entry.Raw...))
}

func TestPipelineCacheHitRewritesID(t *testing.T) {
	c := cache.New(cache.Sizes{L3: 16})
	defer c.Stop()

	fp := cache.NewFingerprint("example.com", 1, 1)
	stored := buildQuery(0xAAAA, "example.com")
	c.Put(fp, stored, 300*time.Second, time.Now())

	p := New(NewCacheStage(c))
	resp := p.Resolve(buildQuery(0xBEEF, "example.com"), time.Now())

	require.NotNil(t, resp)
	assert.Equal(t, byte(0xBE), resp[0])
	assert.Equal(t, byte(0xEF), resp[1])
}

func TestPipelineUpstreamExhaustionReturnsServfail(t *testing.T) {
	c := cache.New(cache.Sizes{L3: 16})
	defer c.Stop()

	u := upstream.New("u1", "10.0.0.1:53", 1, 100)
	lb := upstream.NewLoadBalancer([]*upstream.Upstream{u}, alwaysFailTransport{}, upstream.StrategyLeastLatency, 1)

	p := New(NewUpstreamStage(lb, c))
	query := buildQuery(0x0001, "example.com")
	resp := p.Resolve(query, time.Now())

	require.NotNil(t, resp)
	assert.Equal(t, byte(0x02), resp[3]&0x0F)
}
