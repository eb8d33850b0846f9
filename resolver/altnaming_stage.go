package resolver

import (
	"github.com/dnsresolver/coreresolver/altnaming"
	"github.com/dnsresolver/coreresolver/cache"
	"github.com/dnsresolver/coreresolver/wire"
)

// AltNamingStage dispatches queries for non-ICANN TLDs (eth, crypto,
// ghost, cns, ...) to the pluggable resolver registry, ahead of the
// blocklist check, per the source's ordering, policy applies only to
// the conventional path.
type AltNamingStage struct {
	dispatcher *altnaming.Dispatcher
	cache      *cache.Cache
}

// NewAltNamingStage binds dispatcher for scheme lookups and c for
// caching a successful resolution.
func NewAltNamingStage(dispatcher *altnaming.Dispatcher, c *cache.Cache) *AltNamingStage {
	return &AltNamingStage{dispatcher: dispatcher, cache: c}
}

func (s *AltNamingStage) Name() string { return "altnaming" }

func (s *AltNamingStage) Handle(c *Context) {
	res, matched, err := s.dispatcher.Dispatch(c.Query.QName)
	if !matched || err != nil || res == nil || len(res.Addresses) == 0 {
		return
	}

	resp := wire.BuildARecordResponse(c.Query.Raw[:c.Query.QuestionEnd], res.Addresses[0])
	c.Response = resp

	fp := cache.NewFingerprint(c.Query.QName, wire.TypeA, wire.ClassIN)
	s.cache.Put(fp, resp, res.TTL, c.Now)
	c.Abort()
}
