package resolver

import (
	"github.com/dnsresolver/coreresolver/metrics"
	"github.com/dnsresolver/coreresolver/wire"
)

// blockChecker is satisfied by both a static *blocklist.BlockList and a
// *config.BlocklistWatcher, so this stage doesn't care whether the
// policy set is fixed at startup or hot-reloaded from disk.
type blockChecker interface {
	Blocked(qname string) bool
}

// BlocklistStage answers policy-blocked names with NXDOMAIN, built in
// place from the query bytes so the question section and id survive
// untouched.
type BlocklistStage struct {
	list blockChecker
}

// NewBlocklistStage binds list, the default/compatibility mode already
// selected by the caller.
func NewBlocklistStage(list blockChecker) *BlocklistStage {
	return &BlocklistStage{list: list}
}

func (s *BlocklistStage) Name() string { return "blocklist" }

func (s *BlocklistStage) Handle(c *Context) {
	if !s.list.Blocked(c.Query.QName) {
		return
	}

	metrics.ObserveBlocklistHit()

	resp := append([]byte(nil), c.Query.Raw[:c.Query.QuestionEnd]...)
	wire.BuildNXDomainInPlace(resp)
	c.Response = resp
	c.Abort()
}
