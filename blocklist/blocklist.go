package blocklist

// Mode selects how BlockList.Blocked matches a query name against the
// inserted patterns.
type Mode int

const (
	// ModeSuffix blocks a name if any label-boundary suffix of it (i.e.
	// itself or a parent domain) is a listed pattern. This is the
	// default: it's what subdomain-aware blocklists like StevenBlack or
	// AdGuard's lists expect.
	ModeSuffix Mode = iota
	// ModeExact blocks a name only if it is, verbatim, a listed pattern.
	// Kept for compatibility with tooling that was built against the
	// older exact-match behaviour.
	ModeExact
)

// BlockList is an immutable-after-construction domain policy matcher.
type BlockList struct {
	t    *trie
	mode Mode
}

// New builds an empty BlockList in the given mode. Call Insert for each
// pattern before first use; once queries start arriving treat it as
// read-only.
func New(mode Mode) *BlockList {
	return &BlockList{t: newTrie(), mode: mode}
}

// Insert adds pattern to the blocklist. Intended for use during
// construction only.
func (b *BlockList) Insert(pattern string) {
	b.t.insert(pattern)
}

// Blocked reports whether qname matches the policy set, per the
// configured Mode.
func (b *BlockList) Blocked(qname string) bool {
	if b.mode == ModeExact {
		return b.t.containsExact(qname)
	}
	return b.t.containsSuffix(qname)
}

// Contains is the exact-match form, available regardless of Mode, the
// spec requires both operations to be exposed even though only one is the
// default.
func (b *BlockList) Contains(qname string) bool {
	return b.t.containsExact(qname)
}

// ContainsSuffix is the suffix-match form, available regardless of Mode.
func (b *BlockList) ContainsSuffix(qname string) bool {
	return b.t.containsSuffix(qname)
}
