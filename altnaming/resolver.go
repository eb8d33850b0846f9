package altnaming

import "time"

// Resolution is what a Resolver hands back on a successful lookup. The
// core only looks at Addresses[0] when synthesising an A-record response,
// but callers may carry the rest for logging.
type Resolution struct {
	Addresses [][4]byte
	TTL       time.Duration
	Kind      string
}

// Resolver is the abstract capability each alt-naming scheme implements.
// A miss is reported as (nil, nil), not an error, and the query falls
// through to the conventional blocklist/cache/upstream path; a non-nil
// error indicates the collaborator itself failed and is treated the same
// way (AltNamingMiss, fall through).
type Resolver interface {
	Resolve(qname string) (*Resolution, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(qname string) (*Resolution, error)

func (f ResolverFunc) Resolve(qname string) (*Resolution, error) { return f(qname) }
