package altnaming

import "time"

// NewStubResolver returns a Resolver that always resolves to a single
// fixed address. The real ENS/UNS/ZNS/CNS lookup mechanisms are external
// collaborators out of scope for the core (per spec); this stub stands in
// for them in the default registry and in tests, the same role the
// teacher's mock package plays for dns.ResponseWriter.
func NewStubResolver(address [4]byte, ttl time.Duration) Resolver {
	return ResolverFunc(func(qname string) (*Resolution, error) {
		return &Resolution{
			Addresses: [][4]byte{address},
			TTL:       ttl,
			Kind:      "stub",
		}, nil
	})
}

// DefaultDispatcher wires a stub resolver for every known scheme, giving a
// resolver instance something to dispatch to out of the box.
func DefaultDispatcher() *Dispatcher {
	d := NewDispatcher()
	d.Register(SchemeENS, NewStubResolver([4]byte{192, 168, 1, 100}, 300*time.Second))
	d.Register(SchemeUNS, NewStubResolver([4]byte{192, 168, 1, 101}, 300*time.Second))
	d.Register(SchemeZNS, NewStubResolver([4]byte{192, 168, 1, 102}, 300*time.Second))
	d.Register(SchemeCNS, NewStubResolver([4]byte{192, 168, 1, 103}, 300*time.Second))
	return d
}
