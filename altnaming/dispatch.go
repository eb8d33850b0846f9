package altnaming

// Dispatcher holds one Resolver per Scheme, generalizing the teacher's
// name-registry pattern (middleware.Register) from "named pipeline stage"
// to "named TLD scheme". Registration happens at construction; lookups
// afterward are a plain map read.
type Dispatcher struct {
	resolvers map[Scheme]Resolver
}

// NewDispatcher returns an empty Dispatcher. Register each scheme you want
// handled before serving queries.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{resolvers: make(map[Scheme]Resolver)}
}

// Register binds scheme to resolver, overwriting any previous binding.
func (d *Dispatcher) Register(scheme Scheme, resolver Resolver) {
	d.resolvers[scheme] = resolver
}

// Dispatch classifies qname's TLD and, if it names a registered scheme,
// calls that scheme's Resolve. ok is false whenever the TLD doesn't match
// any scheme, the caller should fall through to the conventional path
// without treating this as an error.
func (d *Dispatcher) Dispatch(qname string) (*Resolution, bool, error) {
	scheme, matched := Classify(qname)
	if !matched {
		return nil, false, nil
	}

	resolver, registered := d.resolvers[scheme]
	if !registered {
		return nil, false, nil
	}

	res, err := resolver.Resolve(qname)
	if err != nil {
		return nil, true, err
	}
	if res == nil {
		return nil, true, nil
	}
	return res, true, nil
}
