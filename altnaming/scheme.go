// Package altnaming dispatches queries for non-ICANN "blockchain" TLDs to
// pluggable alternative-naming resolvers, ahead of the conventional
// blocklist/cache/upstream path.
package altnaming

import "strings"

// Scheme names one of the supported alternative-naming families.
type Scheme string

const (
	SchemeENS Scheme = "ENS"
	SchemeUNS Scheme = "UNS"
	SchemeZNS Scheme = "ZNS"
	SchemeCNS Scheme = "CNS"
)

// tldSchemes is the fixed TLD → scheme classification table.
var tldSchemes = map[string]Scheme{
	"eth": SchemeENS,

	"crypto":     SchemeUNS,
	"nft":        SchemeUNS,
	"blockchain": SchemeUNS,
	"bitcoin":    SchemeUNS,
	"wallet":     SchemeUNS,
	"888":        SchemeUNS,
	"dao":        SchemeUNS,
	"x":          SchemeUNS,

	"ghost": SchemeZNS,
	"zns":   SchemeZNS,

	"cns": SchemeCNS,
}

// Classify selects a Scheme by exact TLD match. A non-match returns ok ==
// false and the query falls through to the conventional path.
func Classify(qname string) (Scheme, bool) {
	tld := lastLabel(qname)
	if tld == "" {
		return "", false
	}
	scheme, ok := tldSchemes[tld]
	return scheme, ok
}

func lastLabel(qname string) string {
	name := strings.ToLower(strings.TrimSuffix(qname, "."))
	if name == "" {
		return ""
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
