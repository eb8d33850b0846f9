// Package cache implements the resolver's three-tier (hot/warm/cold)
// response cache: independent maps from fingerprint to CacheEntry, each
// with a bounded capacity, promotion on hit, and TTL-honouring expiry.
package cache

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint is the cache key: the normalised lowercase dotted qname plus
// qtype and qclass. Responses for different qtypes on the same name are
// distinct entries.
type Fingerprint string

// NewFingerprint builds a Fingerprint from a (possibly mixed-case) dotted
// qname and the query's type/class.
func NewFingerprint(qname string, qtype, qclass uint16) Fingerprint {
	var b strings.Builder
	b.Grow(len(qname) + 12)
	for i := 0; i < len(qname); i++ {
		c := qname[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(uint64(qtype), 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatUint(uint64(qclass), 10))
	return Fingerprint(b.String())
}

// hash returns the 64-bit key used to place a fingerprint into a tier's
// shard and bucket.
func (f Fingerprint) hash() uint64 {
	return xxhash.Sum64String(string(f))
}
