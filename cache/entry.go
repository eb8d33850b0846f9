package cache

import "time"

// Entry is a single cached response: the raw bytes are a complete
// well-formed DNS response ready to copy onto the wire after rewriting its
// id field to match the current query.
type Entry struct {
	Fingerprint Fingerprint
	Raw         []byte
	ExpiresAt   time.Time
	InsertedAt  time.Time

	accessCount uint64
	lastAccess  time.Time
}

// clone copies an entry's bookkeeping fields but shares the underlying raw
// bytes, tier promotion copies the entry, not the response bytes.
func (e *Entry) clone() *Entry {
	c := *e
	return &c
}

// expired reports whether the entry's TTL has elapsed as of now.
func (e *Entry) expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// AccessCount returns the number of times this entry has been returned
// from a tier's Get.
func (e *Entry) AccessCount() uint64 { return e.accessCount }

// LastAccess returns the last time this entry was returned from a tier's
// Get.
func (e *Entry) LastAccess() time.Time { return e.lastAccess }
