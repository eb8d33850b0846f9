// Package wire implements a zero-copy parser and minimal builders for the
// subset of RFC 1035 message framing the resolver core needs: a 12-byte
// header and a single question. It never follows compression pointers in
// the question section (questions never use compression on the wire) and
// never allocates beyond the buffer it hands back to the caller.
package wire

// Header field byte offsets, all two bytes, network order.
const (
	offsetID      = 0
	offsetFlags   = 2
	offsetQDCount = 4
	offsetANCount = 6
	offsetNSCount = 8
	offsetARCount = 10
	headerSize    = 12
)

const (
	flagQR = 0x80 // top bit of the flags high byte

	rcodeMask      = 0x0F // low nibble of the flags low byte
	RcodeSuccess   = 0
	RcodeServFail  = 2
	RcodeNXDomain  = 3
)

// TypeA and ClassIN are the only record type/class this core ever builds.
const (
	TypeA   = 1
	ClassIN = 1
)

// ParseError reports why an inbound datagram failed to parse.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

var (
	errTruncated       = &ParseError{Reason: "truncated"}
	errInvalidLabel    = &ParseError{Reason: "invalid label"}
	errEmptyName       = &ParseError{Reason: "empty name"}
	errCompressionInQD = &ParseError{Reason: "compression pointer in question"}
)

// QueryView is a zero-copy view over a parsed inbound query: it carries the
// decoded header fields and dotted qname, plus a reference to the original
// bytes. The original bytes are never copied during parsing.
type QueryView struct {
	ID     uint16
	Flags  uint16
	QName  string // dotted form, original case preserved
	QType  uint16
	QClass uint16
	Raw    []byte // the original datagram, unmodified

	// QuestionEnd is the byte offset just past QCLASS: Raw[:QuestionEnd]
	// is the header+question prefix builders use as their unmodified
	// prefix. Any bytes beyond it belong to sections this core ignores.
	QuestionEnd int
}

// RecursionDesired reports the RD bit of the query.
func (q *QueryView) RecursionDesired() bool {
	return q.Flags&0x0100 != 0
}

// Rcode extracts the response code from a built response datagram's flags.
func Rcode(response []byte) byte {
	if len(response) < headerSize {
		return RcodeServFail
	}
	return response[offsetFlags+1] & rcodeMask
}

// Parse decodes the header and question section of an inbound datagram.
// It does not copy bytes; QName is built fresh (strings are immutable, so
// this is the one unavoidable allocation) but Raw aliases the input slice.
func Parse(b []byte) (*QueryView, error) {
	if len(b) < headerSize {
		return nil, errTruncated
	}

	q := &QueryView{
		ID:    be16(b, offsetID),
		Flags: be16(b, offsetFlags),
		Raw:   b,
	}

	name, pos, err := parseName(b, headerSize)
	if err != nil {
		return nil, err
	}
	q.QName = name

	if pos+4 > len(b) {
		return nil, errTruncated
	}
	q.QType = be16(b, pos)
	q.QClass = be16(b, pos+2)
	q.QuestionEnd = pos + 4

	return q, nil
}

// parseName walks length-prefixed labels starting at pos until the zero
// terminator, returning the dotted name and the offset just past the
// terminator.
func parseName(b []byte, pos int) (string, int, error) {
	var name []byte
	labels := 0

	for {
		if pos >= len(b) {
			return "", 0, errTruncated
		}

		length := int(b[pos])

		if length >= 0xC0 {
			// Top two bits set: a compression pointer. Questions never use
			// compression in practice; reject rather than follow it.
			return "", 0, errCompressionInQD
		}

		if length == 0 {
			pos++
			break
		}

		if length > 63 {
			return "", 0, errInvalidLabel
		}

		pos++
		if pos+length > len(b) {
			return "", 0, errTruncated
		}

		if labels > 0 {
			name = append(name, '.')
		}
		name = append(name, b[pos:pos+length]...)
		pos += length
		labels++
	}

	if labels == 0 {
		return "", 0, errEmptyName
	}

	return string(name), pos, nil
}

func be16(b []byte, off int) uint16 {
	return uint16(b[off])<<8 | uint16(b[off+1])
}
