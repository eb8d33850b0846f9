package wire

import "encoding/binary"

// answerRRSize is the byte length of a single compressed-name A-record
// answer: 2 (name pointer) + 2 (type) + 2 (class) + 4 (ttl) + 2 (rdlength)
// + 4 (rdata).
const answerRRSize = 16

// defaultATTL is the TTL stamped on synthesised A-record answers.
const defaultATTL = 300

// BuildNXDomainInPlace rewrites buffer into an NXDOMAIN response: sets QR
// and RCODE=NXDOMAIN, zeroes ANCOUNT/NSCOUNT/ARCOUNT. The id and question
// section are left untouched.
func BuildNXDomainInPlace(buffer []byte) {
	setRcodeInPlace(buffer, RcodeNXDomain)
}

// BuildServFailInPlace rewrites buffer into a SERVFAIL response, the same
// way BuildNXDomainInPlace does for NXDOMAIN.
func BuildServFailInPlace(buffer []byte) {
	setRcodeInPlace(buffer, RcodeServFail)
}

func setRcodeInPlace(buffer []byte, rcode byte) {
	if len(buffer) < headerSize {
		return
	}
	buffer[offsetFlags] |= flagQR
	buffer[offsetFlags+1] = (buffer[offsetFlags+1] &^ rcodeMask) | (rcode & rcodeMask)
	buffer[offsetANCount] = 0
	buffer[offsetANCount+1] = 0
	buffer[offsetNSCount] = 0
	buffer[offsetNSCount+1] = 0
	buffer[offsetARCount] = 0
	buffer[offsetARCount+1] = 0
}

// BuildARecordResponse emits query unchanged as the prefix, sets QR and
// ANCOUNT=1, and appends one answer RR pointing back at the question name
// (compression pointer to offset 12) with TYPE=A, CLASS=IN, TTL=300 and the
// given IPv4 address as RDATA. query must be header+question only (no other
// sections), that is what every caller in this resolver hands it.
func BuildARecordResponse(query []byte, ipv4 [4]byte) []byte {
	out := make([]byte, len(query)+answerRRSize)
	copy(out, query)

	out[offsetFlags] |= flagQR
	binary.BigEndian.PutUint16(out[offsetANCount:], 1)

	pos := len(query)
	out[pos] = 0xC0
	out[pos+1] = 0x0C
	pos += 2

	binary.BigEndian.PutUint16(out[pos:], TypeA)
	pos += 2
	binary.BigEndian.PutUint16(out[pos:], ClassIN)
	pos += 2
	binary.BigEndian.PutUint32(out[pos:], defaultATTL)
	pos += 4
	binary.BigEndian.PutUint16(out[pos:], 4)
	pos += 2
	copy(out[pos:], ipv4[:])

	return out
}

// RewriteID copies a two-byte id into the first two bytes of buffer.
func RewriteID(buffer []byte, id uint16) {
	if len(buffer) < 2 {
		return
	}
	binary.BigEndian.PutUint16(buffer, id)
}
