// Package id provides sortable ID generation utilities.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// alphabet is Crockford's Base32 (no I, L, O, U to avoid confusion).
const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID generates a ULID: a 26-character identifier with a 48-bit
// millisecond timestamp prefix and 80 random bits, lexicographically
// sortable by creation time. Herald uses ULIDs as transport message
// identifiers where the provider does not assign one (SMTP).
func NewULID() string {
	var raw [16]byte

	ms := uint64(time.Now().UnixMilli())
	raw[0] = byte(ms >> 40)
	raw[1] = byte(ms >> 32)
	raw[2] = byte(ms >> 24)
	raw[3] = byte(ms >> 16)
	raw[4] = byte(ms >> 8)
	raw[5] = byte(ms)

	if _, err := rand.Read(raw[6:]); err != nil {
		// Degraded but functional fallback when the entropy source fails.
		binary.BigEndian.PutUint64(raw[6:14], uint64(time.Now().UnixNano()))
	}

	// Treat the 16 bytes as one 128-bit big-endian integer and peel off
	// 5 bits per output character, right to left. 26 chars hold 130 bits;
	// the top two bits are always zero.
	hi := binary.BigEndian.Uint64(raw[:8])
	lo := binary.BigEndian.Uint64(raw[8:])

	var out [26]byte
	for i := 25; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}

	return string(out[:])
}
