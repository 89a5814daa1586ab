package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"
)

// crockford is Crockford's base32 alphabet (no I, L, O, U).
const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ULIDLength is the length of an encoded ULID.
const ULIDLength = 26

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces ULIDs and random strings. The zero value uses the real
// clock and crypto/rand, and is safe for concurrent use.
type Generator struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Rand is the source of random bytes. Defaults to crypto/rand.Reader.
	Rand io.Reader

	mu      sync.Mutex
	started bool
	lastMs  int64
	counter uint16
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) read(buf []byte) error {
	r := g.Rand
	if r == nil {
		r = rand.Reader
	}
	_, err := io.ReadFull(r, buf)
	return err
}

// ULID returns a new ULID. IDs made in the same millisecond differ in their
// random part even when the random source repeats itself.
func (g *Generator) ULID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if g.started && ms == g.lastMs {
		g.counter++
	} else {
		g.started = true
		g.lastMs = ms
		g.counter = 0
	}

	var entropy [10]byte
	if err := g.read(entropy[:]); err != nil {
		return "", fmt.Errorf("reading entropy: %w", err)
	}
	entropy[0] ^= byte(g.counter >> 8)
	entropy[1] ^= byte(g.counter)

	return encodeULID(ms, entropy), nil
}

// encodeULID writes the 48-bit timestamp and 80 bits of entropy, most
// significant bits first, 5 bits per character.
func encodeULID(ms int64, entropy [10]byte) string {
	var out [ULIDLength]byte
	for i := 9; i >= 0; i-- {
		out[i] = crockford[ms&0x1F]
		ms >>= 5
	}

	var acc uint32
	bits, pos := 0, 10
	for _, b := range entropy {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = crockford[(acc>>bits)&0x1F]
			pos++
		}
	}
	return string(out[:])
}

// IsValidULID checks if a string is a well-formed ULID.
func IsValidULID(s string) bool {
	if len(s) != ULIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if decode(s[i]) < 0 {
			return false
		}
	}
	return true
}

// ULIDTime extracts the timestamp from a ULID.
func ULIDTime(ulid string) (time.Time, error) {
	if !IsValidULID(ulid) {
		return time.Time{}, fmt.Errorf("invalid ULID: %q", ulid)
	}
	var ms int64
	for i := 0; i < 10; i++ {
		ms = ms<<5 | int64(decode(ulid[i]))
	}
	return time.UnixMilli(ms), nil
}

func decode(c byte) int {
	for i := 0; i < len(crockford); i++ {
		if crockford[i] == c {
			return i
		}
	}
	return -1
}

// Alphanumeric returns n random letters and digits.
func (g *Generator) Alphanumeric(n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("negative length %d", n)
	}
	buf := make([]byte, n)
	if err := g.read(buf); err != nil {
		return "", fmt.Errorf("reading entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphanumeric[int(b)%len(alphanumeric)]
	}
	return string(buf), nil
}
