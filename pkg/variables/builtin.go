package variables

import (
	cryptorand "crypto/rand"
	"encoding/hex"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/getmockd/stencil/internal/id"
	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Builtin)(nil)

// maxRandomLength caps ${random:N}.
const maxRandomLength = 1024

// Builtin provides generated values:
//   - ${uuid} - random UUID v4
//   - ${uuid_short} - first 8 hex characters of a UUID
//   - ${now} - current time in RFC3339
//   - ${date} - current date as 2006-01-02
//   - ${timestamp} - Unix seconds
//   - ${timestamp_ms} - Unix milliseconds
//   - ${random} - 8 random hex characters
//   - ${random:N} - N random hex characters
//   - ${ulid} - time-sortable 26 character ID
//   - ${alnum} - 16 random letters and digits
//   - ${alnum:N} - N random letters and digits
//
// Values change between calls; wrap a Builtin in Memo so repeated references
// inside one stencil agree.
type Builtin struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// NewUUID returns a new UUID string. Defaults to uuid.NewString.
	NewUUID func() string
	// Rand is the source of random bytes. Defaults to crypto/rand.Reader.
	Rand io.Reader

	idsOnce sync.Once
	ids     *id.Generator
}

// NewBuiltin returns a Builtin using the real clock and randomness.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (b *Builtin) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builtin) uuid() string {
	if b.NewUUID != nil {
		return b.NewUUID()
	}
	return uuid.NewString()
}

func (b *Builtin) randomHex(n int) (string, bool) {
	r := b.Rand
	if r == nil {
		r = cryptorand.Reader
	}
	buf := make([]byte, (n+1)/2)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", false
	}
	return hex.EncodeToString(buf)[:n], true
}

// generator shares the clock and random source with the other built-ins.
func (b *Builtin) generator() *id.Generator {
	b.idsOnce.Do(func() {
		b.ids = &id.Generator{Now: b.now, Rand: b.Rand}
	})
	return b.ids
}

func generated(s string, err error) (string, bool) {
	return s, err == nil
}

// LookupName implements stencil.Resolver.
func (b *Builtin) LookupName(name string) (string, bool) {
	switch name {
	case "uuid":
		return b.uuid(), true
	case "uuid_short":
		return strings.ReplaceAll(b.uuid(), "-", "")[:8], true
	case "now":
		return b.now().Format(time.RFC3339), true
	case "date":
		return b.now().Format(time.DateOnly), true
	case "timestamp":
		return strconv.FormatInt(b.now().Unix(), 10), true
	case "timestamp_ms":
		return strconv.FormatInt(b.now().UnixMilli(), 10), true
	case "random":
		return b.randomHex(8)
	case "ulid":
		return generated(b.generator().ULID())
	case "alnum":
		return generated(b.generator().Alphanumeric(16))
	default:
		return "", false
	}
}

// LookupGroup implements stencil.Resolver. Only ${random:N} and ${alnum:N}
// are supported.
func (b *Builtin) LookupGroup(group string, index int) (string, bool) {
	if index < 1 || index > maxRandomLength {
		return "", false
	}
	switch group {
	case "random":
		return b.randomHex(index)
	case "alnum":
		return generated(b.generator().Alphanumeric(index))
	default:
		return "", false
	}
}
