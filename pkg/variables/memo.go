package variables

import (
	"strconv"
	"sync"

	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Memo)(nil)

// Memo caches the answers of another resolver, misses included, so every
// occurrence of a name resolves to the same value for the lifetime of the
// Memo. It is safe for concurrent use.
type Memo struct {
	inner stencil.Resolver

	mu    sync.Mutex
	cache map[string]memoEntry
}

type memoEntry struct {
	value string
	ok    bool
}

// NewMemo wraps r.
func NewMemo(r stencil.Resolver) *Memo {
	return &Memo{inner: r, cache: make(map[string]memoEntry)}
}

// LookupName implements stencil.Resolver.
func (m *Memo) LookupName(name string) (string, bool) {
	return m.lookup("n:"+name, func() (string, bool) { return m.inner.LookupName(name) })
}

// LookupGroup implements stencil.Resolver.
func (m *Memo) LookupGroup(group string, index int) (string, bool) {
	return m.lookup("g:"+group+":"+strconv.Itoa(index), func() (string, bool) {
		return m.inner.LookupGroup(group, index)
	})
}

// lookup holds the lock across the inner call so two goroutines never ask an
// interactive resolver the same question.
func (m *Memo) lookup(key string, fetch func() (string, bool)) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.cache[key]; ok {
		return e.value, e.ok
	}
	v, ok := fetch()
	m.cache[key] = memoEntry{value: v, ok: ok}
	return v, ok
}

// Forget drops every cached answer.
func (m *Memo) Forget() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.cache)
}
