package variables

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/stencil/pkg/stencil"
)

func TestChain(t *testing.T) {
	t.Parallel()

	first := NewMap(map[string]string{"a": "first"}, map[string][]string{"g": {"x"}})
	second := NewMap(map[string]string{"a": "second", "b": "second"}, map[string][]string{"g": {"y", "z"}})
	c := Chain{nil, first, second}

	v, _ := c.LookupName("a")
	assert.Equal(t, "first", v)
	v, _ = c.LookupName("b")
	assert.Equal(t, "second", v)

	v, ok := c.LookupGroup("g", 1)
	assert.True(t, ok, "falls through when the first list is too short")
	assert.Equal(t, "z", v)

	_, ok = c.LookupName("c")
	assert.False(t, ok)
	_, ok = Chain{}.LookupGroup("g", 0)
	assert.False(t, ok)
}

// countingResolver counts lookups and answers with the call number.
type countingResolver struct {
	mu    sync.Mutex
	calls int
}

func (c *countingResolver) next() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return string(rune('0' + c.calls))
}

func (c *countingResolver) LookupName(name string) (string, bool) {
	if name == "missing" {
		c.next()
		return "", false
	}
	return c.next(), true
}

func (c *countingResolver) LookupGroup(string, int) (string, bool) {
	return c.next(), true
}

func TestMemo(t *testing.T) {
	t.Parallel()

	inner := &countingResolver{}
	m := NewMemo(inner)

	a1, _ := m.LookupName("a")
	a2, _ := m.LookupName("a")
	assert.Equal(t, a1, a2)

	g1, _ := m.LookupGroup("a", 0)
	assert.NotEqual(t, a1, g1, "names and groups are cached separately")
	g2, _ := m.LookupGroup("a", 0)
	assert.Equal(t, g1, g2)

	_, ok := m.LookupName("missing")
	assert.False(t, ok)
	_, ok = m.LookupName("missing")
	assert.False(t, ok)
	assert.Equal(t, 3, inner.calls, "misses are cached too")

	m.Forget()
	a3, _ := m.LookupName("a")
	assert.NotEqual(t, a1, a3)
}

func TestMemo_RepeatedNamesStampIdentically(t *testing.T) {
	t.Parallel()

	engine := stencil.New(NewMemo(&countingResolver{}))
	out, err := engine.Stamp("${A}_${A}")
	assert.NoError(t, err)
	assert.Equal(t, "1_1", out)
}
