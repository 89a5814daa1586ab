package variables

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/getmockd/stencil/pkg/stencil"
)

var _ stencil.Resolver = (*Map)(nil)

// Map resolves names and grouped lists from memory.
// It is safe for concurrent use.
type Map struct {
	mu     sync.RWMutex
	names  map[string]string
	groups map[string][]string
}

// NewMap creates a Map from copies of the given names and groups.
// Either argument may be nil.
func NewMap(names map[string]string, groups map[string][]string) *Map {
	m := &Map{
		names:  make(map[string]string, len(names)),
		groups: make(map[string][]string, len(groups)),
	}
	maps.Copy(m.names, names)
	for k, v := range groups {
		m.groups[k] = slices.Clone(v)
	}
	return m
}

// Set stores a groupless value.
func (m *Map) Set(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[name] = value
}

// SetGroup replaces a grouped list.
func (m *Map) SetGroup(group string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group] = slices.Clone(values)
}

// Append adds values to the end of a grouped list.
func (m *Map) Append(group string, values ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[group] = append(m.groups[group], values...)
}

// Merge copies every name and group of other into m, overwriting on conflict.
func (m *Map) Merge(other *Map) {
	other.mu.RLock()
	names := maps.Clone(other.names)
	groups := make(map[string][]string, len(other.groups))
	for k, v := range other.groups {
		groups[k] = slices.Clone(v)
	}
	other.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.names, names)
	maps.Copy(m.groups, groups)
}

// Names returns a copy of all groupless values.
func (m *Map) Names() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.names)
}

// Len returns the number of names plus the number of groups.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names) + len(m.groups)
}

// LookupName implements stencil.Resolver.
func (m *Map) LookupName(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.names[name]
	return v, ok
}

// LookupGroup implements stencil.Resolver. Out of range indices report no value.
func (m *Map) LookupGroup(group string, index int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list, ok := m.groups[group]
	if !ok || index < 0 || index >= len(list) {
		return "", false
	}
	return list[index], true
}

// FromValue builds a Map from a decoded YAML or JSON mapping.
// Scalars become names, lists of scalars become groups, and nested mappings
// are flattened with "_" between keys. A list holding any mapping or list is
// flattened element by element with the index as a key segment (items_0_name,
// items_1), so indices always match the source.
//
// Keys are walked in sorted order. When two paths flatten to the same name,
// the one with fewer segments wins, so a literal a_b beats a: {b: ...}.
// Between equally deep paths the first in sorted order wins.
func FromValue(data map[string]any) *Map {
	f := flattener{m: NewMap(nil, nil), depth: make(map[string]int)}
	f.mapping("", 0, data)
	return f.m
}

type flattener struct {
	m *Map
	// depth of the path that currently owns a name ("n:") or group ("g:").
	depth map[string]int
}

// claim reports whether a path of the given depth may set key.
func (f *flattener) claim(key string, depth int) bool {
	if d, ok := f.depth[key]; ok && d <= depth {
		return false
	}
	f.depth[key] = depth
	return true
}

func (f *flattener) mapping(prefix string, depth int, data map[string]any) {
	for _, key := range slices.Sorted(maps.Keys(data)) {
		name, d := key, depth
		if prefix != "" {
			name, d = prefix+"_"+key, depth+1
		}
		f.value(name, d, data[key])
	}
}

func (f *flattener) value(name string, depth int, val any) {
	switch v := val.(type) {
	case map[string]any:
		f.mapping(name, depth, v)
	case []any:
		if !scalarList(v) {
			for i, elem := range v {
				f.value(name+"_"+strconv.Itoa(i), depth+1, elem)
			}
			return
		}
		if len(v) > 0 && f.claim("g:"+name, depth) {
			list := make([]string, len(v))
			for i, elem := range v {
				list[i] = FormatValue(elem)
			}
			f.m.groups[name] = list
		}
	default:
		if f.claim("n:"+name, depth) {
			f.m.names[name] = FormatValue(v)
		}
	}
}

func scalarList(list []any) bool {
	for _, elem := range list {
		switch elem.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

// FormatValue converts a decoded scalar to its string representation.
// nil becomes the empty string.
func FormatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
