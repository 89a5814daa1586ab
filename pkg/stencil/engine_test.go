package stencil

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// testVars is a map-backed Resolver used throughout these tests.
type testVars struct {
	names  map[string]string
	groups map[string][]string
}

func (v testVars) LookupName(name string) (string, bool) {
	val, ok := v.names[name]
	return val, ok
}

func (v testVars) LookupGroup(group string, index int) (string, bool) {
	list, ok := v.groups[group]
	if !ok || index >= len(list) {
		return "", false
	}
	return list[index], true
}

func newTestVars() testVars {
	return testVars{
		names: map[string]string{
			"abc":     "123",
			"efg":     "456",
			"hij":     "789",
			"Weather": "wax",
			"Rince":   "wind",
		},
		groups: map[string][]string{
			"lean":          {"delete", "simplify", "automate"},
			"powerTriangle": {"power", "root", "log"},
		},
	}
}

// engines returns a batch and an incremental engine over the same variables.
// The incremental engine only understands groupless placeholders.
func engines(r Resolver, opts ...Option) map[string]*Engine {
	return map[string]*Engine{
		"batch":       New(r, opts...),
		"incremental": NewIncremental(nil, r, opts...),
	}
}

// =============================================================================
// Groupless Templates
// =============================================================================

func TestStamp_Groupless(t *testing.T) {
	tests := []struct {
		name     string
		stencil  string
		expected string
	}{
		{"no templates", "expected", "expected"},
		{"empty", "", ""},
		{"solo", "${abc}", "123"},
		{"with prefix", "tiger ${abc}", "tiger 123"},
		{"with suffix", "${abc} lion", "123 lion"},
		{"prefix and suffix", "tiger ${abc} lion", "tiger 123 lion"},
		{"multiple", "${abc}${efg}${hij}", "123456789"},
		{"multiple with text", "${abc} tiger ${efg} lynx ${hij}", "123 tiger 456 lynx 789"},
		{"same name twice", "${abc}_${abc}", "123_123"},
		{"weather", "${Weather}", "wax"},
		{"weather and rince", "${Weather}${Rince}", "waxwind"},
		{"no end bracket", "${abc", "${abc"},
		{"space inside", "${abc efg}", "${abc efg}"},
		{"no dollar", "{abc}", "{abc}"},
		{"wrong brackets", "$(abc)", "$(abc)"},
		{"empty name", "${}", "${}"},
	}

	for engineName, engine := range engines(newTestVars()) {
		for _, tt := range tests {
			t.Run(engineName+"/"+tt.name, func(t *testing.T) {
				result, err := engine.Stamp(tt.stencil)
				if err != nil {
					t.Fatalf("Stamp(%q) error = %v", tt.stencil, err)
				}
				if result != tt.expected {
					t.Errorf("Stamp(%q) = %q, want %q", tt.stencil, result, tt.expected)
				}
			})
		}
	}
}

func TestStamp_GrouplessNotFound(t *testing.T) {
	for engineName, engine := range engines(newTestVars()) {
		t.Run(engineName, func(t *testing.T) {
			res := engine.SafeStamp("${tiger}")
			require.False(t, res.OK())
			assert.Empty(t, res.Value())

			var unresolved *UnresolvedVariableError
			require.ErrorAs(t, res.Err(), &unresolved)
			assert.Equal(t, "tiger", unresolved.Name)
			assert.Equal(t, "${tiger}", unresolved.Placeholder)
			assert.ErrorIs(t, res.Err(), ErrUnresolved)
		})
	}
}

func TestStamp_NothingResolves(t *testing.T) {
	none := NameFunc(func(string) (string, bool) { return "", false })
	for engineName, engine := range engines(none) {
		t.Run(engineName, func(t *testing.T) {
			res := engine.SafeStamp("${x}")
			assert.False(t, res.OK())
			assert.ErrorIs(t, res.Err(), ErrUnresolved)
		})
	}
}

func TestStamp_NoPartialResult(t *testing.T) {
	engine := New(newTestVars())

	out, err := engine.Stamp("${abc} ${missing} ${efg}")
	require.Error(t, err)
	assert.Empty(t, out, "strict stamp must not return a partial string")

	res := engine.SafeStamp("${lean:0} ${missing}")
	assert.False(t, res.OK())
	assert.Equal(t, "fallback", res.ValueOr("fallback"))
}

// =============================================================================
// Grouped Templates
// =============================================================================

func TestStamp_Grouped(t *testing.T) {
	engine := New(newTestVars())

	tests := []struct {
		name     string
		stencil  string
		expected string
	}{
		{"solo", "${lean:0}", "delete"},
		{"with prefix", "tiger ${lean:0}", "tiger delete"},
		{"with suffix", "${lean:0} lynx", "delete lynx"},
		{"prefix and suffix", "tiger ${lean:0} lynx", "tiger delete lynx"},
		{"multiple", "${powerTriangle:0}${powerTriangle:1}${powerTriangle:2}", "powerrootlog"},
		{"multiple with text", "${lean:1} tiger ${powerTriangle:1} lynx ${powerTriangle:2}", "simplify tiger root lynx log"},
		{"mixed with groupless", "${abc}-${lean:2}-${efg}", "123-automate-456"},
		{"no end bracket", "${lean:0", "${lean:0"},
		{"bad index", "${lean:1bad}", "${lean:1bad}"},
		{"negative index", "${lean:-1}", "${lean:-1}"},
		{"digits in group", "${lean2:0}", "${lean2:0}"},
		{"index overflows int", "${lean:99999999999999999999999}", "${lean:99999999999999999999999}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Stamp(tt.stencil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestStamp_GroupedNotFound(t *testing.T) {
	engine := New(newTestVars())

	tests := []struct {
		name    string
		stencil string
		group   string
		index   int
	}{
		{"unknown group", "${tiger:0}", "tiger", 0},
		{"index too big", "${lean:999}", "lean", 999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := engine.SafeStamp(tt.stencil)
			require.False(t, res.OK())

			var unresolved *UnresolvedGroupedVariableError
			require.ErrorAs(t, res.Err(), &unresolved)
			assert.Equal(t, tt.group, unresolved.Group)
			assert.Equal(t, tt.index, unresolved.Index)
			assert.ErrorIs(t, res.Err(), ErrUnresolved)
		})
	}
}

// =============================================================================
// Fixpoint
// =============================================================================

func TestStamp_NestedValues(t *testing.T) {
	vars := testVars{
		names: map[string]string{
			"greeting": "hello ${who}",
			"who":      "${lean:1} world",
			"prefix":   "pre",
			"pre_fix":  "joined",
		},
		groups: map[string][]string{
			"lean":  {"delete", "simplify"},
			"links": {"${greeting}"},
		},
	}

	t.Run("batch", func(t *testing.T) {
		engine := New(vars)
		out, err := engine.Stamp("${greeting}!")
		require.NoError(t, err)
		assert.Equal(t, "hello simplify world!", out)

		out, err = engine.Stamp("${links:0}")
		require.NoError(t, err)
		assert.Equal(t, "hello simplify world", out)
	})

	t.Run("placeholder assembled from values", func(t *testing.T) {
		engine := New(vars)
		out, err := engine.Stamp("$${open}${prefix}_fix}")
		require.Error(t, err, "open is not defined")
		assert.Empty(t, out)

		vars.names["open"] = "{"
		out, err = engine.Stamp("$${open}${prefix}_fix}")
		require.NoError(t, err)
		assert.Equal(t, "joined", out)
	})

	t.Run("incremental", func(t *testing.T) {
		engine := NewIncremental(nil, testVars{names: map[string]string{
			"a": "<${b}>",
			"b": "${c}${c}",
			"c": "z",
		}})
		out, err := engine.Stamp("${a}")
		require.NoError(t, err)
		assert.Equal(t, "<zz>", out)
	})
}

func TestStamp_IterationLimit(t *testing.T) {
	cyclic := testVars{
		names: map[string]string{
			"self": "again ${self}",
			"ping": "${pong}",
			"pong": "${ping}",
		},
		groups: map[string][]string{
			"loop": {"${loop:0}"},
		},
	}

	for engineName, engine := range engines(cyclic, WithMaxIterations(10)) {
		for _, stencil := range []string{"${self}", "${ping}"} {
			t.Run(engineName+"/"+stencil, func(t *testing.T) {
				res := engine.SafeStamp(stencil)
				require.False(t, res.OK())
				assert.ErrorIs(t, res.Err(), ErrIterationLimitExceeded)

				var limitErr *IterationLimitError
				require.ErrorAs(t, res.Err(), &limitErr)
				assert.GreaterOrEqual(t, limitErr.Limit, 10)
			})
		}
	}

	t.Run("grouped cycle", func(t *testing.T) {
		res := New(cyclic, WithMaxIterations(3)).SafeStamp("${loop:0}")
		assert.ErrorIs(t, res.Err(), ErrIterationLimitExceeded)
	})
}

func TestStamp_IterationLimitExactFit(t *testing.T) {
	// Each pass uncovers one more level; three levels need three passes.
	vars := testVars{names: map[string]string{"a": "${b}", "b": "${c}", "c": "done"}}

	out, err := New(vars, WithMaxIterations(3)).Stamp("${a}")
	require.NoError(t, err)
	assert.Equal(t, "done", out)

	_, err = New(vars, WithMaxIterations(2)).Stamp("${a}")
	assert.ErrorIs(t, err, ErrIterationLimitExceeded)
}

func TestStamp_IncrementalManyFlatPlaceholders(t *testing.T) {
	stencil := strings.Repeat("${abc}", DefaultMaxIterations*2)
	out, err := NewIncremental(nil, newTestVars()).Stamp(stencil)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("123", DefaultMaxIterations*2), out)
}

func TestWithMaxIterations_IgnoresNonPositive(t *testing.T) {
	assert.Equal(t, DefaultMaxIterations, New(newTestVars(), WithMaxIterations(0)).MaxIterations())
	assert.Equal(t, DefaultMaxIterations, New(newTestVars(), WithMaxIterations(-5)).MaxIterations())
	assert.Equal(t, 7, New(newTestVars(), WithMaxIterations(7)).MaxIterations())
}

// =============================================================================
// Incremental Patterns
// =============================================================================

func TestIncremental_CustomPattern(t *testing.T) {
	vars := testVars{names: map[string]string{"user": "ada", "item": "two words", "{{user}}": "whole"}}

	tests := []struct {
		name         string
		expr         string
		keyGroup     int
		replaceGroup int
		stencil      string
		expected     string
	}{
		{"mustache whole match", `\{\{\s*(\w+)\s*\}\}`, 1, 0, "hi {{ user }}!", "hi ada!"},
		{"key is whole match", `\{\{user\}\}`, 0, 0, "x{{user}}x", "xwholex"},
		{"replace inner group only", `<(\w+)>`, 1, 1, "<item>", "<two words>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := New(vars, WithPattern(tt.expr, tt.keyGroup, tt.replaceGroup))
			assert.Equal(t, StrategyIncremental, engine.Strategy())

			out, err := engine.Stamp(tt.stencil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestIncremental_InsufficientCaptureGroups(t *testing.T) {
	called := false
	vars := NameFunc(func(string) (string, bool) {
		called = true
		return "x", true
	})

	engine := New(vars, WithPattern(`\$\{(\w+)\}`, 2, 0))
	res := engine.SafeStamp("${abc}")
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err(), ErrInsufficientCaptureGroups)
	assert.False(t, called, "resolver must not be consulted for an invalid pattern")

	var patternErr *PatternError
	require.ErrorAs(t, res.Err(), &patternErr)
	assert.Equal(t, 2, patternErr.Required)
	assert.Equal(t, 1, patternErr.Have)

	// Even a stencil without placeholders fails.
	_, err := engine.Stamp("plain")
	assert.ErrorIs(t, err, ErrInsufficientCaptureGroups)

	_, err = engine.Scan("${abc}")
	assert.ErrorIs(t, err, ErrInsufficientCaptureGroups)
}

func TestNewPattern(t *testing.T) {
	tests := []struct {
		name         string
		expr         string
		keyGroup     int
		replaceGroup int
		wantErr      error
	}{
		{"whole match", `\$\w+`, 0, 0, nil},
		{"enough groups", `(a)(b)`, 2, 1, nil},
		{"key group missing", `(a)`, 2, 0, ErrInsufficientCaptureGroups},
		{"replace group missing", `(a)`, 0, 3, ErrInsufficientCaptureGroups},
		{"no groups at all", `abc`, 1, 0, ErrInsufficientCaptureGroups},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPattern(tt.expr, tt.keyGroup, tt.replaceGroup)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expr, p.String())
			assert.Equal(t, tt.keyGroup, p.KeyGroup())
			assert.Equal(t, tt.replaceGroup, p.ReplaceGroup())
		})
	}

	t.Run("invalid regexp", func(t *testing.T) {
		_, err := NewPattern(`(`, 0, 0)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInsufficientCaptureGroups)
	})

	t.Run("negative group", func(t *testing.T) {
		_, err := NewPattern(`(a)`, -1, 0)
		require.Error(t, err)
	})

	t.Run("must pattern panics", func(t *testing.T) {
		assert.Panics(t, func() { MustPattern(`x`, 1, 0) })
	})
}

// =============================================================================
// Calling Conventions
// =============================================================================

func TestMustStamp(t *testing.T) {
	engine := New(newTestVars())
	assert.Equal(t, "waxwind", engine.MustStamp("${Weather}${Rince}"))
	assert.Panics(t, func() { engine.MustStamp("${nope}") })
}

func TestStampContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(newTestVars()).StampContext(ctx, "${abc}")
	assert.ErrorIs(t, err, context.Canceled)

	// Stencils without placeholders still need one scan, which is skipped too.
	_, err = New(newTestVars()).StampContext(ctx, "plain")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNilResolver(t *testing.T) {
	_, err := New(nil).Stamp("${abc}")
	assert.ErrorIs(t, err, ErrNoResolver)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyBatch, s)

	s, err = ParseStrategy("incremental")
	require.NoError(t, err)
	assert.Equal(t, StrategyIncremental, s)

	_, err = ParseStrategy("greedy")
	assert.Error(t, err)
}

func TestEngine_LogsPasses(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(newTestVars(), WithLogger(logger)).Stamp("${abc} ${lean:0}")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "stencil pass")
	assert.Contains(t, out, "grouped=1")
	assert.Contains(t, out, "groupless=1")
}

func TestEngine_LogsFailureWithTruncatedStencil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	long := "${missing}" + strings.Repeat("x", 1000)
	_, err := New(newTestVars(), WithLogger(logger)).Stamp(long)
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, "stamp failed")
	assert.Contains(t, out, "level=DEBUG", "failures are returned, so the engine only logs them at debug")
	assert.Contains(t, out, "...(truncated)")
	assert.NotContains(t, out, strings.Repeat("x", 1000))
}

func TestEngine_ConcurrentUse(t *testing.T) {
	engine := New(newTestVars())
	done := make(chan error, 8)
	for range 8 {
		go func() {
			for range 100 {
				out, err := engine.Stamp("${abc}${lean:2}")
				if err == nil && out != "123automate" {
					err = errors.New("unexpected output " + out)
				}
				if err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for range 8 {
		assert.NoError(t, <-done)
	}
}
