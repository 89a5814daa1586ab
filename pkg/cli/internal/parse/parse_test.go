package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyValue(t *testing.T) {
	tests := []struct {
		in        string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{in: "name=world", wantKey: "name", wantValue: "world"},
		{in: " name = spaced", wantKey: "name", wantValue: " spaced"},
		{in: "expr=a=b", wantKey: "expr", wantValue: "a=b"},
		{in: "empty=", wantKey: "empty", wantValue: ""},
		{in: "novalue", wantErr: true},
		{in: "=value", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, v, err := KeyValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, k)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}

func TestKeyValues(t *testing.T) {
	got, err := KeyValues([]string{"a=1", "b=2", "a=3"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, got)

	_, err = KeyValues([]string{"a=1", "broken"})
	assert.Error(t, err)
}

func TestSplitTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitTrim(" a, b ,,c ", ","))
	assert.Nil(t, SplitTrim("", ","))
}
