package stencil

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// StampValue stamps every string found in a decoded JSON or YAML value.
// Maps and slices are copied, map keys are left as they are and non-string
// scalars are returned unchanged. The first failure aborts the walk and its
// error names the path of the offending string. Map keys are visited in
// sorted order, so the reported path is stable.
func (e *Engine) StampValue(data any) (any, error) {
	return e.stampValue(data, "$")
}

func (e *Engine) stampValue(data any, path string) (any, error) {
	switch v := data.(type) {
	case string:
		out, err := e.Stamp(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return out, nil
	case map[string]any:
		result := make(map[string]any, len(v))
		for _, key := range slices.Sorted(maps.Keys(v)) {
			out, err := e.stampValue(v[key], path+"."+key)
			if err != nil {
				return nil, err
			}
			result[key] = out
		}
		return result, nil
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			out, err := e.stampValue(val, path+"["+strconv.Itoa(i)+"]")
			if err != nil {
				return nil, err
			}
			result[i] = out
		}
		return result, nil
	default:
		return data, nil
	}
}
