package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/babelgo/internal/canon"
)

// marshalOptions converts check options to canonical JSON TEXT for storage,
// so equal options always store as equal text.
func marshalOptions(opts map[string]any) (string, error) {
	if opts == nil {
		opts = map[string]any{}
	}
	data, err := canon.Marshal(normalize(opts))
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

// unmarshalOptions parses stored options JSON.
func unmarshalOptions(s string) (map[string]any, error) {
	var opts map[string]any
	if err := json.Unmarshal([]byte(s), &opts); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	if opts == nil {
		opts = map[string]any{}
	}
	return opts, nil
}

// normalize rewrites YAML-decoded values into the shapes canon.Marshal
// accepts.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = normalize(e)
		}
		return out
	case int32:
		return int64(val)
	case uint64:
		return int64(val)
	case uint:
		return int64(val)
	}
	return v
}
