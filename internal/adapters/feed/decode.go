package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotArray = errors.New("feed body is not a JSON array")

// Decode parses a feed body. The body must be a JSON array (or null, read as
// an empty feed); elements that are not objects are dropped.
func Decode(body []byte) ([]map[string]any, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body: %w", ErrNotArray)
	}
	if bytes.Equal(body, []byte("null")) {
		return []map[string]any{}, nil
	}
	if body[0] != '[' {
		return nil, ErrNotArray
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	out := make([]map[string]any, 0, len(elems))
	for _, e := range elems {
		var m map[string]any
		if err := json.Unmarshal(e, &m); err != nil || m == nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
