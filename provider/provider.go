package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// DataProvider is a JSON explorer API reachable by path.
type DataProvider interface {
	// Name identifies the provider in logs, metrics and cache keys.
	Name() string

	// Get fetches path and decodes the body into out (which may be nil).
	Get(ctx context.Context, path string, opts Options, out any) error

	// Post sends body as JSON and decodes the response into out (which may be nil).
	Post(ctx context.Context, path string, body any, opts Options, out any) error
}

// Options tunes a single request.
type Options struct {
	// CheckStatus inspects the raw body; false rejects the response.
	CheckStatus func(body []byte) bool

	// CacheTTL > 0 caches a successful GET response for that long.
	CacheTTL time.Duration
}

// HasField returns a CheckStatus predicate requiring a top-level JSON
// object with the named field present and not null.
func HasField(name string) func([]byte) bool {
	return func(body []byte) bool {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return false
		}
		raw, ok := obj[name]
		return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	}
}

// IsArray is a CheckStatus predicate requiring a top-level JSON array.
func IsArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}
