// cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Store is the cache collaborator used by the read APIs and every mutation
// path that could leave stale reads behind. Values are stored as JSON;
// correctness relies on explicit DeleteByPattern calls, TTLs only bound the
// damage of a missed invalidation.
type Store interface {
	// Get returns the decoded value for key. A stored value that is not valid
	// JSON comes back as its raw string rather than an error.
	Get(ctx context.Context, key string) (any, bool, error)
	// GetJSON decodes the value for key into dest and reports a hit.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeleteByPattern removes every key matching a Redis-style glob
	// (e.g. "leaderboard:*"). Matching zero keys is a no-op.
	DeleteByPattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, key string) (bool, error)
}

func encode(value any) ([]byte, error) {
	if s, ok := value.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(value)
}

func decode(raw []byte) any {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		// Callers tolerate the raw form for values written by older builds.
		return string(raw)
	}
	return v
}
