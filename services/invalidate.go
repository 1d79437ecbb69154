// services/invalidate.go
package services

import (
	"context"
	"log"

	"match-prediction-system/cache"
)

// invalidatePatterns clears cache namespaces after a committed mutation.
// Cache failures are logged and swallowed: staleness is bounded by TTL and
// must never fail the state change that already committed.
func invalidatePatterns(ctx context.Context, store cache.Store, patterns ...string) {
	for _, p := range patterns {
		if err := store.DeleteByPattern(ctx, p); err != nil {
			log.Printf("⚠️ [CACHE] Invalidation failed for %s: %v", p, err)
		}
	}
}
