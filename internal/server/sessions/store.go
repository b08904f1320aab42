// Package sessions provides the expiring key–value store that holds session
// tokens. The store owns the token lifecycle: entries disappear after their
// TTL and are never renewed.
package sessions

import (
	"context"
	"time"
)

// Store is an expiring key -> value map.
type Store interface {
	// Get returns the stored value, or common.ErrorNotFound when the key is
	// absent or has expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Alive reports whether the store is reachable.
	Alive(ctx context.Context) bool
}
