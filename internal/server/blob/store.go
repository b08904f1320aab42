// Package blob stores file contents under opaque keys. Implementations back
// the keys with local disk or an S3-compatible bucket; metadata records keep
// only the key and resolve it through a Store at read time.
package blob

import "context"

// Store maps blob keys to byte payloads.
type Store interface {
	Write(ctx context.Context, key string, data []byte) error
	// Read returns the payload, or common.ErrorNotFound when no blob exists
	// under key.
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}
