package core

import "context"

// Repository defines the contract for storing raw artifact payloads.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (Filesystem, Redis, SQL).
type Repository interface {
	// Save overwrites the payload stored under key. Readers never observe a partial write.
	Save(ctx context.Context, key string, data []byte) error

	// Get retrieves the payload stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys matching a doublestar pattern, sorted.
	List(ctx context.Context, pattern string) ([]string, error)

	// Delete removes the payload stored under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Initialize ensures the underlying storage is ready (e.g., create directories, schema migration).
	Initialize(ctx context.Context) error
}

// Watchable is implemented by repositories that can report external changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
