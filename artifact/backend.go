package artifact

import "context"

// ObjectInfo is the metadata a stat returns without reading the body.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Backend is the object-storage abstraction the store is built on.
// Implementations must be safe for concurrent use; the store performs no
// locking of its own and relies on a single Put being one atomic object
// write with last-writer-wins semantics.
type Backend interface {
	// EnsureBucket creates the backing bucket if it does not exist yet.
	// Calling it repeatedly is safe.
	EnsureBucket(ctx context.Context) error

	// Put writes data under key as one atomic object write, overwriting
	// any existing object.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get reads the full object at key. Returns ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Stat returns object metadata without reading the body. Returns
	// ErrNotFound if absent.
	Stat(ctx context.Context, key string) (ObjectInfo, error)

	// Delete removes the object at key. Deleting an absent object is not
	// an error.
	Delete(ctx context.Context, key string) error

	// List returns every object key under prefix, recursively.
	List(ctx context.Context, prefix string) ([]string, error)
}
