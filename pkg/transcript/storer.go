package transcript

import "context"

// Storer persists and retrieves transcript entries. Deduplication
// happens automatically via content-addressing: recording the same
// conversation twice produces the same hashes, and implementations
// treat a duplicate Put as a no-op.
type Storer interface {
	// Put stores an entry. If the entry already exists (by hash), this
	// is a no-op.
	Put(ctx context.Context, e *Entry) error

	// Get retrieves an entry by its hash. Returns ErrNotFound if the
	// entry doesn't exist.
	Get(ctx context.Context, hash string) (*Entry, error)

	// Has checks if an entry exists by its hash.
	Has(ctx context.Context, hash string) (bool, error)

	// List returns all entries in the store.
	List(ctx context.Context) ([]*Entry, error)

	// Heads returns all entries with no children — the latest turn of
	// each recorded conversation.
	Heads(ctx context.Context) ([]*Entry, error)

	// History returns the conversation ending at hash, in chronological
	// order (first turn first, the requested entry last).
	History(ctx context.Context, hash string) ([]*Entry, error)

	// Close closes the store and releases any resources.
	Close() error
}

// ErrNotFound is returned when an entry doesn't exist in the store.
type ErrNotFound struct {
	Hash string
}

func (e ErrNotFound) Error() string {
	if e.Hash == "" {
		return "entry not found"
	}

	return "entry not found: " + e.Hash
}
