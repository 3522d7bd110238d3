package ports

import (
	"context"

	"github.com/clubops/eventwatch/internal/domain"
)

// SnapshotStore persists timestamped captures of the event collection.
type SnapshotStore interface {
	// Load reads the snapshot file at path into its event sequence.
	Load(ctx context.Context, path string) ([]domain.Event, error)

	// Latest resolves the path of the most recent snapshot in the store.
	// Returns domain.ErrNoSnapshots when the store is empty.
	Latest(ctx context.Context) (string, error)

	// Save writes events under the given snapshot name and returns the
	// path of the published file.
	Save(ctx context.Context, name string, events []domain.Event) (string, error)
}
