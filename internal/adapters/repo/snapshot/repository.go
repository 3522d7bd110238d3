package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/clubops/eventwatch/internal/domain"
	"github.com/clubops/eventwatch/internal/logging"
	"github.com/clubops/eventwatch/internal/ports"
)

// Snapshot files are named by a 12-digit YYYYMMDDHHMM capture timestamp, so
// lexicographic order is chronological order.
var snapshotNamePattern = regexp.MustCompile(`^\d{12}\.json$`)

// Repository stores event snapshots as timestamped JSON files in a single
// data directory.
type Repository struct {
	dir string
}

var _ ports.SnapshotStore = (*Repository)(nil)

func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Load reads one snapshot file back into its event sequence.
func (r *Repository) Load(ctx context.Context, path string) ([]domain.Event, error) {
	logging.For(ctx).WithField("path", path).Info("loading snapshot")

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	value, err := domain.ParseJSON(f)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	events, err := domain.EventsFromValue(value)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return events, nil
}

// Latest returns the path of the most recent snapshot by file name.
func (r *Repository) Latest(ctx context.Context) (string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrNoSnapshots
		}
		return "", fmt.Errorf("list snapshot directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !snapshotNamePattern.MatchString(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return "", domain.ErrNoSnapshots
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return filepath.Join(r.dir, names[0]), nil
}

// Save writes events under name, publishing the file only once the full
// snapshot has been written so an interrupted run never leaves a truncated
// snapshot behind.
func (r *Repository) Save(ctx context.Context, name string, events []domain.Event) (string, error) {
	path := filepath.Join(r.dir, name+".json")
	logging.For(ctx).WithField("path", path).Info("writing snapshot")

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}

	items := make([]domain.Value, 0, len(events))
	for _, event := range events {
		items = append(items, domain.ObjectValue(event.Object()))
	}
	encoded, err := json.Marshal(domain.ListValue(items))
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("publish snapshot: %w", err)
	}
	return path, nil
}
