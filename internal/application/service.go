package application

import (
	"context"
	"fmt"

	"github.com/clubops/eventwatch/internal/domain"
	"github.com/clubops/eventwatch/internal/ports"
)

const snapshotNameFormat = "200601021504"

// Service wires the event source, the snapshot store, and the clock into the
// compare-and-report flow.
type Service struct {
	events    ports.EventSource
	snapshots ports.SnapshotStore
	clock     ports.Clock
	tag       string
}

func NewService(events ports.EventSource, snapshots ports.SnapshotStore, clock ports.Clock, tag string) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Service{
		events:    events,
		snapshots: snapshots,
		clock:     clock,
		tag:       tag,
	}
}

// LoadSnapshot reads the snapshot at path, or the most recent one in the
// data directory when path is empty.
func (s *Service) LoadSnapshot(ctx context.Context, path string) ([]domain.Event, error) {
	if path == "" {
		latest, err := s.snapshots.Latest(ctx)
		if err != nil {
			return nil, err
		}
		path = latest
	}
	return s.snapshots.Load(ctx, path)
}

// CaptureSnapshot fetches the live event collection and persists it under a
// name derived from the current time.
func (s *Service) CaptureSnapshot(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, err
	}

	name := s.clock.Now().UTC().Format(snapshotNameFormat)
	if _, err := s.snapshots.Save(ctx, name, events); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return events, nil
}

// Report filters both snapshots down to future events carrying the
// configured tag and classifies the differences.
func (s *Service) Report(old, current []domain.Event) ([]domain.ReportEntry, error) {
	now := s.clock.Now()

	oldIdx, err := domain.FilterByTag(old, s.tag, now)
	if err != nil {
		return nil, fmt.Errorf("filter old snapshot: %w", err)
	}
	currentIdx, err := domain.FilterByTag(current, s.tag, now)
	if err != nil {
		return nil, fmt.Errorf("filter new snapshot: %w", err)
	}
	return domain.Diff(oldIdx, currentIdx), nil
}
