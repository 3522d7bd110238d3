package ports

import (
	"context"

	"github.com/clubops/eventwatch/internal/domain"
)

// EventSource provides the live event collection of the authenticated
// account.
type EventSource interface {
	Events(ctx context.Context) ([]domain.Event, error)
}
