package repository

import (
	"context"
	"errors"
	"time"

	"vantage/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// DefaultActionLimit caps action listings when no limit is given
const DefaultActionLimit = 50

// ActionFilter narrows an action listing. Empty fields match everything.
type ActionFilter struct {
	DomainID string
	ToolID   string
	Session  string
	Kind     domain.ActionKind
	Limit    int
}

// Repository defines the interface for dashboard state persistence
type Repository interface {
	// Memoized fallback seeds
	GetSeed(ctx context.Context, session string, key domain.ViewKey) (uint64, bool, error)
	PutSeed(ctx context.Context, session string, key domain.ViewKey, seed uint64) (uint64, error)
	DeleteSeeds(ctx context.Context, session string) (int64, error)
	PruneSeeds(ctx context.Context, before time.Time) (int64, error)
	CountSeeds(ctx context.Context) (int64, error)

	// Header action log
	RecordAction(ctx context.Context, ev *domain.ActionEvent) error
	GetAction(ctx context.Context, id string) (*domain.ActionEvent, error)
	ListActions(ctx context.Context, filter ActionFilter) ([]domain.ActionEvent, error)

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error

	// Close releases resources
	Close() error
}
