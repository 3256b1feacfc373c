package store

import (
	"context"

	"regdesk/internal/registration/models"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested record does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Store is the persistence interface for registration records. All operations
// are atomic per-record; no cross-record transactions are required.
type Store interface {
	// Create persists a new record, assigning ID, CreatedAt, and UpdatedAt.
	Create(ctx context.Context, reg *models.Registration) error
	FindByID(ctx context.Context, id int64) (*models.Registration, error)
	// Update fully replaces the stored record identified by reg.ID.
	Update(ctx context.Context, reg *models.Registration) error
	Delete(ctx context.Context, id int64) error
	// List returns one page ordered by CreatedAt descending, plus the total
	// number of records matching the filter regardless of pagination.
	List(ctx context.Context, filter models.Filter, page models.Page) ([]*models.Registration, int64, error)
	DistinctStates(ctx context.Context) ([]string, error)
	// DistinctCities is restricted to the given state when state is non-empty.
	DistinctCities(ctx context.Context, state string) ([]string, error)
}
