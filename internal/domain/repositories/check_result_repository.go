// Package repositories defines interfaces for domain persistence.
package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/reglet-dev/classlist/internal/domain/checking"
)

// ErrNotFound is returned by FindByID when no result has the run ID.
var ErrNotFound = errors.New("check result not found")

// CheckResultRepository defines the interface for persisting check results.
type CheckResultRepository interface {
	// Save persists a check result.
	Save(ctx context.Context, result *checking.CheckResult) error

	// FindByID retrieves a check result by its run ID. Returns an error
	// wrapping ErrNotFound when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*checking.CheckResult, error)

	// FindByClassList retrieves recent check results for a class list path,
	// newest first.
	FindByClassList(ctx context.Context, path string, limit int) ([]*checking.CheckResult, error)

	// FindBetween retrieves check results for a class list within a time range.
	FindBetween(ctx context.Context, path string, start, end time.Time) ([]*checking.CheckResult, error)
}
