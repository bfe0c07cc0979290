// Package memory provides in-memory implementations of domain repositories.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/repositories"
)

// Ensure interface compliance
var _ repositories.CheckResultRepository = (*CheckResultRepository)(nil)

// CheckResultRepository is an in-memory implementation of
// repositories.CheckResultRepository. Results live for the process lifetime.
type CheckResultRepository struct {
	results map[uuid.UUID]*checking.CheckResult
	mu      sync.RWMutex
}

// NewCheckResultRepository creates a new in-memory repository.
func NewCheckResultRepository() *CheckResultRepository {
	return &CheckResultRepository{
		results: make(map[uuid.UUID]*checking.CheckResult),
	}
}

// Save persists a check result. Callers must not modify it afterwards.
func (r *CheckResultRepository) Save(_ context.Context, result *checking.CheckResult) error {
	if result == nil {
		return fmt.Errorf("cannot save nil check result")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[result.RunID.UUID()] = result
	return nil
}

// FindByID retrieves a check result by its run ID.
func (r *CheckResultRepository) FindByID(_ context.Context, id uuid.UUID) (*checking.CheckResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repositories.ErrNotFound, id)
	}
	return result, nil
}

// FindByClassList retrieves recent check results for a class list.
func (r *CheckResultRepository) FindByClassList(_ context.Context, path string, limit int) ([]*checking.CheckResult, error) {
	matches := r.filter(func(res *checking.CheckResult) bool {
		return res.ClassListPath == path
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// FindBetween retrieves check results for a class list started within [start, end].
func (r *CheckResultRepository) FindBetween(_ context.Context, path string, start, end time.Time) ([]*checking.CheckResult, error) {
	return r.filter(func(res *checking.CheckResult) bool {
		return res.ClassListPath == path &&
			!res.StartTime.Before(start) &&
			!res.StartTime.After(end)
	}), nil
}

// filter returns matching results, newest first.
func (r *CheckResultRepository) filter(match func(*checking.CheckResult) bool) []*checking.CheckResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*checking.CheckResult
	for _, res := range r.results {
		if match(res) {
			matches = append(matches, res)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartTime.After(matches[j].StartTime)
	})
	return matches
}
