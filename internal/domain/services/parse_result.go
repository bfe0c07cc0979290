package services

import "github.com/reglet-dev/classlist/internal/domain/entities"

// ParseResult is the outcome of phase 1 over one class list: every
// accepted record, the registry that resolved their ids, and any '@'
// directives.
type ParseResult struct {
	Registry   *Registry
	Path       string
	Entries    []*entities.ClassListEntry
	Directives []entities.AtDirective
	Lines      int
}

// IDCount returns the number of entries that declared an id.
func (r *ParseResult) IDCount() int {
	if r.Registry == nil {
		return 0
	}
	return len(r.Registry.IDs())
}
