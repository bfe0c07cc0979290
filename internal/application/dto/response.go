package dto

import (
	"time"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// CheckClassListResponse contains the result of checking a class list.
type CheckClassListResponse struct {
	// CheckResult contains the detailed per-entry results
	CheckResult *checking.CheckResult

	// Metadata contains response metadata
	Metadata ResponseMetadata
}

// ResponseMetadata contains metadata about the response.
type ResponseMetadata struct {
	// RequestID from the original request
	RequestID string

	// ProcessedAt is when the request was processed
	ProcessedAt time.Time

	// Duration is how long the request took
	Duration time.Duration
}

// ParseClassListResponse contains the entries of a well-formed class list.
type ParseClassListResponse struct {
	ClassListPath string
	Entries       []*entities.ClassListEntry
	Directives    []entities.AtDirective

	// Total counts entries before filtering.
	Total int
	Lines int
}
