// Package dto contains data transfer objects for application layer use cases.
package dto

// CheckClassListRequest encapsulates all inputs needed to check a class list.
type CheckClassListRequest struct {
	ClassListPath string
	Metadata      RequestMetadata
	Filters       FilterOptions
	Resolution    ResolutionOptions
	Release       ReleaseOptions

	// FailFast stops checking at the first failing entry.
	FailFast bool
}

// FilterOptions defines filters for entry selection.
type FilterOptions struct {
	FilterExpression string
	Packages         []string
	SourceOnly       bool
}

// ResolutionOptions controls how classes are located and loaded.
type ResolutionOptions struct {
	// Classpath is searched, in order, for entries without a source.
	Classpath []string

	// Workers limits concurrent class resolution (0 = engine default)
	Workers int
}

// ReleaseOptions constrains the class file versions that are accepted.
type ReleaseOptions struct {
	// Constraint is a semver constraint over Java releases, e.g. ">= 8".
	Constraint string

	// Strict turns constraint misses into failures.
	Strict bool
}

// RequestMetadata contains metadata for request tracking.
type RequestMetadata struct {
	// RequestID uniquely identifies this request
	RequestID string
}

// ParseClassListRequest encapsulates inputs for parsing a class list.
type ParseClassListRequest struct {
	ClassListPath string
	Filters       FilterOptions
}
