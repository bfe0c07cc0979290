// Package checking provides the domain model for class list check results.
package checking

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one reported problem, positioned in the class list.
type Diagnostic struct {
	Severity  Severity          `json:"severity" yaml:"severity"`
	Kind      string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Category  entities.Category `json:"category,omitempty" yaml:"category,omitempty"`
	Message   string            `json:"message" yaml:"message"`
	ClassName string            `json:"class,omitempty" yaml:"class,omitempty"`
	Line      int               `json:"line,omitempty" yaml:"line,omitempty"`
	Column    int               `json:"column,omitempty" yaml:"column,omitempty"`
}

// NewErrorDiagnostic converts err into a diagnostic. Format errors keep
// their kind and position.
func NewErrorDiagnostic(err error) Diagnostic {
	var fe *entities.FormatError
	if errors.As(err, &fe) {
		return Diagnostic{
			Severity: SeverityError,
			Kind:     fe.Kind.String(),
			Category: fe.Category(),
			Message:  fe.Message(),
			Line:     fe.Line,
			Column:   fe.Column,
		}
	}
	return Diagnostic{Severity: SeverityError, Message: err.Error()}
}

// NewWarning creates a warning diagnostic for a class on a line.
func NewWarning(line int, className, message string) Diagnostic {
	return Diagnostic{
		Severity:  SeverityWarning,
		Message:   message,
		ClassName: className,
		Line:      line,
	}
}

// IsError reports whether the diagnostic is an error.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// EntryResult is the outcome of checking one class list entry.
type EntryResult struct {
	Entry       *entities.ClassListEntry    `json:"entry" yaml:"entry"`
	Resolved    *entities.ResolvedClassInfo `json:"resolved,omitempty" yaml:"resolved,omitempty"`
	Status      values.Status               `json:"status" yaml:"status"`
	SkipReason  string                      `json:"skip_reason,omitempty" yaml:"skip_reason,omitempty"`
	Diagnostics []Diagnostic                `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Index       int                         `json:"index" yaml:"index"`
	Duration    time.Duration               `json:"duration_ms" yaml:"duration_ms"`
}

// Name returns the class name of the entry.
func (r EntryResult) Name() string {
	if r.Entry == nil {
		return ""
	}
	return r.Entry.Name.String()
}

// Message returns the first diagnostic message, if any.
func (r EntryResult) Message() string {
	if len(r.Diagnostics) == 0 {
		return r.SkipReason
	}
	return r.Diagnostics[0].Message
}

// ResultSummary provides aggregate statistics about a check.
type ResultSummary struct {
	TotalEntries   int `json:"total_entries" yaml:"total_entries"`
	PassedEntries  int `json:"passed_entries" yaml:"passed_entries"`
	FailedEntries  int `json:"failed_entries" yaml:"failed_entries"`
	ErrorEntries   int `json:"error_entries" yaml:"error_entries"`
	SkippedEntries int `json:"skipped_entries" yaml:"skipped_entries"`
	Errors         int `json:"errors" yaml:"errors"`
	Warnings       int `json:"warnings" yaml:"warnings"`
}

// CheckResult is the complete result of checking a class list.
type CheckResult struct {
	StartTime     time.Time              `json:"start_time" yaml:"start_time"`
	EndTime       time.Time              `json:"end_time" yaml:"end_time"`
	ToolVersion   string                 `json:"classlist_version,omitempty" yaml:"classlist_version,omitempty"`
	ClassListPath string                 `json:"class_list" yaml:"class_list"`
	Entries       []EntryResult          `json:"entries" yaml:"entries"`
	Diagnostics   []Diagnostic           `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Directives    []entities.AtDirective `json:"directives,omitempty" yaml:"directives,omitempty"`
	Summary       ResultSummary          `json:"summary" yaml:"summary"`
	Duration      time.Duration          `json:"duration_ms" yaml:"duration_ms"`
	mu            sync.Mutex
	RunID         values.RunID `json:"run_id" yaml:"run_id"`
}

// NewCheckResult creates a result for the class list at path.
func NewCheckResult(path string) *CheckResult {
	return NewCheckResultWithID(values.NewRunID(), path)
}

// NewCheckResultWithID creates a result with a specific run ID.
func NewCheckResultWithID(id values.RunID, path string) *CheckResult {
	return &CheckResult{
		RunID:         id,
		ClassListPath: path,
		StartTime:     time.Now(),
		Entries:       make([]EntryResult, 0),
	}
}

// AddEntryResult records the outcome of one entry.
// Thread-safe for concurrent calls.
func (r *CheckResult) AddEntryResult(er EntryResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, er)
}

// AddDiagnostic records a diagnostic not tied to a single entry, such as a
// phase-1 format error.
func (r *CheckResult) AddDiagnostic(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Diagnostics = append(r.Diagnostics, d)
}

// AllDiagnostics returns result-level diagnostics followed by the
// diagnostics of each entry in file order.
func (r *CheckResult) AllDiagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Diagnostic, 0, len(r.Diagnostics))
	out = append(out, r.Diagnostics...)
	for _, e := range r.Entries {
		out = append(out, e.Diagnostics...)
	}
	return out
}

// Finalize completes the result and calculates the summary.
// Entries are sorted by their position in the class list.
func (r *CheckResult) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	sort.SliceStable(r.Entries, func(i, j int) bool {
		return r.Entries[i].Index < r.Entries[j].Index
	})

	r.calculateSummary()
}

func (r *CheckResult) calculateSummary() {
	r.Summary = ResultSummary{
		TotalEntries: len(r.Entries),
	}

	count := func(d Diagnostic) {
		if d.IsError() {
			r.Summary.Errors++
		} else {
			r.Summary.Warnings++
		}
	}
	for _, d := range r.Diagnostics {
		count(d)
	}

	for _, e := range r.Entries {
		switch e.Status {
		case values.StatusPass:
			r.Summary.PassedEntries++
		case values.StatusFail:
			r.Summary.FailedEntries++
		case values.StatusError:
			r.Summary.ErrorEntries++
		case values.StatusSkipped:
			r.Summary.SkippedEntries++
		}
		for _, d := range e.Diagnostics {
			count(d)
		}
	}
}

// HasFailures reports whether the check found any error.
func (r *CheckResult) HasFailures() bool {
	return r.Summary.Errors > 0 || r.Summary.FailedEntries > 0 || r.Summary.ErrorEntries > 0
}

// FirstError returns the first error diagnostic in report order.
func (r *CheckResult) FirstError() (Diagnostic, bool) {
	for _, d := range r.AllDiagnostics() {
		if d.IsError() {
			return d, true
		}
	}
	return Diagnostic{}, false
}
