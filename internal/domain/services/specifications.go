package services

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// EntrySpecification defines a condition that a class list entry must meet.
type EntrySpecification interface {
	// IsSatisfiedBy checks if the entry meets the specification.
	// Returns true if satisfied, along with a reason if not (or empty if satisfied).
	IsSatisfiedBy(entry *entities.ClassListEntry) (bool, string)
}

// AndSpecification combines multiple specifications with logical AND.
type AndSpecification struct {
	specs []EntrySpecification
}

// NewAndSpecification creates a new AndSpecification.
func NewAndSpecification(specs ...EntrySpecification) *AndSpecification {
	return &AndSpecification{specs: specs}
}

// IsSatisfiedBy checks if all specifications are satisfied.
func (s *AndSpecification) IsSatisfiedBy(entry *entities.ClassListEntry) (bool, string) {
	for _, spec := range s.specs {
		if satisfied, reason := spec.IsSatisfiedBy(entry); !satisfied {
			return false, reason
		}
	}
	return true, ""
}

// PackageSpecification includes only classes under one of the given
// package prefixes (internal form, e.g. "java/lang/").
type PackageSpecification struct {
	prefixes []string
}

// NewPackageSpecification creates a new PackageSpecification.
func NewPackageSpecification(prefixes []string) *PackageSpecification {
	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ReplaceAll(strings.TrimSpace(p), ".", "/")
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	return &PackageSpecification{prefixes: normalized}
}

// IsSatisfiedBy checks if the class name starts with one of the prefixes.
func (s *PackageSpecification) IsSatisfiedBy(entry *entities.ClassListEntry) (bool, string) {
	if len(s.prefixes) == 0 {
		return true, ""
	}
	name := entry.Name.String()
	for _, p := range s.prefixes {
		if strings.HasPrefix(name, p) {
			return true, ""
		}
	}
	return false, "excluded by --package filter"
}

// SourceOnlySpecification includes only entries loaded from an explicit
// source location.
type SourceOnlySpecification struct{}

// IsSatisfiedBy checks if the entry has a source.
func (SourceOnlySpecification) IsSatisfiedBy(entry *entities.ClassListEntry) (bool, string) {
	if entry.HasSource() {
		return true, ""
	}
	return false, "entry has no source location"
}

// ExpressionSpecification filters entries using an expr program.
type ExpressionSpecification struct {
	program *vm.Program
}

// NewExpressionSpecification creates a new ExpressionSpecification.
func NewExpressionSpecification(program *vm.Program) *ExpressionSpecification {
	return &ExpressionSpecification{program: program}
}

// IsSatisfiedBy evaluates the expr program against the entry.
func (s *ExpressionSpecification) IsSatisfiedBy(entry *entities.ClassListEntry) (bool, string) {
	if s.program == nil {
		return true, ""
	}

	output, err := expr.Run(s.program, NewEntryEnv(entry))
	if err != nil {
		return false, fmt.Sprintf("filter expression error: %v", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Sprintf("filter expression did not return boolean: %v", output)
	}

	if !result {
		return false, "excluded by --filter expression"
	}
	return true, ""
}
