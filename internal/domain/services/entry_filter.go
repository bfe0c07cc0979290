package services

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// EntryEnv defines the variables available during filter expression evaluation.
// Unspecified ids evaluate to -1.
type EntryEnv struct {
	Name       string `expr:"name"`
	Package    string `expr:"package"`
	Source     string `expr:"source"`
	Interfaces []int  `expr:"interfaces"`
	ID         int    `expr:"id"`
	Super      int    `expr:"super"`
	Line       int    `expr:"line"`
}

// NewEntryEnv builds the evaluation environment for an entry.
func NewEntryEnv(entry *entities.ClassListEntry) EntryEnv {
	env := EntryEnv{
		Name:       entry.Name.String(),
		Source:     entry.Source,
		Interfaces: make([]int, 0, len(entry.InterfaceIDs)),
		ID:         -1,
		Super:      -1,
		Line:       entry.Line,
	}
	if i := strings.LastIndex(env.Name, "/"); i >= 0 {
		env.Package = env.Name[:i]
	}
	if entry.ID.IsSpecified() {
		env.ID = entry.ID.Int()
	}
	if entry.SuperID.IsSpecified() {
		env.Super = entry.SuperID.Int()
	}
	for _, iid := range entry.InterfaceIDs {
		env.Interfaces = append(env.Interfaces, iid.Int())
	}
	return env
}

// CompileFilter compiles a boolean filter expression over EntryEnv.
func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression,
		expr.Env(EntryEnv{}),
		expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// EntryFilter implements entry selection for reporting and checking.
type EntryFilter struct {
	packages      []string
	sourceOnly    bool
	filterProgram *vm.Program
}

// NewEntryFilter initializes a new empty filter.
func NewEntryFilter() *EntryFilter {
	return &EntryFilter{}
}

// WithPackages includes only classes under the given package prefixes.
func (f *EntryFilter) WithPackages(prefixes []string) *EntryFilter {
	f.packages = prefixes
	return f
}

// WithSourceOnly includes only entries that carry a source location.
func (f *EntryFilter) WithSourceOnly(only bool) *EntryFilter {
	f.sourceOnly = only
	return f
}

// WithFilterExpression applies a compiled Expr program for advanced filtering.
func (f *EntryFilter) WithFilterExpression(program *vm.Program) *EntryFilter {
	f.filterProgram = program
	return f
}

// Matches evaluates whether an entry matches the filter criteria.
// It returns true if the entry is selected, along with a reason if not.
func (f *EntryFilter) Matches(entry *entities.ClassListEntry) (bool, string) {
	var specs []EntrySpecification

	if len(f.packages) > 0 {
		specs = append(specs, NewPackageSpecification(f.packages))
	}
	if f.sourceOnly {
		specs = append(specs, SourceOnlySpecification{})
	}
	if f.filterProgram != nil {
		specs = append(specs, NewExpressionSpecification(f.filterProgram))
	}

	return NewAndSpecification(specs...).IsSatisfiedBy(entry)
}

// Apply returns the entries that match, preserving order.
func (f *EntryFilter) Apply(entries []*entities.ClassListEntry) []*entities.ClassListEntry {
	out := make([]*entities.ClassListEntry, 0, len(entries))
	for _, e := range entries {
		if ok, _ := f.Matches(e); ok {
			out = append(out, e)
		}
	}
	return out
}
