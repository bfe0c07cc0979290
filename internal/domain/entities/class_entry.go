// Package entities contains domain entities for the class list domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// Positions records the 1-based column of each directive value on its line,
// so that later stages can point diagnostics at the offending token.
type Positions struct {
	Interfaces []int `json:"-" yaml:"-"`
	Name       int   `json:"-" yaml:"-"`
	ID         int   `json:"-" yaml:"-"`
	Super      int   `json:"-" yaml:"-"`
	Source     int   `json:"-" yaml:"-"`
	End        int   `json:"-" yaml:"-"`
}

// ParsedLine is the syntactic result of one class list line, before any
// id has been checked against the registry.
type ParsedLine struct {
	Name                values.ClassName
	Source              string
	Interfaces          []values.ClassID
	Pos                 Positions
	ID                  values.ClassID
	Super               values.ClassID
	Line                int
	HasSource           bool
	InterfacesSpecified bool
}

// ClassListEntry is a validated class list record. It is created once the
// line has been accepted by the registry and is never mutated afterwards.
type ClassListEntry struct {
	Name         values.ClassName `json:"name" yaml:"name"`
	Source       string           `json:"source,omitempty" yaml:"source,omitempty"`
	InterfaceIDs []values.ClassID `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Pos          Positions        `json:"-" yaml:"-"`
	ID           values.ClassID   `json:"id" yaml:"id"`
	SuperID      values.ClassID   `json:"super,omitempty" yaml:"super,omitempty"`
	Line         int              `json:"line" yaml:"line"`
}

// NewClassListEntry builds an entry from a parsed line.
func NewClassListEntry(p *ParsedLine) *ClassListEntry {
	ifaces := make([]values.ClassID, len(p.Interfaces))
	copy(ifaces, p.Interfaces)
	return &ClassListEntry{
		Name:         p.Name,
		Source:       p.Source,
		InterfaceIDs: ifaces,
		Pos:          p.Pos,
		ID:           p.ID,
		SuperID:      p.Super,
		Line:         p.Line,
	}
}

// HasID reports whether the entry can be referenced by later lines.
func (e *ClassListEntry) HasID() bool {
	return e.ID.IsSpecified()
}

// HasSource reports whether the class is loaded from an explicit location
// rather than the default class path.
func (e *ClassListEntry) HasSource() bool {
	return e.Source != ""
}

// DeclaresHierarchy reports whether the entry carries super/interface
// declarations that must be cross-checked against the loaded class.
func (e *ClassListEntry) DeclaresHierarchy() bool {
	return e.SuperID.IsSpecified() || len(e.InterfaceIDs) > 0
}

// ResolvedClassInfo is what the class resolution collaborator learned by
// actually reading the class file. SuperName is empty only for
// java/lang/Object.
type ResolvedClassInfo struct {
	Name           values.ClassName   `json:"name" yaml:"name"`
	SuperName      values.ClassName   `json:"super_name" yaml:"super_name"`
	Location       string             `json:"location" yaml:"location"`
	InterfaceNames []values.ClassName `json:"interface_names,omitempty" yaml:"interface_names,omitempty"`
	MajorVersion   uint16             `json:"major_version" yaml:"major_version"`
	MinorVersion   uint16             `json:"minor_version" yaml:"minor_version"`
	AccessFlags    uint16             `json:"access_flags" yaml:"access_flags"`
}

// IsInterface reports whether the resolved class is an interface.
func (r *ResolvedClassInfo) IsInterface() bool {
	return r.AccessFlags&0x0200 != 0
}

// AtDirective is an '@'-prefixed line such as @lambda-proxy or
// @lambda-form-invoker. Its arguments are kept verbatim.
type AtDirective struct {
	Tag  string   `json:"tag" yaml:"tag"`
	Args []string `json:"args" yaml:"args"`
	Line int      `json:"line" yaml:"line"`
}
