// Package services contains domain services for the class list domain.
package services

import (
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// Registry maps declared class ids to their entries. It is built one line
// at a time in file order and only ever grows; an id can be referenced
// only after the line declaring it has been registered.
type Registry struct {
	byID    map[int]*entities.ClassListEntry
	order   []int                      // declared ids, in declaration order
	entries []*entities.ClassListEntry // every accepted entry, with or without id
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[int]*entities.ClassListEntry),
	}
}

// Register validates a parsed line against the registry and, on success,
// records it. The checks run in a fixed order so that a line violating
// several rules always reports the same message.
func (r *Registry) Register(p *entities.ParsedLine) (*entities.ClassListEntry, error) {
	if err := checkSourceCoupling(p); err != nil {
		return nil, err
	}

	if p.ID.IsSpecified() {
		if _, exists := r.byID[p.ID.Int()]; exists {
			err := entities.NewFormatError(entities.ErrDuplicatedID, p.Line, p.Pos.ID)
			err.Value = int64(p.ID.Int())
			err.ClassName = p.Name.String()
			return nil, err
		}
	}

	if p.Super.IsSpecified() {
		if _, ok := r.byID[p.Super.Int()]; !ok {
			err := entities.NewFormatError(entities.ErrSuperNotLoaded, p.Line, p.Pos.Super)
			err.Value = int64(p.Super.Int())
			return nil, err
		}
	}

	for i, iid := range p.Interfaces {
		if _, ok := r.byID[iid.Int()]; !ok {
			err := entities.NewFormatError(entities.ErrInterfaceNotLoaded, p.Line, columnAt(p.Pos.Interfaces, i))
			err.Value = int64(iid.Int())
			return nil, err
		}
	}

	entry := entities.NewClassListEntry(p)
	if entry.HasID() {
		r.byID[entry.ID.Int()] = entry
		r.order = append(r.order, entry.ID.Int())
	}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func checkSourceCoupling(p *entities.ParsedLine) error {
	switch {
	case p.HasSource && !p.ID.IsSpecified():
		return entities.NewFormatError(entities.ErrSourceWithoutID, p.Line, p.Pos.Source)
	case p.HasSource && !p.Super.IsSpecified():
		return entities.NewFormatError(entities.ErrSourceWithoutSuper, p.Line, p.Pos.Source)
	case !p.HasSource && p.Super.IsSpecified():
		return entities.NewFormatError(entities.ErrSuperWithoutSource, p.Line, p.Pos.Super)
	case !p.HasSource && len(p.Interfaces) > 0:
		return entities.NewFormatError(entities.ErrInterfacesWithoutSource, p.Line, columnAt(p.Pos.Interfaces, 0))
	}
	return nil
}

func columnAt(cols []int, i int) int {
	if i < len(cols) {
		return cols[i]
	}
	return 0
}

// Lookup returns the entry declared with the given id.
func (r *Registry) Lookup(id values.ClassID) (*entities.ClassListEntry, bool) {
	if !id.IsSpecified() {
		return nil, false
	}
	e, ok := r.byID[id.Int()]
	return e, ok
}

// Entries returns every registered entry in file order.
func (r *Registry) Entries() []*entities.ClassListEntry {
	out := make([]*entities.ClassListEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// IDs returns the declared ids in declaration order.
func (r *Registry) IDs() []int {
	out := make([]int, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
