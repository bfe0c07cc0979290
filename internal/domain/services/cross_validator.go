package services

import (
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// CrossValidator compares what a class list entry declares about its
// hierarchy with what the class file actually contains.
type CrossValidator struct {
	registry *Registry
}

// NewCrossValidator creates a validator resolving ids through reg.
func NewCrossValidator(reg *Registry) *CrossValidator {
	return &CrossValidator{registry: reg}
}

// Validate checks entry against the loaded class. Entries without a source
// location are loaded from the default path and declare nothing to check.
func (v *CrossValidator) Validate(entry *entities.ClassListEntry, actual *entities.ResolvedClassInfo) error {
	if !entry.HasSource() {
		return nil
	}

	if !actual.Name.IsEmpty() && !actual.Name.Equals(entry.Name) {
		err := entities.NewFormatError(entities.ErrClassNameMismatch, entry.Line, entry.Pos.Name)
		err.ClassName = entry.Name.String()
		err.ActualName = actual.Name.String()
		return err
	}

	if err := v.validateSuper(entry, actual); err != nil {
		return err
	}
	return v.validateInterfaces(entry, actual)
}

func (v *CrossValidator) validateSuper(entry *entities.ClassListEntry, actual *entities.ResolvedClassInfo) error {
	if !entry.SuperID.IsSpecified() {
		return nil
	}

	declared, ok := v.registry.Lookup(entry.SuperID)
	if !ok {
		err := entities.NewFormatError(entities.ErrSuperNotLoaded, entry.Line, entry.Pos.Super)
		err.Value = int64(entry.SuperID.Int())
		return err
	}

	if !declared.Name.Equals(actual.SuperName) {
		err := entities.NewFormatError(entities.ErrSuperMismatch, entry.Line, entry.Pos.Super)
		err.DeclaredName = declared.Name.String()
		err.Value = int64(entry.SuperID.Int())
		err.ActualName = actual.SuperName.String()
		return err
	}
	return nil
}

func (v *CrossValidator) validateInterfaces(entry *entities.ClassListEntry, actual *entities.ResolvedClassInfo) error {
	col := columnAt(entry.Pos.Interfaces, 0)
	if col == 0 {
		col = entry.Pos.End
	}

	if len(entry.InterfaceIDs) == 0 {
		if len(actual.InterfaceNames) > 0 {
			err := entities.NewFormatError(entities.ErrNoInterfaceSpecified, entry.Line, col)
			err.ClassName = entry.Name.String()
			err.ActualName = actual.InterfaceNames[0].String()
			return err
		}
		return nil
	}

	declared := make([]values.ClassName, 0, len(entry.InterfaceIDs))
	for i, iid := range entry.InterfaceIDs {
		ie, ok := v.registry.Lookup(iid)
		if !ok {
			err := entities.NewFormatError(entities.ErrInterfaceNotLoaded, entry.Line, columnAt(entry.Pos.Interfaces, i))
			err.Value = int64(iid.Int())
			return err
		}
		declared = append(declared, ie.Name)
	}

	names := make(map[string]bool, len(declared))
	for _, n := range declared {
		names[n.String()] = true
	}
	for _, an := range actual.InterfaceNames {
		if !names[an.String()] {
			err := entities.NewFormatError(entities.ErrInterfaceMismatch, entry.Line, col)
			err.ActualName = an.String()
			err.ClassName = entry.Name.String()
			return err
		}
	}

	// Every actual interface is declared; extra or duplicated ids remain.
	if len(declared) != len(actual.InterfaceNames) {
		err := entities.NewFormatError(entities.ErrInterfaceCountMismatch, entry.Line, col)
		err.DeclaredCount = len(declared)
		err.ActualCount = len(actual.InterfaceNames)
		return err
	}
	return nil
}
