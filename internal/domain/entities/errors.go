package entities

import (
	"errors"
	"fmt"
)

// ErrClassNotFound is returned by class resolution when no location holds
// the requested class.
var ErrClassNotFound = errors.New("class not found")

// Category is the coarse classification of a FormatError. Every category
// is fatal for the class list being processed.
type Category string

const (
	CategoryLineTooLong           Category = "LineTooLong"
	CategoryUnknownDirective      Category = "UnknownDirective"
	CategoryInvalidInteger        Category = "InvalidInteger"
	CategoryStructuralViolation   Category = "StructuralViolation"
	CategoryDuplicateID           Category = "DuplicateId"
	CategoryUnresolvedReference   Category = "UnresolvedReference"
	CategoryInconsistentHierarchy Category = "InconsistentHierarchy"
	CategoryInvalidCommand        Category = "InvalidCommand"
)

// ErrorKind selects the message template of a FormatError.
type ErrorKind int

const (
	ErrLineTooLong ErrorKind = iota + 1
	ErrUnknownInput
	ErrNegativeInteger
	ErrExpectedInteger
	ErrIllegalClassName
	ErrOptionSpecifiedTwice
	ErrSourceWithoutID
	ErrSourceWithoutSuper
	ErrSuperWithoutSource
	ErrInterfacesWithoutSource
	ErrDuplicatedID
	ErrSuperNotLoaded
	ErrInterfaceNotLoaded
	ErrSuperMismatch
	ErrNoInterfaceSpecified
	ErrInterfaceCountMismatch
	ErrInterfaceMismatch
	ErrClassNameMismatch
	ErrInvalidCommand
	ErrTooFewItems
)

var kindCategories = map[ErrorKind]Category{
	ErrLineTooLong:             CategoryLineTooLong,
	ErrUnknownInput:            CategoryUnknownDirective,
	ErrNegativeInteger:         CategoryInvalidInteger,
	ErrExpectedInteger:         CategoryInvalidInteger,
	ErrIllegalClassName:        CategoryStructuralViolation,
	ErrOptionSpecifiedTwice:    CategoryStructuralViolation,
	ErrSourceWithoutID:         CategoryStructuralViolation,
	ErrSourceWithoutSuper:      CategoryStructuralViolation,
	ErrSuperWithoutSource:      CategoryStructuralViolation,
	ErrInterfacesWithoutSource: CategoryStructuralViolation,
	ErrDuplicatedID:            CategoryDuplicateID,
	ErrSuperNotLoaded:          CategoryUnresolvedReference,
	ErrInterfaceNotLoaded:      CategoryUnresolvedReference,
	ErrSuperMismatch:           CategoryInconsistentHierarchy,
	ErrNoInterfaceSpecified:    CategoryInconsistentHierarchy,
	ErrInterfaceCountMismatch:  CategoryInconsistentHierarchy,
	ErrInterfaceMismatch:       CategoryInconsistentHierarchy,
	ErrClassNameMismatch:       CategoryInconsistentHierarchy,
	ErrInvalidCommand:          CategoryInvalidCommand,
	ErrTooFewItems:             CategoryInvalidCommand,
}

var kindNames = map[ErrorKind]string{
	ErrLineTooLong:             "LineTooLong",
	ErrUnknownInput:            "UnknownInput",
	ErrNegativeInteger:         "NegativeInteger",
	ErrExpectedInteger:         "ExpectedInteger",
	ErrIllegalClassName:        "IllegalClassName",
	ErrOptionSpecifiedTwice:    "OptionSpecifiedTwice",
	ErrSourceWithoutID:         "SourceWithoutId",
	ErrSourceWithoutSuper:      "SourceWithoutSuper",
	ErrSuperWithoutSource:      "SuperWithoutSource",
	ErrInterfacesWithoutSource: "InterfacesWithoutSource",
	ErrDuplicatedID:            "DuplicatedId",
	ErrSuperNotLoaded:          "SuperNotLoaded",
	ErrInterfaceNotLoaded:      "InterfaceNotLoaded",
	ErrSuperMismatch:           "SuperMismatch",
	ErrNoInterfaceSpecified:    "NoInterfaceSpecified",
	ErrInterfaceCountMismatch:  "InterfaceCountMismatch",
	ErrInterfaceMismatch:       "InterfaceMismatch",
	ErrClassNameMismatch:       "ClassNameMismatch",
	ErrInvalidCommand:          "InvalidCommand",
	ErrTooFewItems:             "TooFewItems",
}

// String returns the stable identifier of the kind, used as a rule id in
// machine-readable reports.
func (k ErrorKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// AllErrorKinds returns every kind in declaration order.
func AllErrorKinds() []ErrorKind {
	kinds := make([]ErrorKind, 0, len(kindNames))
	for k := ErrLineTooLong; k <= ErrTooFewItems; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Category returns the coarse classification of the kind.
func (k ErrorKind) Category() Category {
	return kindCategories[k]
}

// FormatError reports a violation of the class list format or a mismatch
// between a class list entry and the class it names. The message text is
// matched by external tooling and must not be reworded.
type FormatError struct {
	File   string
	Token  string
	Detail string

	// Class names involved, in internal form.
	ClassName     string
	DeclaredName  string
	ActualName    string
	Kind          ErrorKind
	Line          int
	Column        int
	Limit         int
	Value         int64
	DeclaredCount int
	ActualCount   int
}

// NewFormatError creates a FormatError of the given kind at a position.
func NewFormatError(kind ErrorKind, line, column int) *FormatError {
	return &FormatError{Kind: kind, Line: line, Column: column}
}

// Category returns the coarse classification of the error.
func (e *FormatError) Category() Category {
	return e.Kind.Category()
}

// Message renders the fixed message template for the error kind.
func (e *FormatError) Message() string {
	switch e.Kind {
	case ErrLineTooLong:
		// The unbalanced parenthesis is part of the established message.
		return fmt.Sprintf("input line too long (must be no longer than %d chars", e.Limit)
	case ErrUnknownInput:
		return fmt.Sprintf("Unknown input: %s", e.Token)
	case ErrNegativeInteger:
		return fmt.Sprintf("Error: negative integers not allowed (%d)", e.Value)
	case ErrExpectedInteger:
		if e.Detail != "" {
			return fmt.Sprintf("Error: expected integer (%s)", e.Detail)
		}
		return "Error: expected integer"
	case ErrIllegalClassName:
		return fmt.Sprintf("Illegal class name: %s", e.Token)
	case ErrOptionSpecifiedTwice:
		return fmt.Sprintf("%s specified twice", e.Token)
	case ErrSourceWithoutID:
		return "If source location is specified, id must be also specified"
	case ErrSourceWithoutSuper:
		return "If source location is specified, super class must be also specified"
	case ErrSuperWithoutSource:
		return "If source location is not specified, super class must not be specified"
	case ErrInterfacesWithoutSource:
		return "If source location is not specified, interface(s) must not be specified"
	case ErrDuplicatedID:
		return fmt.Sprintf("Duplicated ID %d for class %s", e.Value, e.ClassName)
	case ErrSuperNotLoaded:
		return fmt.Sprintf("Super class id %d is not yet loaded", e.Value)
	case ErrInterfaceNotLoaded:
		return fmt.Sprintf("Interface id %d is not yet loaded", e.Value)
	case ErrSuperMismatch:
		return fmt.Sprintf("The specified super class %s (id %d) does not match actual super class %s",
			e.DeclaredName, e.Value, e.ActualName)
	case ErrNoInterfaceSpecified:
		return fmt.Sprintf("Class %s implements the interface %s, but no interface has been specified in the input line",
			e.ClassName, e.ActualName)
	case ErrInterfaceCountMismatch:
		return fmt.Sprintf("The number of interfaces (%d) specified in class list does not match the class file (%d)",
			e.DeclaredCount, e.ActualCount)
	case ErrInterfaceMismatch:
		return fmt.Sprintf("The interface %s implemented by class %s does not match any of the specified interface IDs",
			e.ActualName, e.ClassName)
	case ErrClassNameMismatch:
		return fmt.Sprintf("Class name mismatch: expected %s, loaded %s", e.ClassName, e.ActualName)
	case ErrInvalidCommand:
		return fmt.Sprintf("Invalid command: %s", e.Token)
	case ErrTooFewItems:
		return fmt.Sprintf("Line with @ tag has too few items %q line #%d", e.Token, e.Line)
	default:
		return fmt.Sprintf("unknown class list error (%s)", e.Kind)
	}
}

func (e *FormatError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("An error has occurred while processing class list file %s %d:%d.\n%s",
		file, e.Line, e.Column, e.Message())
}

// WithFile returns the error annotated with the class list path.
func (e *FormatError) WithFile(file string) *FormatError {
	e.File = file
	return e
}
