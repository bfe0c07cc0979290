package values

import (
	"fmt"
	"math"
	"strconv"
)

// MaxClassID is the largest id accepted in a class list.
const MaxClassID = math.MaxInt32

// ClassID is the integer handle a class list uses to cross-reference
// classes before any of them is loaded. The zero value is "unspecified";
// 0 itself is a valid id.
type ClassID struct {
	value int32
	set   bool
}

// NewClassID creates a ClassID, rejecting values outside [0, MaxClassID].
func NewClassID(v int64) (ClassID, error) {
	if v < 0 {
		return ClassID{}, fmt.Errorf("class id %d is negative", v)
	}
	if v > MaxClassID {
		return ClassID{}, fmt.Errorf("class id %d exceeds %d", v, MaxClassID)
	}
	return ClassID{value: int32(v), set: true}, nil
}

// MustNewClassID creates a ClassID or panics (for tests/constants)
func MustNewClassID(v int64) ClassID {
	id, err := NewClassID(v)
	if err != nil {
		panic(err)
	}
	return id
}

// IsSpecified reports whether the id was present in the input line.
func (c ClassID) IsSpecified() bool {
	return c.set
}

// Int returns the numeric value. Only meaningful when IsSpecified.
func (c ClassID) Int() int {
	return int(c.value)
}

// String returns the decimal form, or "-" when unspecified.
func (c ClassID) String() string {
	if !c.set {
		return "-"
	}
	return strconv.Itoa(int(c.value))
}

// Equals checks if two ClassIDs are equal
func (c ClassID) Equals(other ClassID) bool {
	return c == other
}

// MarshalJSON implements json.Marshaler. Unspecified ids encode as null.
func (c ClassID) MarshalJSON() ([]byte, error) {
	if !c.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(c.value))), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (c *ClassID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*c = ClassID{}
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid class ID JSON: %w", err)
	}
	id, err := NewClassID(v)
	if err != nil {
		return err
	}
	*c = id
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (c ClassID) MarshalYAML() (interface{}, error) {
	if !c.set {
		return nil, nil
	}
	return int(c.value), nil
}
