package values

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ClassName is a class name in internal form (java/lang/Object).
// Names given in external form (java.lang.Object) are normalized.
type ClassName struct {
	value string
}

// NewClassName creates a ClassName with validation
func NewClassName(name string) (ClassName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ClassName{}, fmt.Errorf("class name cannot be empty")
	}
	if strings.ContainsAny(name, " \t;[") {
		return ClassName{}, fmt.Errorf("illegal character in class name %q", name)
	}
	return ClassName{value: strings.ReplaceAll(name, ".", "/")}, nil
}

// MustNewClassName creates a ClassName or panics (for tests/constants)
func MustNewClassName(name string) ClassName {
	n, err := NewClassName(name)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the internal form
func (c ClassName) String() string {
	return c.value
}

// External returns the dotted form used by class loaders.
func (c ClassName) External() string {
	return strings.ReplaceAll(c.value, "/", ".")
}

// FileName returns the relative path of the class file on a classpath.
func (c ClassName) FileName() string {
	return c.value + ".class"
}

// IsEmpty returns true if this is the zero value
func (c ClassName) IsEmpty() bool {
	return c.value == ""
}

// Equals checks if two ClassNames are equal
func (c ClassName) Equals(other ClassName) bool {
	return c.value == other.value
}

// MarshalJSON implements json.Marshaler
func (c ClassName) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

// UnmarshalJSON implements json.Unmarshaler. An empty string decodes to
// the zero value.
func (c *ClassName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid class name JSON: %w", err)
	}
	if s == "" {
		*c = ClassName{}
		return nil
	}
	name, err := NewClassName(s)
	if err != nil {
		return err
	}
	*c = name
	return nil
}

// MarshalYAML implements yaml.InterfaceMarshaler
func (c ClassName) MarshalYAML() (interface{}, error) {
	return c.value, nil
}
