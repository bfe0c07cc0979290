package services

import (
	"errors"
	"testing"

	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// line builds a ParsedLine; negative ids mean "unspecified".
func line(n int, name string, id, super int, source string, ifaces ...int) *entities.ParsedLine {
	p := &entities.ParsedLine{
		Line:      n,
		Name:      values.MustNewClassName(name),
		Source:    source,
		HasSource: source != "",
	}
	if id >= 0 {
		p.ID = values.MustNewClassID(int64(id))
	}
	if super >= 0 {
		p.Super = values.MustNewClassID(int64(super))
	}
	for _, i := range ifaces {
		p.Interfaces = append(p.Interfaces, values.MustNewClassID(int64(i)))
	}
	p.InterfacesSpecified = len(ifaces) > 0
	return p
}

func requireKind(t *testing.T, err error, kind entities.ErrorKind) *entities.FormatError {
	t.Helper()
	require.Error(t, err)
	var fe *entities.FormatError
	require.True(t, errors.As(err, &fe), "expected *entities.FormatError, got %T", err)
	assert.Equal(t, kind, fe.Kind, fe.Message())
	return fe
}

func Test_Registry_RegistersScenario(t *testing.T) {
	reg := NewRegistry()
	lines := []*entities.ParsedLine{
		line(1, "Hello", -1, -1, ""),
		line(2, "java/lang/Object", 1, -1, ""),
		line(3, "CustomLoadee", 2, 1, "test.jar"),
		line(4, "CustomInterface2_ia", 3, 1, "test.jar"),
		line(5, "CustomInterface2_ib", 4, 1, "test.jar"),
		line(6, "CustomLoadee2", 5, 1, "test.jar", 3, 4),
	}

	for _, p := range lines {
		_, err := reg.Register(p)
		require.NoError(t, err)
	}

	assert.Equal(t, 6, reg.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, reg.IDs())

	e, ok := reg.Lookup(values.MustNewClassID(5))
	require.True(t, ok)
	assert.Equal(t, "CustomLoadee2", e.Name.String())
	assert.Equal(t, []values.ClassID{values.MustNewClassID(3), values.MustNewClassID(4)}, e.InterfaceIDs)

	_, ok = reg.Lookup(values.ClassID{})
	assert.False(t, ok)

	entries := reg.Entries()
	assert.Equal(t, "Hello", entries[0].Name.String())
	assert.False(t, entries[0].HasID())
}

func Test_Registry_SourceCoupling(t *testing.T) {
	tests := []struct {
		name string
		line *entities.ParsedLine
		kind entities.ErrorKind
	}{
		{"source without id", line(1, "Foo", -1, 1, "a.jar"), entities.ErrSourceWithoutID},
		{"source without super", line(1, "Foo", 2, -1, "a.jar"), entities.ErrSourceWithoutSuper},
		{"source without id or super", line(1, "Foo", -1, -1, "a.jar"), entities.ErrSourceWithoutID},
		{"super without source", line(1, "Foo", 2, 1, ""), entities.ErrSuperWithoutSource},
		{"interfaces without source", line(1, "Foo", 2, -1, "", 1), entities.ErrInterfacesWithoutSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			_, err := reg.Register(line(0, "java/lang/Object", 1, -1, ""))
			require.NoError(t, err)

			_, err = reg.Register(tt.line)
			requireKind(t, err, tt.kind)
			assert.Equal(t, 1, reg.Len(), "failed line must not be registered")
		})
	}
}

func Test_Registry_SourceAndSuperCombinations(t *testing.T) {
	// (source present/absent) x (super present/absent)
	tests := []struct {
		name    string
		source  string
		super   int
		wantErr bool
	}{
		{"source and super", "a.jar", 1, false},
		{"source only", "a.jar", -1, true},
		{"super only", "", 1, true},
		{"neither", "", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			_, err := reg.Register(line(1, "java/lang/Object", 1, -1, ""))
			require.NoError(t, err)

			_, err = reg.Register(line(2, "Foo", 2, tt.super, tt.source))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Registry_DuplicateID(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(line(1, "java/lang/Object", 1, -1, ""))
	require.NoError(t, err)

	_, err = reg.Register(line(2, "java/lang/String", 1, -1, ""))
	fe := requireKind(t, err, entities.ErrDuplicatedID)
	assert.Equal(t, "Duplicated ID 1 for class java/lang/String", fe.Message())
	assert.Equal(t, 2, fe.Line)
}

func Test_Registry_ForwardReferences(t *testing.T) {
	t.Run("super not yet declared", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Register(line(1, "Foo", 2, 7, "a.jar"))
		fe := requireKind(t, err, entities.ErrSuperNotLoaded)
		assert.Equal(t, "Super class id 7 is not yet loaded", fe.Message())
	})

	t.Run("self reference as super", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Register(line(1, "Foo", 2, 2, "a.jar"))
		fe := requireKind(t, err, entities.ErrSuperNotLoaded)
		assert.Equal(t, "Super class id 2 is not yet loaded", fe.Message())
	})

	t.Run("interface not yet declared", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Register(line(1, "java/lang/Object", 1, -1, ""))
		require.NoError(t, err)

		_, err = reg.Register(line(2, "Foo", 2, 1, "a.jar", 1, 9))
		fe := requireKind(t, err, entities.ErrInterfaceNotLoaded)
		assert.Equal(t, "Interface id 9 is not yet loaded", fe.Message())
	})

	t.Run("self reference as interface", func(t *testing.T) {
		reg := NewRegistry()
		_, err := reg.Register(line(1, "java/lang/Object", 1, -1, ""))
		require.NoError(t, err)

		_, err = reg.Register(line(2, "Foo", 2, 1, "a.jar", 2))
		requireKind(t, err, entities.ErrInterfaceNotLoaded)
	})
}

func Test_Registry_DuplicatedCheckPrecedesReferences(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register(line(1, "java/lang/Object", 1, -1, ""))
	require.NoError(t, err)

	// Both a duplicate id and an unknown super: the duplicate wins.
	_, err = reg.Register(line(2, "Foo", 1, 8, "a.jar"))
	requireKind(t, err, entities.ErrDuplicatedID)
}
