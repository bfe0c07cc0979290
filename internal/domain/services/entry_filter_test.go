package services

import (
	"testing"

	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterEntries(t *testing.T) []*entities.ClassListEntry {
	t.Helper()
	reg := NewRegistry()
	for _, p := range []*entities.ParsedLine{
		line(1, "java/lang/Object", 1, -1, ""),
		line(2, "java/util/ArrayList", -1, -1, ""),
		line(3, "com/example/Loadee", 2, 1, "test.jar"),
		line(4, "com/example/Iface", 3, 1, "test.jar"),
		line(5, "com/example/Impl", 4, 1, "test.jar", 3),
	} {
		_, err := reg.Register(p)
		require.NoError(t, err)
	}
	return reg.Entries()
}

func names(entries []*entities.ClassListEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name.String())
	}
	return out
}

func Test_EntryFilter_NoFilters(t *testing.T) {
	entries := filterEntries(t)
	assert.Len(t, NewEntryFilter().Apply(entries), len(entries))
}

func Test_EntryFilter_Packages(t *testing.T) {
	got := NewEntryFilter().WithPackages([]string{"java.lang"}).Apply(filterEntries(t))
	assert.Equal(t, []string{"java/lang/Object"}, names(got))
}

func Test_EntryFilter_SourceOnly(t *testing.T) {
	got := NewEntryFilter().WithSourceOnly(true).Apply(filterEntries(t))
	assert.Equal(t, []string{"com/example/Loadee", "com/example/Iface", "com/example/Impl"}, names(got))
}

func Test_EntryFilter_Expression(t *testing.T) {
	tests := []struct {
		expression string
		want       []string
	}{
		{"len(interfaces) > 0", []string{"com/example/Impl"}},
		{"id == -1", []string{"java/util/ArrayList"}},
		{"package == 'com/example' && super == 1 && id < 3", []string{"com/example/Loadee"}},
		{"line >= 4", []string{"com/example/Iface", "com/example/Impl"}},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			program, err := CompileFilter(tt.expression)
			require.NoError(t, err)

			got := NewEntryFilter().WithFilterExpression(program).Apply(filterEntries(t))
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func Test_EntryFilter_Reason(t *testing.T) {
	program, err := CompileFilter("source != ''")
	require.NoError(t, err)

	ok, reason := NewEntryFilter().WithFilterExpression(program).Matches(filterEntries(t)[0])
	assert.False(t, ok)
	assert.Equal(t, "excluded by --filter expression", reason)
}

func Test_CompileFilter_Invalid(t *testing.T) {
	_, err := CompileFilter("name +")
	assert.Error(t, err)

	_, err = CompileFilter("name")
	assert.Error(t, err, "non-boolean expressions are rejected")
}
