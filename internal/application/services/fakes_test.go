package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/services"
	"github.com/reglet-dev/classlist/internal/domain/values"
	"github.com/stretchr/testify/require"
)

// line builds a ParsedLine; negative ids mean "unspecified".
func line(n int, name string, id, super int, source string) *entities.ParsedLine {
	p := &entities.ParsedLine{
		Line:      n,
		Name:      values.MustNewClassName(name),
		Source:    source,
		HasSource: source != "",
		Pos:       entities.Positions{Name: 1},
	}
	if id >= 0 {
		p.ID = values.MustNewClassID(int64(id))
	}
	if super >= 0 {
		p.Super = values.MustNewClassID(int64(super))
	}
	return p
}

// acmeClassList is a well-formed class list with one class missing from
// the classpath.
func acmeClassList(t *testing.T) *services.ParseResult {
	t.Helper()
	reg := services.NewRegistry()
	result := &services.ParseResult{Registry: reg, Path: "classes.txt", Lines: 4}
	for _, p := range []*entities.ParsedLine{
		line(1, "java/lang/Object", 1, -1, ""),
		line(2, "com/acme/Base", 2, 1, "app.jar"),
		line(3, "com/acme/Impl", 3, 2, "app.jar"),
		line(4, "com/acme/Missing", -1, -1, ""),
	} {
		entry, err := reg.Register(p)
		require.NoError(t, err)
		result.Entries = append(result.Entries, entry)
	}
	return result
}

type fakeLoader struct {
	result *services.ParseResult
	err    error
}

func (f *fakeLoader) Load(_ context.Context, _ string) (*services.ParseResult, error) {
	return f.result, f.err
}

func classInfo(name, super string, major uint16) *entities.ResolvedClassInfo {
	info := &entities.ResolvedClassInfo{
		Name:         values.MustNewClassName(name),
		Location:     "app.jar!/" + name + ".class",
		MajorVersion: major,
	}
	if super != "" {
		info.SuperName = values.MustNewClassName(super)
	}
	return info
}

// fakeEngine resolves from a fixed table; names missing from it are not found.
type fakeEngine struct {
	classes  map[string]*entities.ResolvedClassInfo
	errs     map[string]error
	err      error
	received []*entities.ClassListEntry
	closed   bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		classes: map[string]*entities.ResolvedClassInfo{
			"java/lang/Object": classInfo("java/lang/Object", "", 65),
			"com/acme/Base":    classInfo("com/acme/Base", "java/lang/Object", 61),
			"com/acme/Impl":    classInfo("com/acme/Impl", "com/acme/Base", 61),
		},
		errs: map[string]error{},
	}
}

func (f *fakeEngine) ResolveAll(_ context.Context, entries []*entities.ClassListEntry) ([]checking.Resolution, error) {
	f.received = entries
	if f.err != nil {
		return nil, f.err
	}
	out := make([]checking.Resolution, len(entries))
	for i, entry := range entries {
		name := entry.Name.String()
		out[i] = checking.Resolution{Entry: entry, Index: i}
		switch {
		case f.errs[name] != nil:
			out[i].Err = f.errs[name]
		case f.classes[name] != nil:
			out[i].Info = f.classes[name]
		default:
			out[i].Err = fmt.Errorf("%s: %w", name, entities.ErrClassNotFound)
		}
	}
	return out, nil
}

func (f *fakeEngine) Close(_ context.Context) error {
	f.closed = true
	return nil
}

type fakeEngineFactory struct {
	engine    *fakeEngine
	err       error
	calls     int
	classpath []string
	workers   int
}

func (f *fakeEngineFactory) CreateEngine(_ context.Context, classpath []string, workers int) (ports.ResolutionEngine, error) {
	f.calls++
	f.classpath = classpath
	f.workers = workers
	if f.err != nil {
		return nil, f.err
	}
	return f.engine, nil
}

var errDisk = errors.New("disk on fire")
