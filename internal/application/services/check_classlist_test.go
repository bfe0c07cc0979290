package services

import (
	"context"
	"errors"
	"testing"

	"github.com/reglet-dev/classlist/internal/application/dto"
	apperrors "github.com/reglet-dev/classlist/internal/application/errors"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
	"github.com/reglet-dev/classlist/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkFixture struct {
	loader  *fakeLoader
	engine  *fakeEngine
	factory *fakeEngineFactory
	repo    *memory.CheckResultRepository
	uc      *CheckClassListUseCase
}

func newCheckFixture(t *testing.T) *checkFixture {
	t.Helper()
	f := &checkFixture{
		loader: &fakeLoader{result: acmeClassList(t)},
		engine: newFakeEngine(),
		repo:   memory.NewCheckResultRepository(),
	}
	f.factory = &fakeEngineFactory{engine: f.engine}
	f.uc = NewCheckClassListUseCase(f.loader, f.factory, f.repo, "test", nil)
	return f
}

func checkRequest() dto.CheckClassListRequest {
	return dto.CheckClassListRequest{
		ClassListPath: "classes.txt",
		FailFast:      true,
		Resolution:    dto.ResolutionOptions{Classpath: []string{"lib"}, Workers: 2},
		Metadata:      dto.RequestMetadata{RequestID: "req-1"},
	}
}

func statuses(result *checking.CheckResult) map[string]values.Status {
	out := make(map[string]values.Status, len(result.Entries))
	for _, e := range result.Entries {
		out[e.Name()] = e.Status
	}
	return out
}

func TestCheckClassList_AllPass(t *testing.T) {
	f := newCheckFixture(t)

	resp, err := f.uc.Execute(context.Background(), checkRequest())
	require.NoError(t, err)

	result := resp.CheckResult
	assert.Equal(t, "req-1", resp.Metadata.RequestID)
	assert.Equal(t, "test", result.ToolVersion)
	assert.Equal(t, map[string]values.Status{
		"java/lang/Object": values.StatusPass,
		"com/acme/Base":    values.StatusPass,
		"com/acme/Impl":    values.StatusPass,
		"com/acme/Missing": values.StatusSkipped,
	}, statuses(result))

	assert.Equal(t, 4, result.Summary.TotalEntries)
	assert.Equal(t, 3, result.Summary.PassedEntries)
	assert.Equal(t, 1, result.Summary.SkippedEntries)
	assert.Equal(t, 1, result.Summary.Warnings)
	assert.False(t, result.HasFailures())

	missing := result.Entries[3]
	require.Len(t, missing.Diagnostics, 1)
	assert.Equal(t, "Preload Warning: Cannot find com/acme/Missing", missing.Diagnostics[0].Message)
	assert.Equal(t, 4, missing.Diagnostics[0].Line)

	assert.Equal(t, []string{"lib"}, f.factory.classpath)
	assert.Equal(t, 2, f.factory.workers)
	assert.True(t, f.engine.closed)

	stored, err := f.repo.FindByID(context.Background(), result.RunID.UUID())
	require.NoError(t, err)
	assert.Same(t, result, stored)
}

func TestCheckClassList_SuperMismatch(t *testing.T) {
	tests := []struct {
		name        string
		failFast    bool
		wantMissing string
	}{
		{"fail fast skips the rest", true, SkipReasonFailFast},
		{"keep going", false, "class not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckFixture(t)
			f.engine.classes["com/acme/Impl"] = classInfo("com/acme/Impl", "java/lang/Object", 61)

			req := checkRequest()
			req.FailFast = tt.failFast
			resp, err := f.uc.Execute(context.Background(), req)
			require.NoError(t, err)

			result := resp.CheckResult
			assert.True(t, result.HasFailures())
			assert.Equal(t, 1, result.Summary.FailedEntries)

			impl := result.Entries[2]
			assert.Equal(t, values.StatusFail, impl.Status)
			require.Len(t, impl.Diagnostics, 1)
			assert.Equal(t, entities.ErrSuperMismatch.String(), impl.Diagnostics[0].Kind)
			assert.Equal(t,
				"The specified super class com/acme/Base (id 2) does not match actual super class java/lang/Object",
				impl.Diagnostics[0].Message)

			first, ok := result.FirstError()
			require.True(t, ok)
			assert.Equal(t, 3, first.Line)

			assert.Equal(t, tt.wantMissing, result.Entries[3].SkipReason)
		})
	}
}

func TestCheckClassList_FormatError(t *testing.T) {
	f := newCheckFixture(t)
	fe := entities.NewFormatError(entities.ErrDuplicatedID, 2, 22)
	fe.Value = 1
	fe.ClassName = "java/lang/String"
	f.loader.result = nil
	f.loader.err = fe.WithFile("classes.txt")

	resp, err := f.uc.Execute(context.Background(), checkRequest())
	require.NoError(t, err)

	result := resp.CheckResult
	assert.Empty(t, result.Entries)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "Duplicated ID 1 for class java/lang/String", result.Diagnostics[0].Message)
	assert.Equal(t, 2, result.Diagnostics[0].Line)
	assert.Equal(t, 22, result.Diagnostics[0].Column)
	assert.True(t, result.HasFailures())
	assert.Zero(t, f.factory.calls)
}

func TestCheckClassList_LoadError(t *testing.T) {
	f := newCheckFixture(t)
	f.loader.err = errDisk

	_, err := f.uc.Execute(context.Background(), checkRequest())

	var valErr *apperrors.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "class_list", valErr.Field)
}

func TestCheckClassList_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CheckClassListRequest)
		field  string
	}{
		{"filter", func(r *dto.CheckClassListRequest) { r.Filters.FilterExpression = "name ==" }, "filters"},
		{"release", func(r *dto.CheckClassListRequest) { r.Release.Constraint = "not-a-version" }, "release"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckFixture(t)
			req := checkRequest()
			tt.mutate(&req)

			_, err := f.uc.Execute(context.Background(), req)

			var valErr *apperrors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.field, valErr.Field)
		})
	}
}

func TestCheckClassList_PackageFilter(t *testing.T) {
	f := newCheckFixture(t)
	req := checkRequest()
	req.Filters.Packages = []string{"com/acme"}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	result := resp.CheckResult
	require.Len(t, result.Entries, 4)
	assert.Equal(t, values.StatusSkipped, result.Entries[0].Status)
	assert.Equal(t, "excluded by --package filter", result.Entries[0].SkipReason)
	assert.Equal(t, values.StatusPass, result.Entries[1].Status)
	assert.Len(t, f.engine.received, 3)
}

func TestCheckClassList_ReleasePolicy(t *testing.T) {
	t.Run("pre JDK 6 warning", func(t *testing.T) {
		f := newCheckFixture(t)
		f.engine.classes["com/acme/Base"] = classInfo("com/acme/Base", "java/lang/Object", 49)

		resp, err := f.uc.Execute(context.Background(), checkRequest())
		require.NoError(t, err)

		base := resp.CheckResult.Entries[1]
		assert.Equal(t, values.StatusPass, base.Status)
		require.Len(t, base.Diagnostics, 1)
		assert.Equal(t, "Pre JDK 6 class not supported by CDS: 49.0 com/acme/Base", base.Diagnostics[0].Message)
	})

	t.Run("constraint miss warns", func(t *testing.T) {
		f := newCheckFixture(t)
		req := checkRequest()
		req.Release.Constraint = ">= 21"

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)

		result := resp.CheckResult
		assert.False(t, result.HasFailures())
		assert.Equal(t, 3, result.Summary.Warnings)
		assert.Equal(t, `Class com/acme/Base has release 17 which does not satisfy ">= 21"`,
			result.Entries[1].Diagnostics[0].Message)
	})

	t.Run("strict constraint fails", func(t *testing.T) {
		f := newCheckFixture(t)
		req := checkRequest()
		req.Release = dto.ReleaseOptions{Constraint: ">= 21", Strict: true}

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)

		result := resp.CheckResult
		assert.Equal(t, values.StatusPass, result.Entries[0].Status)
		assert.Equal(t, values.StatusFail, result.Entries[1].Status)
		assert.Equal(t, SkipReasonFailFast, result.Entries[2].SkipReason)
	})
}

func TestCheckClassList_SourceResolutionError(t *testing.T) {
	f := newCheckFixture(t)
	f.engine.errs["com/acme/Base"] = errDisk

	resp, err := f.uc.Execute(context.Background(), checkRequest())
	require.NoError(t, err)

	base := resp.CheckResult.Entries[1]
	assert.Equal(t, values.StatusError, base.Status)
	require.Len(t, base.Diagnostics, 1)
	assert.Equal(t, "disk on fire", base.Diagnostics[0].Message)
	assert.Equal(t, 2, base.Diagnostics[0].Line)
	assert.Equal(t, "com/acme/Base", base.Diagnostics[0].ClassName)
}

func TestCheckClassList_EngineErrors(t *testing.T) {
	t.Run("factory", func(t *testing.T) {
		f := newCheckFixture(t)
		f.factory.err = errDisk

		_, err := f.uc.Execute(context.Background(), checkRequest())

		var cfgErr *apperrors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.ErrorIs(t, err, errDisk)
	})

	t.Run("resolve", func(t *testing.T) {
		f := newCheckFixture(t)
		f.engine.err = context.Canceled

		_, err := f.uc.Execute(context.Background(), checkRequest())

		var resErr *apperrors.ResolutionError
		require.True(t, errors.As(err, &resErr))
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, f.engine.closed)
	})
}
