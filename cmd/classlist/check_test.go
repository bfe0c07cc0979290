package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/values"
	"github.com/reglet-dev/classlist/internal/infrastructure/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitClasspath(t *testing.T) {
	t.Parallel()

	sep := string(filepath.ListSeparator)
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, nil},
		{"single", []string{"lib/app.jar"}, []string{"lib/app.jar"}},
		{"path list", []string{"build/classes" + sep + "lib/app.jar"}, []string{"build/classes", "lib/app.jar"}},
		{"blanks dropped", []string{" ", "a" + sep + sep + "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitClasspath(tt.in))
		})
	}
}

func TestBuildCheckRequest(t *testing.T) {
	t.Parallel()

	failFast := false
	cfg := &system.Config{
		FailFast:          &failFast,
		ReleaseConstraint: ">= 8",
		Classpath:         []string{"/opt/lib/rt.jar"},
		Workers:           4,
		StrictVersions:    true,
	}

	t.Run("config defaults", func(t *testing.T) {
		t.Parallel()
		req := buildCheckRequest(&checkOptions{}, cfg, "classes.txt")

		assert.Equal(t, "classes.txt", req.ClassListPath)
		assert.False(t, req.FailFast)
		assert.Equal(t, []string{"/opt/lib/rt.jar"}, req.Resolution.Classpath)
		assert.Equal(t, 4, req.Resolution.Workers)
		assert.Equal(t, ">= 8", req.Release.Constraint)
		assert.True(t, req.Release.Strict)
	})

	t.Run("flags win", func(t *testing.T) {
		t.Parallel()
		opts := &checkOptions{
			Classpath:         []string{"build/classes"},
			Workers:           2,
			ReleaseConstraint: ">= 17",
			Packages:          []string{"com/acme"},
			SourceOnly:        true,
			FilterExpr:        "id > 0",
		}
		req := buildCheckRequest(opts, cfg, "classes.txt")

		assert.Equal(t, []string{"build/classes"}, req.Resolution.Classpath)
		assert.Equal(t, 2, req.Resolution.Workers)
		assert.Equal(t, ">= 17", req.Release.Constraint)
		assert.Equal(t, []string{"com/acme"}, req.Filters.Packages)
		assert.True(t, req.Filters.SourceOnly)
		assert.Equal(t, "id > 0", req.Filters.FilterExpression)
	})

	t.Run("no-fail-fast overrides config", func(t *testing.T) {
		t.Parallel()
		req := buildCheckRequest(&checkOptions{NoFailFast: true}, system.DefaultConfig(), "classes.txt")
		assert.False(t, req.FailFast)

		req = buildCheckRequest(&checkOptions{}, system.DefaultConfig(), "classes.txt")
		assert.True(t, req.FailFast)
	})
}

func TestCheckOutcome(t *testing.T) {
	t.Parallel()

	t.Run("clean", func(t *testing.T) {
		t.Parallel()
		result := checking.NewCheckResult("classes.txt")
		result.AddEntryResult(checking.EntryResult{Status: values.StatusPass})
		result.Finalize()
		assert.NoError(t, checkOutcome(result))
	})

	t.Run("failed entries", func(t *testing.T) {
		t.Parallel()
		result := checking.NewCheckResult("classes.txt")
		result.AddEntryResult(checking.EntryResult{Status: values.StatusPass})
		result.AddEntryResult(checking.EntryResult{Status: values.StatusFail})
		result.Finalize()

		err := checkOutcome(result)
		require.ErrorIs(t, err, errCheckFailed)
		assert.Contains(t, err.Error(), "1 passed, 1 failed")
	})
}

func TestCheckCommand(t *testing.T) {
	isolateHome(t)

	t.Run("unresolvable classes are skipped", func(t *testing.T) {
		path := writeClassList(t, "java/lang/Object id: 1\njava/lang/String id: 2\n")

		stdout, _, err := runCommand(newCheckCmd(), path, "--format", "json")
		require.NoError(t, err)

		var report struct {
			Entries []struct {
				Status string `json:"status"`
			} `json:"entries"`
			Summary struct {
				Total    int `json:"total_entries"`
				Skipped  int `json:"skipped_entries"`
				Warnings int `json:"warnings"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))
		assert.Equal(t, 2, report.Summary.Total)
		assert.Equal(t, 2, report.Summary.Skipped)
		assert.Equal(t, 2, report.Summary.Warnings)
	})

	t.Run("format error fails the check", func(t *testing.T) {
		path := writeClassList(t, "java/lang/Object id: 1\ncom/acme/Impl super: 1\n")

		stdout, _, err := runCommand(newCheckCmd(), path, "--format", "json")
		require.ErrorIs(t, err, errCheckFailed)
		assert.Contains(t, err.Error(), " 2:")
		assert.Contains(t, stdout, "SuperWithoutSource")
	})

	t.Run("invalid filter", func(t *testing.T) {
		path := writeClassList(t, "java/lang/Object id: 1\n")

		_, _, err := runCommand(newCheckCmd(), path, "--filter", "id ===")
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		path := writeClassList(t, "java/lang/Object id: 1\n")

		_, _, err := runCommand(newCheckCmd(), path, "--format", "classlist")
		assert.ErrorContains(t, err, "invalid format")
	})
}
