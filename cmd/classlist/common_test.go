package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommonOptions_ApplyToContext(t *testing.T) {
	t.Parallel()

	t.Run("with timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 100 * time.Millisecond}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(100*time.Millisecond), deadline, 10*time.Millisecond)
	})

	t.Run("no timeout", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{Timeout: 0}
		ctx, cancel := opts.ApplyToContext(context.Background())
		defer cancel()

		_, ok := ctx.Deadline()
		assert.False(t, ok)
	})
}

func TestCommonOptions_ValidateFlags(t *testing.T) {
	t.Parallel()

	formats := []string{"table", "json"}
	tests := []struct {
		name    string
		opts    CommonOptions
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid options",
			opts: CommonOptions{Format: "table"},
		},
		{
			name:    "unsupported format",
			opts:    CommonOptions{Format: "xml"},
			wantErr: true,
			errMsg:  "invalid format",
		},
		{
			name: "valid format json",
			opts: CommonOptions{Format: "json"},
		},
		{
			name:    "negative timeout",
			opts:    CommonOptions{Format: "json", Timeout: -time.Second},
			wantErr: true,
			errMsg:  "--timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.opts.ValidateFlags(formats)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultCommonOptions(t *testing.T) {
	t.Parallel()
	opts := DefaultCommonOptions()
	assert.Equal(t, 2*time.Minute, opts.Timeout)
	assert.Equal(t, "table", opts.Format)
}

func TestCommonOptions_OpenOutput(t *testing.T) {
	t.Parallel()

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		opts := CommonOptions{}
		w, closeFn, err := opts.OpenOutput(&buf)
		require.NoError(t, err)
		defer closeFn()
		assert.Same(t, &buf, w)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "report.json")
		opts := CommonOptions{OutFile: path}
		w, closeFn, err := opts.OpenOutput(&bytes.Buffer{})
		require.NoError(t, err)
		_, err = w.Write([]byte("{}"))
		require.NoError(t, err)
		closeFn()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(data))
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		opts := CommonOptions{OutFile: filepath.Join(t.TempDir(), "missing", "report.json")}
		_, _, err := opts.OpenOutput(&bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to create output file")
	})
}
