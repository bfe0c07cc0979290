package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{
			name: "success",
			code: exitOK,
		},
		{
			name:   "check failed",
			err:    fmt.Errorf("%w: 1 passed, 1 failed, 0 errors, 0 skipped", errCheckFailed),
			code:   exitCheckFailed,
			stderr: "check failed: 1 passed, 1 failed, 0 errors, 0 skipped\n",
		},
		{
			name:   "other error",
			err:    errors.New("unknown format: xml"),
			code:   exitError,
			stderr: "Error: unknown format: xml\n",
		},
		{
			name:   "history disabled",
			err:    errHistoryDisabled,
			code:   exitError,
			stderr: "Error: " + errHistoryDisabled.Error() + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.code, exitCode(tt.err, &buf))
			assert.Equal(t, tt.stderr, buf.String())
		})
	}
}
