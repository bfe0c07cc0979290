package classlist

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/reglet-dev/classlist/internal/domain/services"
)

// Loader opens class list files and parses them.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load parses the class list at path. The file is closed on every path.
func (l *Loader) Load(ctx context.Context, path string) (*services.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class list %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.logger.Warn("failed to close class list", "path", path, "error", cerr)
		}
	}()

	return NewParser(path, l.logger).Parse(ctx, f)
}
