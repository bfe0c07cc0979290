// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"
	"io"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/services"
	"github.com/reglet-dev/classlist/internal/domain/values"
	"github.com/reglet-dev/classlist/internal/infrastructure/system"
)

// ClassListLoader reads and validates a class list file (phase 1).
// A malformed file yields a *entities.FormatError.
type ClassListLoader interface {
	Load(ctx context.Context, path string) (*services.ParseResult, error)
}

// ClassResolver loads the class file an entry names. A class missing from
// every searched location yields an error matching entities.ErrClassNotFound.
type ClassResolver interface {
	Resolve(ctx context.Context, name values.ClassName, source string) (*entities.ResolvedClassInfo, error)
}

// ResolutionEngine resolves class list entries (phase 2).
type ResolutionEngine interface {
	ResolveAll(ctx context.Context, entries []*entities.ClassListEntry) ([]checking.Resolution, error)
	Close(ctx context.Context) error
}

// EngineFactory creates resolution engines for a classpath.
type EngineFactory interface {
	CreateEngine(ctx context.Context, classpath []string, workers int) (ResolutionEngine, error)
}

// SystemConfigProvider loads system configuration.
type SystemConfigProvider interface {
	LoadConfig(ctx context.Context, path string) (*system.Config, error)
}

// OutputFormatter formats check results.
type OutputFormatter interface {
	Format(result *checking.CheckResult) error
}

// FormatterOptions configures output formatting.
type FormatterOptions struct {
	// ClassListPath is used for file locations in reports.
	ClassListPath string
	Indent        bool
	NoColor       bool
}

// OutputFormatterFactory creates formatters by name.
type OutputFormatterFactory interface {
	Create(format string, writer io.Writer, options FormatterOptions) (OutputFormatter, error)
	SupportedFormats() []string
}
