// Package adapters provides infrastructure adapters that implement application ports.
// These adapters wrap existing infrastructure components to satisfy port interfaces.
package adapters

import (
	"context"
	"log/slog"

	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/infrastructure/classfile"
	"github.com/reglet-dev/classlist/internal/infrastructure/classlist"
	"github.com/reglet-dev/classlist/internal/infrastructure/engine"
	"github.com/reglet-dev/classlist/internal/infrastructure/system"
)

// Ensure adapters implement ports at compile time
var (
	_ ports.ClassListLoader      = (*classlist.Loader)(nil)
	_ ports.ClassResolver        = (*classfile.Resolver)(nil)
	_ ports.SystemConfigProvider = (*system.ConfigLoader)(nil)
	_ ports.ResolutionEngine     = (*engine.Engine)(nil)
	_ ports.EngineFactory        = (*EngineFactoryAdapter)(nil)
)

// EngineFactoryAdapter creates engines backed by a class file resolver.
type EngineFactoryAdapter struct {
	logger *slog.Logger
	// defaultClasspath is used when a request names no classpath.
	defaultClasspath []string
	defaultWorkers   int
}

// NewEngineFactoryAdapter creates a new engine factory adapter.
func NewEngineFactoryAdapter(defaultClasspath []string, defaultWorkers int, logger *slog.Logger) *EngineFactoryAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &EngineFactoryAdapter{
		defaultClasspath: defaultClasspath,
		defaultWorkers:   defaultWorkers,
		logger:           logger,
	}
}

// CreateEngine creates a resolution engine for classpath. The engine owns
// the resolver and closes it with Close.
func (f *EngineFactoryAdapter) CreateEngine(_ context.Context, classpath []string, workers int) (ports.ResolutionEngine, error) {
	if len(classpath) == 0 {
		classpath = f.defaultClasspath
	}
	if workers <= 0 {
		workers = f.defaultWorkers
	}

	cfg := engine.DefaultConfig()
	cfg.Classpath = classpath
	if workers > 0 {
		cfg.MaxConcurrency = workers
	}

	resolver := classfile.NewResolver(classpath, f.logger)
	f.logger.Debug("created resolution engine", "classpath", classpath, "workers", cfg.MaxConcurrency)
	return engine.NewEngine(resolver, cfg, f.logger), nil
}
