package engine

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// ClassResolver loads the class named by an entry.
type ClassResolver interface {
	Resolve(ctx context.Context, name values.ClassName, source string) (*entities.ResolvedClassInfo, error)
}

// Engine resolves class list entries concurrently.
type Engine struct {
	resolver ClassResolver
	logger   *slog.Logger
	config   Config
}

// NewEngine creates an engine backed by resolver.
func NewEngine(resolver ClassResolver, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultConfig().MaxConcurrency
	}
	return &Engine{resolver: resolver, config: cfg, logger: logger}
}

// ResolveAll resolves every entry and returns one Resolution per entry in
// input order. Per-entry failures are carried in Resolution.Err; the
// returned error is set only when ctx ends first.
func (e *Engine) ResolveAll(ctx context.Context, entries []*entities.ClassListEntry) ([]checking.Resolution, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	start := time.Now()
	results, err := e.resolveWithWorkerPool(ctx, entries)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("resolved classes",
		"entries", len(entries),
		"workers", e.config.MaxConcurrency,
		"duration", time.Since(start))
	return results, nil
}

func (e *Engine) resolveEntry(ctx context.Context, index int, entry *entities.ClassListEntry) checking.Resolution {
	start := time.Now()
	info, err := e.resolver.Resolve(ctx, entry.Name, entry.Source)
	res := checking.Resolution{
		Entry:    entry,
		Info:     info,
		Err:      err,
		Index:    index,
		Duration: time.Since(start),
	}
	if err != nil {
		e.logger.Debug("class resolution failed", "class", entry.Name.String(), "line", entry.Line, "error", err)
	}
	return res
}

// Close releases the resolver when it holds resources.
func (e *Engine) Close(_ context.Context) error {
	if c, ok := e.resolver.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
