// Package container provides dependency injection for the application.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/application/services"
	"github.com/reglet-dev/classlist/internal/domain/repositories"
	"github.com/reglet-dev/classlist/internal/infrastructure/adapters"
	"github.com/reglet-dev/classlist/internal/infrastructure/classlist"
	badgerstore "github.com/reglet-dev/classlist/internal/infrastructure/persistence/badger"
	"github.com/reglet-dev/classlist/internal/infrastructure/persistence/memory"
	"github.com/reglet-dev/classlist/internal/infrastructure/redaction"
	"github.com/reglet-dev/classlist/internal/infrastructure/system"
	"github.com/reglet-dev/classlist/internal/version"
)

// Container holds all application dependencies.
type Container struct {
	loader                ports.ClassListLoader
	engineFactory         ports.EngineFactory
	results               repositories.CheckResultRepository
	checkClassListUseCase *services.CheckClassListUseCase
	parseClassListUseCase *services.ParseClassListUseCase
	redactor              *redaction.Redactor
	closers               []io.Closer
	systemCfg             *system.Config
	logger                *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Resolve config path; this follows the cmd layer when it passes one
	configPath := opts.SystemConfigPath
	if configPath == "" {
		if p, err := system.DefaultConfigPath(); err == nil {
			configPath = p
		}
	}

	// Load system config
	var systemConfig ports.SystemConfigProvider = system.NewConfigLoader()
	systemCfg, err := systemConfig.LoadConfig(context.TODO(), configPath)
	if err != nil {
		return nil, err
	}

	var redactor *redaction.Redactor
	if rc := systemCfg.Redaction; !rc.Disabled {
		redactor, err = redaction.New(redaction.Config{
			Patterns:        rc.Patterns,
			HashMode:        rc.HashMode,
			Salt:            rc.Salt,
			DisableGitleaks: rc.DisableGitleaks,
		})
		if err != nil {
			return nil, err
		}
	}

	loader := classlist.NewLoader(opts.Logger)
	engineFactory := adapters.NewEngineFactoryAdapter(systemCfg.Classpath, systemCfg.Workers, opts.Logger)
	var results repositories.CheckResultRepository = memory.NewCheckResultRepository()
	var closers []io.Closer
	if systemCfg.History.Enabled {
		path, err := systemCfg.HistoryPath()
		if err != nil {
			return nil, err
		}
		cfg := badgerstore.DefaultConfig(path)
		cfg.Logger = opts.Logger
		store, err := badgerstore.OpenCheckResultRepository(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open check history: %w", err)
		}
		results = store
		closers = append(closers, store)
	}

	// Wire up use cases
	checkClassListUseCase := services.NewCheckClassListUseCase(
		loader,
		engineFactory,
		results,
		version.Get().String(),
		opts.Logger,
	)
	parseClassListUseCase := services.NewParseClassListUseCase(loader, opts.Logger)

	return &Container{
		loader:                loader,
		engineFactory:         engineFactory,
		results:               results,
		checkClassListUseCase: checkClassListUseCase,
		parseClassListUseCase: parseClassListUseCase,
		redactor:              redactor,
		closers:               closers,
		systemCfg:             systemCfg,
		logger:                opts.Logger,
	}, nil
}

// CheckClassListUseCase returns the check use case.
func (c *Container) CheckClassListUseCase() *services.CheckClassListUseCase {
	return c.checkClassListUseCase
}

// ParseClassListUseCase returns the parse use case.
func (c *Container) ParseClassListUseCase() *services.ParseClassListUseCase {
	return c.parseClassListUseCase
}

// ClassListLoader returns the class list loader port.
func (c *Container) ClassListLoader() ports.ClassListLoader {
	return c.loader
}

// Results returns the check result repository.
func (c *Container) Results() repositories.CheckResultRepository {
	return c.results
}

// Redactor returns the report redactor, or nil when redaction is disabled.
func (c *Container) Redactor() *redaction.Redactor {
	return c.redactor
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Close releases resources held by the container.
func (c *Container) Close() error {
	var errs []error
	for _, closer := range c.closers {
		errs = append(errs, closer.Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
