package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/reglet-dev/classlist/internal/application/dto"
	apperrors "github.com/reglet-dev/classlist/internal/application/errors"
	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// ParseClassListUseCase reads and validates a class list without loading
// any classes.
type ParseClassListUseCase struct {
	loader ports.ClassListLoader
	logger *slog.Logger
}

// NewParseClassListUseCase creates a new parse use case.
func NewParseClassListUseCase(loader ports.ClassListLoader, logger *slog.Logger) *ParseClassListUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseClassListUseCase{loader: loader, logger: logger}
}

// Execute parses the class list. A malformed file is reported as the
// *entities.FormatError itself.
func (uc *ParseClassListUseCase) Execute(ctx context.Context, req dto.ParseClassListRequest) (*dto.ParseClassListResponse, error) {
	filter, err := buildEntryFilter(req.Filters)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("parsing class list", "path", req.ClassListPath)

	parsed, err := uc.loader.Load(ctx, req.ClassListPath)
	if err != nil {
		var fe *entities.FormatError
		if errors.As(err, &fe) {
			return nil, err
		}
		return nil, apperrors.NewValidationError("class_list", "failed to load class list", err.Error())
	}

	entries := filter.Apply(parsed.Entries)
	uc.logger.Debug("class list parsed",
		"entries", len(parsed.Entries),
		"selected", len(entries),
		"lines", parsed.Lines)

	return &dto.ParseClassListResponse{
		ClassListPath: req.ClassListPath,
		Entries:       entries,
		Directives:    parsed.Directives,
		Total:         len(parsed.Entries),
		Lines:         parsed.Lines,
	}, nil
}
