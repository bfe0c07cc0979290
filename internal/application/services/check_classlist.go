// Package services contains application use cases.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/reglet-dev/classlist/internal/application/dto"
	apperrors "github.com/reglet-dev/classlist/internal/application/errors"
	"github.com/reglet-dev/classlist/internal/application/ports"
	"github.com/reglet-dev/classlist/internal/domain/checking"
	"github.com/reglet-dev/classlist/internal/domain/entities"
	"github.com/reglet-dev/classlist/internal/domain/repositories"
	"github.com/reglet-dev/classlist/internal/domain/services"
	"github.com/reglet-dev/classlist/internal/domain/values"
)

// SkipReasonFailFast marks entries left unchecked after an earlier failure.
const SkipReasonFailFast = "not checked: an earlier entry failed"

// CheckClassListUseCase orchestrates the complete class list check:
// parse the file, load every named class, then compare what each entry
// declares with what its class file contains.
type CheckClassListUseCase struct {
	loader        ports.ClassListLoader
	engineFactory ports.EngineFactory
	repository    repositories.CheckResultRepository
	logger        *slog.Logger
	toolVersion   string
}

// NewCheckClassListUseCase creates a new check use case. repository may be
// nil, in which case results are not stored.
func NewCheckClassListUseCase(
	loader ports.ClassListLoader,
	engineFactory ports.EngineFactory,
	repository repositories.CheckResultRepository,
	toolVersion string,
	logger *slog.Logger,
) *CheckClassListUseCase {
	if logger == nil {
		logger = slog.Default()
	}

	return &CheckClassListUseCase{
		loader:        loader,
		engineFactory: engineFactory,
		repository:    repository,
		toolVersion:   toolVersion,
		logger:        logger,
	}
}

// Execute runs the complete check workflow. Problems found in the class
// list are reported in the result; the returned error is reserved for
// failures that prevent checking at all.
func (uc *CheckClassListUseCase) Execute(ctx context.Context, req dto.CheckClassListRequest) (*dto.CheckClassListResponse, error) {
	startTime := time.Now()

	// 1. Validate options before touching the file
	filter, err := buildEntryFilter(req.Filters)
	if err != nil {
		return nil, err
	}
	policy, err := services.NewReleasePolicy(req.Release.Constraint, req.Release.Strict)
	if err != nil {
		return nil, apperrors.NewValidationError("release", err.Error())
	}

	result := checking.NewCheckResult(req.ClassListPath)
	result.ToolVersion = uc.toolVersion

	// 2. Phase 1: parse
	uc.logger.Info("loading class list", "path", req.ClassListPath)
	parsed, err := uc.loader.Load(ctx, req.ClassListPath)
	if err != nil {
		var fe *entities.FormatError
		if !errors.As(err, &fe) {
			return nil, apperrors.NewValidationError("class_list", "failed to load class list", err.Error())
		}
		uc.logger.Info("class list rejected", "line", fe.Line, "column", fe.Column, "kind", fe.Kind.String())
		result.AddDiagnostic(checking.NewErrorDiagnostic(fe))
		return uc.finish(ctx, req, startTime, result), nil
	}
	result.Directives = parsed.Directives

	uc.logger.Info("class list parsed", "entries", len(parsed.Entries), "ids", parsed.IDCount())

	// 3. Filters
	selected, indexes := uc.selectEntries(result, filter, parsed.Entries)

	// 4. Phase 2: resolve
	resolutions, err := uc.resolve(ctx, req, selected)
	if err != nil {
		return nil, err
	}

	// 5. Cross-validate in file order
	validator := services.NewCrossValidator(parsed.Registry)
	stopped := false
	for i, res := range resolutions {
		index := indexes[i]
		if stopped {
			result.AddEntryResult(checking.EntryResult{
				Entry:      res.Entry,
				Status:     values.StatusSkipped,
				SkipReason: SkipReasonFailFast,
				Index:      index,
			})
			continue
		}

		er := evaluate(res, validator, policy)
		er.Index = index
		result.AddEntryResult(er)

		if req.FailFast && (er.Status == values.StatusFail || er.Status == values.StatusError) {
			uc.logger.Debug("stopping at first failure", "line", res.Entry.Line, "class", res.Entry.Name.String())
			stopped = true
		}
	}

	return uc.finish(ctx, req, startTime, result), nil
}

// selectEntries records filtered-out entries as skipped and returns the
// rest together with their position in the class list.
func (uc *CheckClassListUseCase) selectEntries(
	result *checking.CheckResult,
	filter *services.EntryFilter,
	entries []*entities.ClassListEntry,
) ([]*entities.ClassListEntry, []int) {
	selected := make([]*entities.ClassListEntry, 0, len(entries))
	indexes := make([]int, 0, len(entries))

	for i, entry := range entries {
		if ok, reason := filter.Matches(entry); !ok {
			result.AddEntryResult(checking.EntryResult{
				Entry:      entry,
				Status:     values.StatusSkipped,
				SkipReason: reason,
				Index:      i,
			})
			continue
		}
		selected = append(selected, entry)
		indexes = append(indexes, i)
	}

	if skipped := len(entries) - len(selected); skipped > 0 {
		uc.logger.Debug("entries filtered", "skipped", skipped, "selected", len(selected))
	}
	return selected, indexes
}

func (uc *CheckClassListUseCase) resolve(
	ctx context.Context,
	req dto.CheckClassListRequest,
	entries []*entities.ClassListEntry,
) ([]checking.Resolution, error) {
	eng, err := uc.engineFactory.CreateEngine(ctx, req.Resolution.Classpath, req.Resolution.Workers)
	if err != nil {
		return nil, apperrors.NewConfigurationError("engine", "failed to create engine", err)
	}
	defer func() {
		if cerr := eng.Close(ctx); cerr != nil {
			uc.logger.Warn("failed to close engine", "error", cerr)
		}
	}()

	uc.logger.Info("resolving classes", "entries", len(entries), "classpath", len(req.Resolution.Classpath))
	resolutions, err := eng.ResolveAll(ctx, entries)
	if err != nil {
		return nil, apperrors.NewResolutionError(req.ClassListPath, "class resolution interrupted", err)
	}
	return resolutions, nil
}

// evaluate turns one resolution into an entry result.
func evaluate(res checking.Resolution, validator *services.CrossValidator, policy *services.ReleasePolicy) checking.EntryResult {
	entry := res.Entry
	name := entry.Name.String()
	er := checking.EntryResult{
		Entry:    entry,
		Resolved: res.Info,
		Status:   values.StatusPass,
		Duration: res.Duration,
	}

	if res.Err != nil {
		if res.NotFound() && !entry.HasSource() {
			er.Status = values.StatusSkipped
			er.SkipReason = "class not found"
			er.Diagnostics = append(er.Diagnostics,
				checking.NewWarning(entry.Line, name, fmt.Sprintf("Preload Warning: Cannot find %s", name)))
			return er
		}
		er.Status = values.StatusError
		er.Diagnostics = append(er.Diagnostics, entryError(entry, res.Err))
		return er
	}

	if err := validator.Validate(entry, res.Info); err != nil {
		er.Status = values.StatusFail
		er.Diagnostics = append(er.Diagnostics, entryError(entry, err))
		return er
	}

	warning, err := policy.Check(res.Info)
	if err != nil {
		er.Status = values.StatusFail
		er.Diagnostics = append(er.Diagnostics, entryError(entry, err))
		return er
	}
	if warning != "" {
		er.Diagnostics = append(er.Diagnostics, checking.NewWarning(entry.Line, name, warning))
	}
	return er
}

// entryError builds an error diagnostic positioned at the entry. Format
// errors keep their own column.
func entryError(entry *entities.ClassListEntry, err error) checking.Diagnostic {
	d := checking.NewErrorDiagnostic(err)
	d.ClassName = entry.Name.String()
	if d.Line == 0 {
		d.Line = entry.Line
		d.Column = entry.Pos.Name
	}
	return d
}

func (uc *CheckClassListUseCase) finish(
	ctx context.Context,
	req dto.CheckClassListRequest,
	startTime time.Time,
	result *checking.CheckResult,
) *dto.CheckClassListResponse {
	result.Finalize()

	if uc.repository != nil {
		if err := uc.repository.Save(ctx, result); err != nil {
			uc.logger.Warn("failed to store check result", "run_id", result.RunID.String(), "error", err)
		}
	}

	uc.logger.Info("check complete",
		"duration", result.Duration,
		"total_entries", result.Summary.TotalEntries,
		"passed", result.Summary.PassedEntries,
		"failed", result.Summary.FailedEntries,
		"errors", result.Summary.ErrorEntries,
		"skipped", result.Summary.SkippedEntries,
		"warnings", result.Summary.Warnings)

	return &dto.CheckClassListResponse{
		CheckResult: result,
		Metadata: dto.ResponseMetadata{
			RequestID:   req.Metadata.RequestID,
			ProcessedAt: time.Now(),
			Duration:    time.Since(startTime),
		},
	}
}
