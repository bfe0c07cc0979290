package services

import (
	"fmt"

	"github.com/reglet-dev/classlist/internal/application/dto"
	apperrors "github.com/reglet-dev/classlist/internal/application/errors"
	"github.com/reglet-dev/classlist/internal/domain/services"
)

// buildEntryFilter validates filter options and compiles the filter expression.
func buildEntryFilter(filters dto.FilterOptions) (*services.EntryFilter, error) {
	filter := services.NewEntryFilter().
		WithPackages(filters.Packages).
		WithSourceOnly(filters.SourceOnly)

	if filters.FilterExpression != "" {
		program, err := services.CompileFilter(filters.FilterExpression)
		if err != nil {
			return nil, apperrors.NewValidationError(
				"filters",
				fmt.Sprintf("invalid --filter expression: %v\nExample: package == 'java/lang' && source != ''", err),
			)
		}
		filter = filter.WithFilterExpression(program)
	}
	return filter, nil
}
