package checking

import (
	"errors"
	"time"

	"github.com/reglet-dev/classlist/internal/domain/entities"
)

// Resolution pairs a class list entry with the class actually loaded for it.
type Resolution struct {
	Entry    *entities.ClassListEntry
	Info     *entities.ResolvedClassInfo
	Err      error
	Index    int
	Duration time.Duration
}

// NotFound reports whether resolution failed only because the class is
// absent from every searched location.
func (r Resolution) NotFound() bool {
	return errors.Is(r.Err, entities.ErrClassNotFound)
}
