package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/permission"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// translate maps gorm errors onto the permission core's sentinel errors.
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	what := fmt.Sprintf(format, args...)

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, permission.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %w", what, permission.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
