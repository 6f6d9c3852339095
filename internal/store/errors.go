package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a uniqueness constraint rejects a write.
	ErrConflict = errors.New("record already exists")
	// ErrUnavailable wraps transient storage failures. Callers may retry;
	// the store never retries internally.
	ErrUnavailable = errors.New("storage unavailable")
)

// translate maps gorm errors onto the store's sentinel errors. Uniqueness is
// enforced by database indexes, so a lost create race surfaces here as
// ErrConflict rather than a silent overwrite.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
