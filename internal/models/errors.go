package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for entity and history validation.
var (
	ErrMissingEntityID   = errors.New("entity id is required")
	ErrInvalidEntityType = errors.New("invalid entity type")
)

// Sentinel errors for history operations.
var (
	ErrVersionNotFound = errors.New("version not found")
	ErrEntityMismatch  = errors.New("entry belongs to a different entity")
)

// ErrVersionConflict indicates an append whose version does not advance the history.
var ErrVersionConflict = errors.New("version conflict")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
