// Package models defines data types for versioned print-shop records.
package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EntityType is the domain category of a versioned record.
type EntityType string

// Supported entity types.
const (
	EntityOrder    EntityType = "order"
	EntityCustomer EntityType = "customer"
	EntityArtwork  EntityType = "artwork"
)

// EntityTypes lists every supported entity type in display order.
var EntityTypes = []EntityType{EntityOrder, EntityCustomer, EntityArtwork}

// Valid reports whether t is one of the supported entity types.
func (t EntityType) Valid() bool {
	switch t {
	case EntityOrder, EntityCustomer, EntityArtwork:
		return true
	default:
		return false
	}
}

func (t EntityType) String() string { return string(t) }

// ParseEntityType converts s (case-insensitive, surrounding space ignored) to an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (want order, customer or artwork)", ErrInvalidEntityType, s)
	}

	return t, nil
}

// Snapshot is implemented by every record shape that can be versioned.
// The entity type is a property of the payload type, so an entry's
// entity_type always agrees with its data.
type Snapshot interface {
	EntityType() EntityType
}

// Cloner is implemented by snapshots that hold slices, maps or pointers.
// Histories store and hand out clones so callers cannot rewrite past versions.
type Cloner[T any] interface {
	Clone() T
}

// NewEntityID returns a fresh random entity identifier.
func NewEntityID() string {
	return uuid.New().String()
}

const maxEntityIDLen = 255

// ValidateEntityID checks that id is present and within limits.
func ValidateEntityID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingEntityID
	}

	if len(id) > maxEntityIDLen {
		return ErrFieldTooLong("entity_id", maxEntityIDLen)
	}

	return nil
}
