package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for stored version timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// VersionEntry is an immutable snapshot of a record at one point in time.
type VersionEntry[T Snapshot] struct {
	EntityID          string     `json:"entity_id"`
	EntityType        EntityType `json:"entity_type"`
	Version           int        `json:"version"`
	Timestamp         string     `json:"timestamp"`
	UserID            string     `json:"user_id,omitempty"`
	UserName          string     `json:"user_name,omitempty"`
	ChangeDescription string     `json:"change_description"`
	FieldsChanged     []string   `json:"fields_changed,omitempty"`
	Data              T          `json:"data"`
}

// Time parses the entry timestamp.
func (e VersionEntry[T]) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp of version %d: %w", e.Version, err)
	}

	return t, nil
}

// SystemGenerated reports whether the entry carries no user attribution.
func (e VersionEntry[T]) SystemGenerated() bool {
	return e.UserID == "" && e.UserName == ""
}

// cloneEntry copies e so the result shares no mutable state with it.
func cloneEntry[T Snapshot](e VersionEntry[T]) VersionEntry[T] {
	e.FieldsChanged = slices.Clone(e.FieldsChanged)
	if c, ok := any(e.Data).(Cloner[T]); ok {
		e.Data = c.Clone()
	}

	return e
}

// VersionedEntity is the append-only version history of one record.
// Versions are ordered oldest first.
type VersionedEntity[T Snapshot] struct {
	EntityID       string            `json:"entity_id"`
	EntityType     EntityType        `json:"entity_type"`
	CurrentVersion int               `json:"current_version"`
	Versions       []VersionEntry[T] `json:"versions"`
}

// NewVersionedEntity creates an empty history for entityID. The entity type
// is taken from the snapshot type.
func NewVersionedEntity[T Snapshot](entityID string) *VersionedEntity[T] {
	var zero T

	return &VersionedEntity[T]{
		EntityID:   entityID,
		EntityType: zero.EntityType(),
		Versions:   []VersionEntry[T]{},
	}
}

// NextVersion returns the version number the next appended entry must carry.
func (e *VersionedEntity[T]) NextVersion() int {
	return e.CurrentVersion + 1
}

// Len returns the number of entries in the history.
func (e *VersionedEntity[T]) Len() int {
	return len(e.Versions)
}

// Append adds entry to the end of the history. The entry must belong to this
// entity and its version must be greater than CurrentVersion.
func (e *VersionedEntity[T]) Append(entry VersionEntry[T]) error {
	if entry.EntityID != e.EntityID || entry.EntityType != e.EntityType {
		return fmt.Errorf("%w: got %s/%s, want %s/%s",
			ErrEntityMismatch, entry.EntityType, entry.EntityID, e.EntityType, e.EntityID)
	}

	if entry.Version <= e.CurrentVersion {
		return fmt.Errorf("%w: version %d does not follow current version %d",
			ErrVersionConflict, entry.Version, e.CurrentVersion)
	}

	e.Versions = append(e.Versions, cloneEntry(entry))
	e.CurrentVersion = entry.Version

	return nil
}

// Entries returns a copy of the history, oldest first. Payloads that
// implement Cloner are deep-copied.
func (e *VersionedEntity[T]) Entries() []VersionEntry[T] {
	out := make([]VersionEntry[T], len(e.Versions))
	for i, v := range e.Versions {
		out[i] = cloneEntry(v)
	}

	return out
}

// Entry returns the entry with the given version number.
func (e *VersionedEntity[T]) Entry(version int) (VersionEntry[T], error) {
	for _, v := range e.Versions {
		if v.Version == version {
			return cloneEntry(v), nil
		}
	}

	return VersionEntry[T]{}, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
}

// Latest returns the most recent entry, or false if the history is empty.
func (e *VersionedEntity[T]) Latest() (VersionEntry[T], bool) {
	if len(e.Versions) == 0 {
		return VersionEntry[T]{}, false
	}

	return cloneEntry(e.Versions[len(e.Versions)-1]), true
}

// Validate checks a history loaded from outside the process: entity id and
// type present, every entry belonging to the entity, versions strictly
// increasing, and CurrentVersion matching the last entry.
func (e *VersionedEntity[T]) Validate() error {
	if err := ValidateEntityID(e.EntityID); err != nil {
		return err
	}

	var zero T
	if e.EntityType != zero.EntityType() {
		return fmt.Errorf("%w: history is %q, payload is %q", ErrInvalidEntityType, e.EntityType, zero.EntityType())
	}

	prev := 0
	for i, v := range e.Versions {
		if v.EntityID != e.EntityID || v.EntityType != e.EntityType {
			return fmt.Errorf("entry %d: %w", i, ErrEntityMismatch)
		}

		if v.Version <= prev {
			return fmt.Errorf("entry %d: %w: version %d after %d", i, ErrVersionConflict, v.Version, prev)
		}

		prev = v.Version
	}

	if e.CurrentVersion != prev {
		return fmt.Errorf("%w: current_version %d, last entry %d", ErrVersionConflict, e.CurrentVersion, prev)
	}

	return nil
}

// ChangeKind classifies a single field change.
type ChangeKind string

// Field change kinds.
const (
	ChangeModified ChangeKind = "changed"
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
)

// FieldChange is one field whose value differs between two snapshots.
// Values are the canonical JSON encodings; a nil value means absent.
type FieldChange struct {
	Field    string          `json:"field"`
	Kind     ChangeKind      `json:"kind"`
	OldValue json.RawMessage `json:"old_value,omitempty"`
	NewValue json.RawMessage `json:"new_value,omitempty"`
}

// ChangeSummary describes one version in a change log.
type ChangeSummary struct {
	Version           int      `json:"version"`
	Timestamp         string   `json:"timestamp"`
	UserID            string   `json:"user_id,omitempty"`
	UserName          string   `json:"user_name,omitempty"`
	ChangeDescription string   `json:"change_description"`
	FieldsChanged     []string `json:"fields_changed"`
}
