package versioning

import (
	"fmt"
	"time"

	"github.com/printdesk/versions/internal/models"
)

type entryOptions struct {
	userID   string
	userName string
	fields   []string
	clock    Clock
}

// EntryOption customizes CreateVersion.
type EntryOption func(*entryOptions)

// WithUser attributes the entry to a user. Omit it for system-generated entries.
func WithUser(id, name string) EntryOption {
	return func(o *entryOptions) {
		o.userID = id
		o.userName = name
	}
}

// WithFieldsChanged records the caller's advisory list of changed fields.
func WithFieldsChanged(fields ...string) EntryOption {
	return func(o *entryOptions) {
		o.fields = append([]string(nil), fields...)
	}
}

// WithClock sets the time source for the entry timestamp.
func WithClock(c Clock) EntryOption {
	return func(o *entryOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// FormatISO renders t as a stored version timestamp (UTC, millisecond precision).
func FormatISO(t time.Time) string {
	return t.UTC().Format(models.TimestampLayout)
}

// CreateVersion captures data as a new version entry. The version is always 1:
// the constructor knows nothing of prior history, so callers appending to an
// existing history must assign the next version number themselves (see Record).
// The description is not validated.
func CreateVersion[T models.Snapshot](
	entityID string, data T, description string, opts ...EntryOption,
) models.VersionEntry[T] {
	o := entryOptions{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	return models.VersionEntry[T]{
		EntityID:          entityID,
		EntityType:        data.EntityType(),
		Version:           1,
		Timestamp:         FormatISO(o.clock.Now()),
		UserID:            o.userID,
		UserName:          o.userName,
		ChangeDescription: description,
		FieldsChanged:     o.fields,
		Data:              data,
	}
}

// Record creates an entry for data, numbers it after the latest entry in h and
// appends it. When no fields were supplied via WithFieldsChanged, the changed
// fields are computed against the latest entry.
func Record[T models.Snapshot](
	h *models.VersionedEntity[T], data T, description string, opts ...EntryOption,
) (models.VersionEntry[T], error) {
	entry := CreateVersion(h.EntityID, data, description, opts...)
	entry.Version = h.NextVersion()

	if entry.FieldsChanged == nil {
		if prev, ok := h.Latest(); ok {
			fields, err := GetVersionDiff(prev, entry)
			if err != nil {
				return models.VersionEntry[T]{}, fmt.Errorf("computing changed fields: %w", err)
			}

			entry.FieldsChanged = fields
		}
	}

	if err := h.Append(entry); err != nil {
		return models.VersionEntry[T]{}, fmt.Errorf("appending version %d: %w", entry.Version, err)
	}

	return entry, nil
}
