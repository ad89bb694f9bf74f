package versioning

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/printdesk/versions/internal/models"
)

// DiffOptions controls DiffFields.
type DiffOptions struct {
	// IncludeRemoved also reports fields present in the older record but
	// absent from the newer one.
	IncludeRemoved bool
}

// field is one top-level member of a record in its canonical JSON form.
type field struct {
	name string
	raw  json.RawMessage
}

// CompareVersions returns the names of the fields whose values differ between
// two snapshots, in the order they appear in newer.
//
// Values are compared by their encoding/json form. Struct fields encode in
// declaration order and map keys sort, so the encoding is deterministic. Only
// fields present in newer are examined: a field dropped from newer is not
// reported. A null value counts as absent.
func CompareVersions[T any](older, newer T) ([]string, error) {
	changes, err := diffRecords(older, newer, DiffOptions{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(changes))
	for _, c := range changes {
		names = append(names, c.Field)
	}

	return names, nil
}

// GetVersionDiff compares the data payloads of two version entries.
func GetVersionDiff[T models.Snapshot](v1, v2 models.VersionEntry[T]) ([]string, error) {
	return CompareVersions(v1.Data, v2.Data)
}

// DiffFields is CompareVersions with the old and new values of every change.
func DiffFields[T any](older, newer T, opts DiffOptions) ([]models.FieldChange, error) {
	return diffRecords(older, newer, opts)
}

func diffRecords(older, newer any, opts DiffOptions) ([]models.FieldChange, error) {
	oldFields, err := recordFields(older)
	if err != nil {
		return nil, fmt.Errorf("reading older record: %w", err)
	}

	newFields, err := recordFields(newer)
	if err != nil {
		return nil, fmt.Errorf("reading newer record: %w", err)
	}

	oldByName := make(map[string]json.RawMessage, len(oldFields))
	for _, f := range oldFields {
		oldByName[f.name] = f.raw
	}

	changes := make([]models.FieldChange, 0)
	seen := make(map[string]bool, len(newFields))

	for _, f := range newFields {
		seen[f.name] = true
		oldRaw := oldByName[f.name]

		switch {
		case isAbsent(f.raw) && isAbsent(oldRaw):
			continue
		case isAbsent(oldRaw):
			changes = append(changes, models.FieldChange{Field: f.name, Kind: models.ChangeAdded, NewValue: f.raw})
		case isAbsent(f.raw):
			changes = append(changes, models.FieldChange{Field: f.name, Kind: models.ChangeRemoved, OldValue: oldRaw})
		case !bytes.Equal(oldRaw, f.raw):
			changes = append(changes, models.FieldChange{
				Field: f.name, Kind: models.ChangeModified, OldValue: oldRaw, NewValue: f.raw,
			})
		}
	}

	if !opts.IncludeRemoved {
		return changes, nil
	}

	for _, f := range oldFields {
		if seen[f.name] || isAbsent(f.raw) {
			continue
		}

		changes = append(changes, models.FieldChange{Field: f.name, Kind: models.ChangeRemoved, OldValue: f.raw})
	}

	return changes, nil
}

// recordFields encodes v and splits the resulting JSON object into its
// members, preserving their order. A nil record has no fields.
func recordFields(v any) ([]field, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnserializable, err)
	}

	return objectFields(data)
}

func objectFields(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnserializable, err)
	}

	if tok == nil {
		return nil, nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: encodes as %s", ErrNotARecord, describeToken(tok))
	}

	var fields []field

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnserializable, err)
		}

		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: decoding field %q: %w", ErrUnserializable, key, err)
		}

		fields = append(fields, field{name: key, raw: raw})
	}

	return fields, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		if t == '[' {
			return "an array"
		}
		return string(t)
	case string:
		return "a string"
	case float64, json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", tok)
	}
}
