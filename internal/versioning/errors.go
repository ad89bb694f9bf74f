package versioning

import "errors"

// Sentinel errors returned by the comparator and formatter.
var (
	ErrUnserializable   = errors.New("record cannot be serialized")
	ErrNotARecord       = errors.New("value is not a record")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)
