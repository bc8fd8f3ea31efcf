package store

import "errors"

// ErrNotFound is returned when a record id does not exist in its collection.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when boundary input cannot form a valid record,
// e.g. a trip without a location or an unknown shift time.
var ErrValidation = errors.New("validation error")
