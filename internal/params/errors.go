package params

import (
	"errors"
	"fmt"
)

// ErrFrozen is returned by Register once bootstrap has completed.
var ErrFrozen = errors.New("parameter registry is frozen")

// ErrNotFinite rejects NaN and infinite numbers.
var ErrNotFinite = errors.New("number is not finite")

// ErrNotFound is returned by the typed getters for unknown parameters.
var ErrNotFound = errors.New("parameter not found")

// DuplicateParameterError reports a second registration of the same name
// within one namespace. The first registration stays in effect.
type DuplicateParameterError struct {
	Key      Key
	Existing Value
	Rejected Value
}

func (e *DuplicateParameterError) Error() string {
	return fmt.Sprintf("parameter %s already registered with value %s (rejected %s)", e.Key, e.Existing, e.Rejected)
}
