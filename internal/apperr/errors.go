// Package apperr defines the sentinel errors shared across the plugin core.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrStoreFailure  = errors.New("store failure")
	ErrInvalidRoute  = errors.New("invalid route")
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidParameters is returned when a route is missing a required parameter.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// IsInvalidRequest reports whether err terminates an invocation without output.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRoute) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, ErrInvalidParameters)
}
