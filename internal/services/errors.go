package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the service layer. Handlers map these to HTTP
// status codes; everything else is treated as an internal failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrAlreadyActed    = errors.New("already acted")
)

// NotFound wraps ErrNotFound with a caller-facing message
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidArgument wraps ErrInvalidArgument with a caller-facing message
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// AlreadyActed wraps ErrAlreadyActed with a caller-facing message
func AlreadyActed(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAlreadyActed)
}
