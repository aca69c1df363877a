package repository

import "errors"

// ErrDuplicateEmail is returned when a user insert violates the unique
// email index.
var ErrDuplicateEmail = errors.New("email already registered")
