package store

import "errors"

// ErrNotFound indicates that the requested record could not be located.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicateEmail indicates a signup attempt with an email address
// that is already registered.
var ErrDuplicateEmail = errors.New("store: email already registered")
