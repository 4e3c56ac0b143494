package storage

import "errors"

var (
	// ErrUserNotFound is returned when a user row is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrNoDatabase is returned when a database-backed operation is invoked
	// without a configured database
	ErrNoDatabase = errors.New("no database configured")
)
