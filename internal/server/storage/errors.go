package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this email already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrCodeNotFound indicates that no matching unconsumed one-time code exists
	ErrCodeNotFound = errors.New("one-time code not found")
)
