package directory

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the lookup under the
	// current application.
	ErrUserNotFound = errors.New("directory.user_not_found")

	// ErrUserExists is returned when registering a username already taken
	// under the current application.
	ErrUserExists = errors.New("directory.user_exists")

	// ErrInvalidCredentials is returned when a password check fails.
	ErrInvalidCredentials = errors.New("directory.invalid_credentials")
)
