package domain

import "errors"

// Authentication failures. ErrInvalidCredentials covers both unknown
// username and wrong password so responses cannot be used to enumerate
// accounts.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// Directory conflicts and lookups.
var (
	ErrUsernameTaken = errors.New("username is already taken")
	ErrEmailTaken    = errors.New("email is already in use")
	ErrUserNotFound  = errors.New("user not found")
	ErrForbidden     = errors.New("access forbidden")
)

// ErrRoleNotConfigured signals a role catalog missing one of the canonical
// roles. This is a data-integrity fault, fatal at first use, never retried.
var ErrRoleNotConfigured = errors.New("role is not configured")
