package domain

import "errors"

var (
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrNotFound       = errors.New("not found")
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrSessionInvalid covers refresh sessions that are revoked or past
	// expiry. Callers surface it as an authentication failure without
	// distinguishing the cause.
	ErrSessionInvalid = errors.New("refresh session invalid")
)
