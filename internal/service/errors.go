package service

import "errors"

var (
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUnauthorized covers every credential failure: unknown user, wrong
	// password, missing/expired/revoked token. Internals are deliberately
	// not distinguished for the caller.
	ErrUnauthorized = errors.New("unauthorized")
)
