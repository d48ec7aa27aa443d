package models

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid arguments")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures never disclose whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
