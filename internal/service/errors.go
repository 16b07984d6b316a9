package service

import "errors"

var (
	ErrValidation = errors.New("validation")
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials covers both the unknown-email and the
	// wrong-password case; callers must not be able to tell them apart.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
)
