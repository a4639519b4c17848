package services

import "errors"

var (
	// ErrInvalidSelector marks a goal number outside 1..count. Summary
	// endpoints surface it as 400, distinct from the 404 returned when
	// the caller owns no goals at all.
	ErrInvalidSelector = errors.New("invalid goal number")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
)
