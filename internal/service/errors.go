package service

import "errors"

// Common service errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// User service errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
)

// Question service errors
var (
	ErrQuestionNotFound = errors.New("question not found")
)

// Match service errors
var (
	ErrMatchNotFound = errors.New("match not found")
	ErrSamePlayer    = errors.New("a player cannot play against themselves")
)
