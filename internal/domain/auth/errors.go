package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrOwnerRequired      = errors.New("owner role required")
	ErrManagerRequired    = errors.New("manager or owner role required")
	ErrOrganizationNeeded = errors.New("user does not belong to an organization")
)
