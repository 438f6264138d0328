package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrAlreadyMember        = errors.New("user already belongs to an organization")
)
