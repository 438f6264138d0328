package organization

import (
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type UpsertOrganizationRequest struct {
	Name string `json:"name"`
}

func (r *UpsertOrganizationRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	} else if len(r.Name) > 120 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 120 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type OrganizationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateOrganizationResponse struct {
	Organization OrganizationResponse `json:"organization"`
	AccessToken  string               `json:"access_token"`
	ExpiresAt    int64                `json:"expires_at"`
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MemberRoleValues are the roles an owner may grant.
var MemberRoleValues = []string{"MANAGER", "MEMBER"}

func (r *AddMemberRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	r.Role = strings.ToUpper(strings.TrimSpace(r.Role))
	if !validator.IsInSlice(r.Role, MemberRoleValues) {
		errs = append(errs, validator.ValidationError{Field: "role", Message: "role must be one of: " + strings.Join(MemberRoleValues, ", ")})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MemberResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}
