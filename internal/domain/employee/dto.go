package employee

import (
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	EmployeeCode          string   `json:"employee_code"`
	Name                  string   `json:"name"`
	Email                 *string  `json:"email,omitempty"`
	Type                  string   `json:"type"`
	WorkDays              []int    `json:"work_days"`
	InductorEfficiency    *float64 `json:"inductor_efficiency,omitempty"`
	StowerEfficiency      *float64 `json:"stower_efficiency,omitempty"`
	DownstackerEfficiency *float64 `json:"downstacker_efficiency,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if r.Email != nil && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if !validator.IsInSlice(r.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: " + strings.Join(TypeValues, ", ")})
	}
	errs = append(errs, validateWorkDays(r.WorkDays)...)
	errs = append(errs, validateEfficiency("inductor_efficiency", r.InductorEfficiency)...)
	errs = append(errs, validateEfficiency("stower_efficiency", r.StowerEfficiency)...)
	errs = append(errs, validateEfficiency("downstacker_efficiency", r.DownstackerEfficiency)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID                    string   `json:"-"`
	Name                  *string  `json:"name,omitempty"`
	Email                 *string  `json:"email,omitempty"`
	Type                  *string  `json:"type,omitempty"`
	WorkDays              []int    `json:"work_days,omitempty"`
	InductorEfficiency    *float64 `json:"inductor_efficiency,omitempty"`
	StowerEfficiency      *float64 `json:"stower_efficiency,omitempty"`
	DownstackerEfficiency *float64 `json:"downstacker_efficiency,omitempty"`
	IsActive              *bool    `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if r.Email != nil && *r.Email != "" && !validator.IsValidEmail(*r.Email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: " + strings.Join(TypeValues, ", ")})
	}
	errs = append(errs, validateWorkDays(r.WorkDays)...)
	errs = append(errs, validateEfficiency("inductor_efficiency", r.InductorEfficiency)...)
	errs = append(errs, validateEfficiency("stower_efficiency", r.StowerEfficiency)...)
	errs = append(errs, validateEfficiency("downstacker_efficiency", r.DownstackerEfficiency)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateWorkDays(days []int) validator.ValidationErrors {
	seen := make(map[int]bool, len(days))
	for _, d := range days {
		if !validator.IsValidWeekday(d) {
			return validator.ValidationErrors{{Field: "work_days", Message: "work_days must contain values between 1 (Monday) and 7 (Sunday)"}}
		}
		if seen[d] {
			return validator.ValidationErrors{{Field: "work_days", Message: "work_days must not contain duplicates"}}
		}
		seen[d] = true
	}
	return nil
}

func validateEfficiency(field string, v *float64) validator.ValidationErrors {
	if v != nil && *v < 0 {
		return validator.ValidationErrors{{Field: field, Message: field + " must be a non-negative number"}}
	}
	return nil
}

type EmployeeFilter struct {
	Type            *string `json:"type,omitempty"`
	Search          *string `json:"search,omitempty"`
	IncludeInactive bool    `json:"include_inactive"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Type != nil && !validator.IsInSlice(*f.Type, TypeValues) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "type must be one of: " + strings.Join(TypeValues, ", ")})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                    string  `json:"id"`
	EmployeeCode          string  `json:"employee_code"`
	Name                  string  `json:"name"`
	Email                 *string `json:"email"`
	Type                  string  `json:"type"`
	WorkDays              []int   `json:"work_days"`
	InductorEfficiency    float64 `json:"inductor_efficiency"`
	StowerEfficiency      float64 `json:"stower_efficiency"`
	DownstackerEfficiency float64 `json:"downstacker_efficiency"`
	AverageEfficiency     float64 `json:"average_efficiency"`
	IsActive              bool    `json:"is_active"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Employees  []EmployeeResponse `json:"employees"`
}
