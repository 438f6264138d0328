package schedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateScheduleRequest struct {
	Date                  string `json:"date"` // YYYY-MM-DD
	TotalPackageCount     *int   `json:"total_package_count"`
	IncludeFixedEmployees bool   `json:"include_fixed_employees"`

	ParsedDate time.Time `json:"-"`
}

func (r *CreateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is required"})
	} else if d, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	} else {
		r.ParsedDate = d
	}
	if r.TotalPackageCount == nil {
		errs = append(errs, validator.ValidationError{Field: "total_package_count", Message: "total_package_count is required"})
	} else if *r.TotalPackageCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "total_package_count", Message: "total_package_count must be a non-negative number"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateScheduleRequest struct {
	ID                    string  `json:"-"`
	Status                *string `json:"status,omitempty"`
	TotalPackageCount     *int    `json:"total_package_count,omitempty"`
	CompletedPackageCount *int    `json:"completed_package_count,omitempty"`
}

func (r *UpdateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !validator.IsInSlice(*r.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(StatusValues, ", ")})
	}
	if r.TotalPackageCount != nil && *r.TotalPackageCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "total_package_count", Message: "total_package_count must be a non-negative number"})
	}
	if r.CompletedPackageCount != nil && *r.CompletedPackageCount < 0 {
		errs = append(errs, validator.ValidationError{Field: "completed_package_count", Message: "completed_package_count must be a non-negative number"})
	}
	if r.Status == nil && r.TotalPackageCount == nil && r.CompletedPackageCount == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one field must be provided"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ScheduleFilter struct {
	From   *string `json:"from,omitempty"` // YYYY-MM-DD inclusive
	To     *string `json:"to,omitempty"`   // YYYY-MM-DD inclusive
	Status *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	FromDate *time.Time `json:"-"`
	ToDate   *time.Time `json:"-"`
}

func (f *ScheduleFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.From != nil {
		if d, ok := validator.IsValidDate(*f.From); ok {
			f.FromDate = &d
		} else {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		}
	}
	if f.To != nil {
		if d, ok := validator.IsValidDate(*f.To); ok {
			f.ToDate = &d
		} else {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		}
	}
	if f.FromDate != nil && f.ToDate != nil && f.ToDate.Before(*f.FromDate) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must not be before from"})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, StatusValues) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of: " + strings.Join(StatusValues, ", ")})
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

type AddEmployeesRequest struct {
	ScheduleID  string   `json:"-"`
	EmployeeIDs []string `json:"employee_ids"`
}

func (r *AddEmployeesRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.EmployeeIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must contain at least one id"})
	}
	seen := make(map[string]bool, len(r.EmployeeIDs))
	for _, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must not contain empty values"})
			break
		}
		if seen[id] {
			errs = append(errs, validator.ValidationError{Field: "employee_ids", Message: "employee_ids must not contain duplicates"})
			break
		}
		seen[id] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ShiftResponse struct {
	ID                    string `json:"id"`
	TotalPackageCount     int    `json:"total_package_count"`
	CompletedPackageCount int    `json:"completed_package_count"`
	Status                string `json:"status"`
}

type AssignmentResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	EmployeeType string  `json:"employee_type"`
	Task         *string `json:"task"`
	Efficiency   float64 `json:"efficiency"`
	Status       string  `json:"status"`
}

type WindowSummaryResponse struct {
	ID                 string  `json:"id"`
	Status             string  `json:"status"`
	TargetPackageCount *int    `json:"target_package_count,omitempty"`
	OpenedAt           string  `json:"opened_at"`
	ClosedAt           *string `json:"closed_at"`
}

type ScheduleResponse struct {
	ID          string                 `json:"id"`
	Date        string                 `json:"date"`
	Status      string                 `json:"status"`
	Shift       *ShiftResponse         `json:"shift,omitempty"`
	Assignments []AssignmentResponse   `json:"assignments,omitempty"`
	VET         *WindowSummaryResponse `json:"vet,omitempty"`
	VTO         *WindowSummaryResponse `json:"vto,omitempty"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
}

type ListScheduleResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Schedules  []ScheduleResponse `json:"schedules"`
}

// ToAssignmentResponse maps an assignment row to its JSON shape.
func ToAssignmentResponse(a Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeCode: a.EmployeeCode,
		EmployeeName: a.EmployeeName,
		EmployeeType: string(a.EmployeeType),
		Efficiency:   a.Efficiency,
		Status:       string(a.Status),
	}
	if a.Task != nil {
		t := string(*a.Task)
		resp.Task = &t
	}
	return resp
}
