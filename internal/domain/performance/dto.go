package performance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type ImportResult struct {
	TotalRows        int        `json:"total_rows"`
	ProcessedRows    int        `json:"processed_rows"`
	SkippedRows      int        `json:"skipped_rows"`
	EmployeesCreated int        `json:"employees_created"`
	RecordsCreated   int        `json:"records_created"`
	RecordsUpdated   int        `json:"records_updated"`
	SchedulesTouched int        `json:"schedules_touched"`
	Errors           []RowError `json:"errors"`
}

type RecordFilter struct {
	From       *string `json:"from,omitempty"`
	To         *string `json:"to,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
	Task       *string `json:"task,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	FromDate *time.Time `json:"-"`
	ToDate   *time.Time `json:"-"`
}

func (f *RecordFilter) Validate() error {
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
	if f.Task != nil {
		if t, ok := employee.ParseTask(*f.Task); ok {
			s := string(t)
			f.Task = &s
		} else {
			errs = append(errs, validator.ValidationError{Field: "task", Message: "task must be one of: " + strings.Join(employee.TaskValues, ", ")})
		}
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
		f.Limit = 50
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 500"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeCode    string  `json:"employee_code"`
	EmployeeName    string  `json:"employee_name"`
	Date            string  `json:"date"`
	Task            string  `json:"task"`
	PackagesHandled int     `json:"packages_handled"`
	TotalPackages   int     `json:"total_packages"`
	WorkingHours    float64 `json:"working_hours"`
}

type ListRecordResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}
