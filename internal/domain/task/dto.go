package task

import (
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type UpdateTaskRequest struct {
	ScheduleID string `json:"-"`
	EmployeeID string `json:"employee_id"`
	Task       string `json:"task"`

	ParsedTask employee.Task `json:"-"`
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if t, ok := employee.ParseTask(r.Task); ok {
		r.ParsedTask = t
	} else {
		errs = append(errs, validator.ValidationError{Field: "task", Message: "task must be one of: " + strings.Join(employee.TaskValues, ", ")})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BatchUpdateTasksRequest struct {
	ScheduleID  string              `json:"-"`
	Assignments []UpdateTaskRequest `json:"assignments"`
}

func (r *BatchUpdateTasksRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Assignments) == 0 {
		errs = append(errs, validator.ValidationError{Field: "assignments", Message: "assignments must contain at least one item"})
	}
	seen := make(map[string]bool, len(r.Assignments))
	for i := range r.Assignments {
		item := &r.Assignments[i]
		if err := item.Validate(); err != nil {
			errs = append(errs, validator.ValidationError{Field: "assignments", Message: "each assignment needs an employee_id and a valid task"})
			break
		}
		if seen[item.EmployeeID] {
			errs = append(errs, validator.ValidationError{Field: "assignments", Message: "an employee may appear only once"})
			break
		}
		seen[item.EmployeeID] = true
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApplyPlanRequest struct {
	ScheduleID string `json:"-"`
	Tier       string `json:"tier"`
}

func (r *ApplyPlanRequest) Validate() error {
	r.Tier = strings.ToUpper(strings.TrimSpace(r.Tier))
	if !validator.IsInSlice(r.Tier, TierValues) {
		return validator.ValidationErrors{{Field: "tier", Message: "tier must be one of: " + strings.Join(TierValues, ", ")}}
	}
	return nil
}

type WorkforcePlansResponse struct {
	ScheduleID string    `json:"schedule_id"`
	Date       string    `json:"date"`
	Headcount  Headcount `json:"headcount"`
	Plans      []Plan    `json:"plans"`
}

type ApplyPlanResponse struct {
	ScheduleID string `json:"schedule_id"`
	Plan       Plan   `json:"plan"`
}
