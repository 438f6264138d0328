package window

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type OpenVETRequest struct {
	ScheduleID         string `json:"-"`
	TargetPackageCount int    `json:"target_package_count"`
}

func (r *OpenVETRequest) Validate() error {
	if r.TargetPackageCount <= 0 {
		return validator.ValidationErrors{{Field: "target_package_count", Message: "target_package_count must be greater than 0"}}
	}
	return nil
}

type UpdateVETRequest struct {
	ScheduleID string `json:"-"`
	Action     string `json:"action"`
}

func (r *UpdateVETRequest) Validate() error {
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	if !validator.IsInSlice(r.Action, VETActionValues) {
		return validator.ValidationErrors{{Field: "action", Message: "action must be one of: " + strings.Join(VETActionValues, ", ")}}
	}
	return nil
}

type UpdateVTORequest struct {
	ScheduleID string `json:"-"`
	Action     string `json:"action"`
}

func (r *UpdateVTORequest) Validate() error {
	r.Action = strings.ToLower(strings.TrimSpace(r.Action))
	if !validator.IsInSlice(r.Action, VTOActionValues) {
		return validator.ValidationErrors{{Field: "action", Message: "action must be one of: " + strings.Join(VTOActionValues, ", ")}}
	}
	return nil
}

// EmployeeActionRequest is the body of VET confirm and VTO accept.
type EmployeeActionRequest struct {
	ScheduleID string `json:"-"`
	EmployeeID string `json:"employee_id"`
}

func (r *EmployeeActionRequest) Validate() error {
	if validator.IsEmpty(r.EmployeeID) {
		return validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}
	return nil
}

type VETResponse struct {
	ID                 string  `json:"id"`
	ScheduleID         string  `json:"schedule_id"`
	TargetPackageCount int     `json:"target_package_count"`
	Status             string  `json:"status"`
	OpenedAt           string  `json:"opened_at"`
	ClosedAt           *string `json:"closed_at"`
}

type ConfirmVETResponse struct {
	VET          VETResponse `json:"vet"`
	EmployeeID   string      `json:"employee_id"`
	Efficiency   float64     `json:"efficiency"`
	AutoClosed   bool        `json:"auto_closed"`
	AssignmentID string      `json:"assignment_id"`
}

type VTOResponse struct {
	ID         string  `json:"id"`
	ScheduleID string  `json:"schedule_id"`
	Status     string  `json:"status"`
	OpenedAt   string  `json:"opened_at"`
	ClosedAt   *string `json:"closed_at"`
}

type AcceptVTOResponse struct {
	VTO        VTOResponse `json:"vto"`
	EmployeeID string      `json:"employee_id"`
	Status     string      `json:"status"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func ToVETResponse(v VET) VETResponse {
	return VETResponse{
		ID:                 v.ID,
		ScheduleID:         v.ScheduleID,
		TargetPackageCount: v.TargetPackageCount,
		Status:             string(v.Status),
		OpenedAt:           v.OpenedAt.Format(time.RFC3339),
		ClosedAt:           formatTimePtr(v.ClosedAt),
	}
}

func ToVTOResponse(v VTO) VTOResponse {
	return VTOResponse{
		ID:         v.ID,
		ScheduleID: v.ScheduleID,
		Status:     string(v.Status),
		OpenedAt:   v.OpenedAt.Format(time.RFC3339),
		ClosedAt:   formatTimePtr(v.ClosedAt),
	}
}
