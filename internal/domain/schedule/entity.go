package schedule

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
)

type Schedule struct {
	ID             string
	OrganizationID string
	Date           time.Time
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Shift       *Shift
	Assignments []Assignment
}

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var StatusValues = []string{
	string(StatusDraft),
	string(StatusConfirmed),
	string(StatusInProgress),
	string(StatusCompleted),
}

var statusOrder = map[Status]int{
	StatusDraft:      0,
	StatusConfirmed:  1,
	StatusInProgress: 2,
	StatusCompleted:  3,
}

// CanTransition allows staying in place or moving exactly one step forward.
func CanTransition(from, to Status) bool {
	f, okFrom := statusOrder[from]
	t, okTo := statusOrder[to]
	if !okFrom || !okTo {
		return false
	}
	return t == f || t == f+1
}

// Shift tracks the day's package target against completed packages.
type Shift struct {
	ID                    string
	ScheduleID            string
	TotalPackageCount     int
	CompletedPackageCount int
	Status                Status
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type AssignmentStatus string

const (
	AssignmentScheduled AssignmentStatus = "SCHEDULED"
	AssignmentReleased  AssignmentStatus = "RELEASED"
)

// Assignment is a ScheduleEmployee row.
type Assignment struct {
	ID         string
	ScheduleID string
	EmployeeID string
	Task       *employee.Task
	Efficiency float64
	Status     AssignmentStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined from employees on reads.
	EmployeeCode  string
	EmployeeName  string
	EmployeeEmail *string
	EmployeeType  employee.Type
}

// WindowSummary is the VET/VTO state shown on a schedule detail.
type WindowSummary struct {
	ID                 string
	Status             string
	TargetPackageCount *int
	OpenedAt           time.Time
	ClosedAt           *time.Time
}

type Windows struct {
	VET *WindowSummary
	VTO *WindowSummary
}
