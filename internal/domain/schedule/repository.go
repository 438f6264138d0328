package schedule

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
)

type ScheduleRepository interface {
	Create(ctx context.Context, s Schedule) (Schedule, error)
	GetByID(ctx context.Context, id, organizationID string) (Schedule, error)
	List(ctx context.Context, organizationID string, filter ScheduleFilter) ([]Schedule, int64, error)
	UpdateStatus(ctx context.Context, id, organizationID string, status Status) error
	Delete(ctx context.Context, id, organizationID string) error
	// UpsertByDate returns the schedule for the date, creating it with status when missing.
	UpsertByDate(ctx context.Context, organizationID string, date time.Time, status Status) (Schedule, error)
	GetWindows(ctx context.Context, scheduleID string) (Windows, error)
}

type ShiftRepository interface {
	Create(ctx context.Context, shift Shift) (Shift, error)
	GetByScheduleID(ctx context.Context, scheduleID string) (Shift, error)
	Update(ctx context.Context, shift Shift) error
	UpsertTotal(ctx context.Context, scheduleID string, total int, status Status) (Shift, error)
	// RecomputeCompleted sets completed_package_count from the performance records of the schedule's date.
	RecomputeCompleted(ctx context.Context, scheduleID string) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, a Assignment) (Assignment, error)
	Upsert(ctx context.Context, a Assignment) (Assignment, error)
	GetByScheduleAndEmployee(ctx context.Context, scheduleID, employeeID string) (Assignment, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]Assignment, error)
	UpdateTask(ctx context.Context, scheduleID, employeeID string, task employee.Task, efficiency float64) error
	UpdateStatus(ctx context.Context, scheduleID, employeeID string, status AssignmentStatus) error
	Delete(ctx context.Context, scheduleID, employeeID string) error
	// CountScheduledSince counts SCHEDULED assignments per employee on schedules dated in [from, to).
	CountScheduledSince(ctx context.Context, employeeIDs []string, from, to time.Time) (map[string]int, error)
}
