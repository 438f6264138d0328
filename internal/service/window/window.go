package window

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
)

// windowBase holds the lookups shared by the VET and VTO services.
type windowBase struct {
	scheduleRepo   schedule.ScheduleRepository
	assignmentRepo schedule.AssignmentRepository
	employeeRepo   employee.EmployeeRepository
	notifier       notification.Service
	now            func() time.Time
}

func (b *windowBase) getSchedule(ctx context.Context, id, orgID string) (schedule.Schedule, error) {
	sched, err := b.scheduleRepo.GetByID(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sched, nil
}

// flexAudience is every active FLEX employee with an e-mail who is not on the schedule.
func (b *windowBase) flexAudience(ctx context.Context, orgID, scheduleID string) ([]notification.Recipient, error) {
	flex, err := b.employeeRepo.ListActiveByType(ctx, orgID, employee.TypeFlex)
	if err != nil {
		return nil, fmt.Errorf("failed to list flex employees: %w", err)
	}
	assignments, err := b.assignmentRepo.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	onSchedule := make(map[string]bool, len(assignments))
	for _, a := range assignments {
		onSchedule[a.EmployeeID] = true
	}

	recipients := make([]notification.Recipient, 0, len(flex))
	for _, emp := range flex {
		if onSchedule[emp.ID] || emp.Email == nil || *emp.Email == "" {
			continue
		}
		recipients = append(recipients, notification.Recipient{Name: emp.Name, Email: *emp.Email})
	}
	return recipients, nil
}

// scheduledAudience is every SCHEDULED employee on the schedule with an e-mail.
func (b *windowBase) scheduledAudience(ctx context.Context, scheduleID string) ([]notification.Recipient, error) {
	assignments, err := b.assignmentRepo.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	recipients := make([]notification.Recipient, 0, len(assignments))
	for _, a := range assignments {
		if a.Status != schedule.AssignmentScheduled || a.EmployeeEmail == nil || *a.EmployeeEmail == "" {
			continue
		}
		recipients = append(recipients, notification.Recipient{Name: a.EmployeeName, Email: *a.EmployeeEmail})
	}
	return recipients, nil
}
