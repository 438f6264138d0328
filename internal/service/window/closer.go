package window

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
)

type CloserImpl struct {
	windowBase
	vetRepo window.VETRepository
	vtoRepo window.VTORepository
}

func NewCloser(
	vetRepo window.VETRepository,
	vtoRepo window.VTORepository,
	assignmentRepo schedule.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Service,
) window.Closer {
	return &CloserImpl{
		windowBase: windowBase{
			assignmentRepo: assignmentRepo,
			employeeRepo:   employeeRepo,
			notifier:       notifier,
			now:            time.Now,
		},
		vetRepo: vetRepo,
		vtoRepo: vtoRepo,
	}
}

// ClosePastWindows implements window.Closer. Every window it closes is
// announced the same way a manual close is.
func (c *CloserImpl) ClosePastWindows(ctx context.Context) (int64, int64, error) {
	now := c.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	vets, err := c.vetRepo.CloseOpenBefore(ctx, today)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to close past vets: %w", err)
	}
	for _, w := range vets {
		c.notifyClosed(ctx, w, "VET", string(window.VETClosed), notification.TypeVETClosed)
	}

	vtos, err := c.vtoRepo.CloseOpenBefore(ctx, today)
	if err != nil {
		return int64(len(vets)), 0, fmt.Errorf("failed to close past vtos: %w", err)
	}
	for _, w := range vtos {
		c.notifyClosed(ctx, w, "VTO", string(window.VTOClosed), notification.TypeVTOClosed)
	}
	return int64(len(vets)), int64(len(vtos)), nil
}

func (c *CloserImpl) notifyClosed(ctx context.Context, w window.ClosedWindow, kind, status string, eventType notification.Type) {
	event := notification.Event{
		Type:               eventType,
		OrganizationID:     w.OrganizationID,
		ScheduleID:         w.ScheduleID,
		ScheduleDate:       w.ScheduleDate,
		Window:             kind,
		Status:             status,
		TargetPackageCount: w.TargetPackageCount,
		OccurredAt:         c.now(),
	}

	var err error
	if kind == "VET" {
		event.Recipients, err = c.flexAudience(ctx, w.OrganizationID, w.ScheduleID)
	} else {
		event.Recipients, err = c.scheduledAudience(ctx, w.ScheduleID)
	}
	if err != nil {
		slog.Error("failed to resolve closed window recipients", "window", kind, "schedule_id", w.ScheduleID, "error", err)
	}
	c.notifier.Queue(ctx, event)
}
