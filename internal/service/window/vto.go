package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

type VTOServiceImpl struct {
	windowBase
	db      database.Transactor
	vtoRepo window.VTORepository
}

func NewVTOService(
	db database.Transactor,
	vtoRepo window.VTORepository,
	scheduleRepo schedule.ScheduleRepository,
	assignmentRepo schedule.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Service,
) window.VTOService {
	return &VTOServiceImpl{
		windowBase: windowBase{
			scheduleRepo:   scheduleRepo,
			assignmentRepo: assignmentRepo,
			employeeRepo:   employeeRepo,
			notifier:       notifier,
			now:            time.Now,
		},
		db:      db,
		vtoRepo: vtoRepo,
	}
}

func mapVTOError(err error, action string) error {
	switch {
	case errors.Is(err, window.ErrVTONotFound):
		return window.ErrVTONotFound
	case errors.Is(err, window.ErrVTOExists):
		return window.ErrVTOExists
	}
	return fmt.Errorf("failed to %s vto: %w", action, err)
}

func (s *VTOServiceImpl) notify(ctx context.Context, orgID string, sched schedule.Schedule, vto window.VTO, eventType notification.Type, employeeID *string) {
	event := notification.Event{
		Type:           eventType,
		OrganizationID: orgID,
		ScheduleID:     sched.ID,
		ScheduleDate:   sched.Date,
		Window:         "VTO",
		Status:         string(vto.Status),
		EmployeeID:     employeeID,
		OccurredAt:     s.now(),
	}
	if eventType.Emails() {
		recipients, err := s.scheduledAudience(ctx, sched.ID)
		if err != nil {
			slog.Error("failed to resolve vto recipients", "schedule_id", sched.ID, "error", err)
		}
		event.Recipients = recipients
	}
	s.notifier.Queue(ctx, event)
}

// OpenVTO implements window.VTOService.
func (s *VTOServiceImpl) OpenVTO(ctx context.Context, scheduleID string) (window.VTOResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.VTOResponse{}, err
	}

	sched, err := s.getSchedule(ctx, scheduleID, orgID)
	if err != nil {
		return window.VTOResponse{}, err
	}
	if sched.Status == schedule.StatusCompleted {
		return window.VTOResponse{}, schedule.ErrScheduleCompleted
	}

	created, err := s.vtoRepo.Create(ctx, window.VTO{
		ScheduleID: sched.ID,
		Status:     window.VTOOpen,
		OpenedAt:   s.now(),
	})
	if err != nil {
		return window.VTOResponse{}, mapVTOError(err, "open")
	}

	s.notify(ctx, orgID, sched, created, notification.TypeVTOOpened, nil)
	return window.ToVTOResponse(created), nil
}

// GetVTO implements window.VTOService.
func (s *VTOServiceImpl) GetVTO(ctx context.Context, scheduleID string) (window.VTOResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.VTOResponse{}, err
	}

	sched, err := s.getSchedule(ctx, scheduleID, orgID)
	if err != nil {
		return window.VTOResponse{}, err
	}

	vto, err := s.vtoRepo.GetByScheduleID(ctx, sched.ID)
	if err != nil {
		return window.VTOResponse{}, mapVTOError(err, "get")
	}
	return window.ToVTOResponse(vto), nil
}

// UpdateVTO implements window.VTOService.
func (s *VTOServiceImpl) UpdateVTO(ctx context.Context, req window.UpdateVTORequest) (window.VTOResponse, error) {
	if err := req.Validate(); err != nil {
		return window.VTOResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.VTOResponse{}, err
	}

	sched, err := s.getSchedule(ctx, req.ScheduleID, orgID)
	if err != nil {
		return window.VTOResponse{}, err
	}

	var updated window.VTO
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		vto, err := s.vtoRepo.GetByScheduleIDForUpdate(txCtx, sched.ID)
		if err != nil {
			return mapVTOError(err, "lock")
		}

		now := s.now()
		switch window.Action(req.Action) {
		case window.ActionClose:
			err = vto.Close(now)
		case window.ActionComplete:
			err = vto.Complete(now)
		case window.ActionReopen:
			err = vto.Reopen(now)
		}
		if err != nil {
			return err
		}

		updated, err = s.vtoRepo.Update(txCtx, vto)
		if err != nil {
			return mapVTOError(err, "update")
		}
		return nil
	})
	if err != nil {
		return window.VTOResponse{}, err
	}

	var eventType notification.Type
	switch window.Action(req.Action) {
	case window.ActionClose:
		eventType = notification.TypeVTOClosed
	case window.ActionComplete:
		eventType = notification.TypeVTOCompleted
	default:
		eventType = notification.TypeVTOReopened
	}
	s.notify(ctx, orgID, sched, updated, eventType, nil)

	return window.ToVTOResponse(updated), nil
}

// AcceptVTO implements window.VTOService.
func (s *VTOServiceImpl) AcceptVTO(ctx context.Context, req window.EmployeeActionRequest) (window.AcceptVTOResponse, error) {
	if err := req.Validate(); err != nil {
		return window.AcceptVTOResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.AcceptVTOResponse{}, err
	}

	sched, err := s.getSchedule(ctx, req.ScheduleID, orgID)
	if err != nil {
		return window.AcceptVTOResponse{}, err
	}

	var vto window.VTO
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		vto, err = s.vtoRepo.GetByScheduleIDForUpdate(txCtx, sched.ID)
		if err != nil {
			return mapVTOError(err, "lock")
		}
		if vto.Status != window.VTOOpen {
			return window.ErrVTONotOpen
		}

		a, err := s.assignmentRepo.GetByScheduleAndEmployee(txCtx, sched.ID, req.EmployeeID)
		if err != nil {
			if errors.Is(err, schedule.ErrAssignmentNotFound) {
				return schedule.ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to get assignment: %w", err)
		}
		if a.Status == schedule.AssignmentReleased {
			return window.ErrAssignmentReleased
		}

		if err := s.assignmentRepo.UpdateStatus(txCtx, sched.ID, req.EmployeeID, schedule.AssignmentReleased); err != nil {
			return fmt.Errorf("failed to release assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return window.AcceptVTOResponse{}, err
	}

	employeeID := req.EmployeeID
	s.notify(ctx, orgID, sched, vto, notification.TypeVTOAccepted, &employeeID)

	return window.AcceptVTOResponse{
		VTO:        window.ToVTOResponse(vto),
		EmployeeID: req.EmployeeID,
		Status:     string(schedule.AssignmentReleased),
	}, nil
}
