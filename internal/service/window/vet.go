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

type VETServiceImpl struct {
	windowBase
	db      database.Transactor
	vetRepo window.VETRepository
}

func NewVETService(
	db database.Transactor,
	vetRepo window.VETRepository,
	scheduleRepo schedule.ScheduleRepository,
	assignmentRepo schedule.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Service,
) window.VETService {
	return &VETServiceImpl{
		windowBase: windowBase{
			scheduleRepo:   scheduleRepo,
			assignmentRepo: assignmentRepo,
			employeeRepo:   employeeRepo,
			notifier:       notifier,
			now:            time.Now,
		},
		db:      db,
		vetRepo: vetRepo,
	}
}

func mapVETError(err error, action string) error {
	switch {
	case errors.Is(err, window.ErrVETNotFound):
		return window.ErrVETNotFound
	case errors.Is(err, window.ErrVETExists):
		return window.ErrVETExists
	}
	return fmt.Errorf("failed to %s vet: %w", action, err)
}

// notify queues a VET event. Mailed types go to the flex audience.
func (s *VETServiceImpl) notify(ctx context.Context, orgID string, sched schedule.Schedule, vet window.VET, eventType notification.Type, employeeID *string) {
	target := vet.TargetPackageCount
	event := notification.Event{
		Type:               eventType,
		OrganizationID:     orgID,
		ScheduleID:         sched.ID,
		ScheduleDate:       sched.Date,
		Window:             "VET",
		Status:             string(vet.Status),
		TargetPackageCount: &target,
		EmployeeID:         employeeID,
		OccurredAt:         s.now(),
	}
	if eventType.Emails() {
		recipients, err := s.flexAudience(ctx, orgID, sched.ID)
		if err != nil {
			slog.Error("failed to resolve vet recipients", "schedule_id", sched.ID, "error", err)
		}
		event.Recipients = recipients
	}
	s.notifier.Queue(ctx, event)
}

// OpenVET implements window.VETService.
func (s *VETServiceImpl) OpenVET(ctx context.Context, req window.OpenVETRequest) (window.VETResponse, error) {
	if err := req.Validate(); err != nil {
		return window.VETResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.VETResponse{}, err
	}

	sched, err := s.getSchedule(ctx, req.ScheduleID, orgID)
	if err != nil {
		return window.VETResponse{}, err
	}
	if sched.Status == schedule.StatusCompleted {
		return window.VETResponse{}, schedule.ErrScheduleCompleted
	}

	created, err := s.vetRepo.Create(ctx, window.VET{
		ScheduleID:         sched.ID,
		TargetPackageCount: req.TargetPackageCount,
		Status:             window.VETOpen,
		OpenedAt:           s.now(),
	})
	if err != nil {
		return window.VETResponse{}, mapVETError(err, "open")
	}

	s.notify(ctx, orgID, sched, created, notification.TypeVETOpened, nil)
	return window.ToVETResponse(created), nil
}

// GetVET implements window.VETService.
func (s *VETServiceImpl) GetVET(ctx context.Context, scheduleID string) (window.VETResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.VETResponse{}, err
	}

	sched, err := s.getSchedule(ctx, scheduleID, orgID)
	if err != nil {
		return window.VETResponse{}, err
	}

	vet, err := s.vetRepo.GetByScheduleID(ctx, sched.ID)
	if err != nil {
		return window.VETResponse{}, mapVETError(err, "get")
	}
	return window.ToVETResponse(vet), nil
}

// UpdateVET implements window.VETService.
func (s *VETServiceImpl) UpdateVET(ctx context.Context, req window.UpdateVETRequest) (window.VETResponse, error) {
	if err := req.Validate(); err != nil {
		return window.VETResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.VETResponse{}, err
	}

	sched, err := s.getSchedule(ctx, req.ScheduleID, orgID)
	if err != nil {
		return window.VETResponse{}, err
	}

	var updated window.VET
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		vet, err := s.vetRepo.GetByScheduleIDForUpdate(txCtx, sched.ID)
		if err != nil {
			return mapVETError(err, "lock")
		}

		now := s.now()
		switch window.Action(req.Action) {
		case window.ActionClose:
			err = vet.Close(now)
		case window.ActionReopen:
			err = vet.Reopen(now)
		}
		if err != nil {
			return err
		}

		updated, err = s.vetRepo.Update(txCtx, vet)
		if err != nil {
			return mapVETError(err, "update")
		}
		return nil
	})
	if err != nil {
		return window.VETResponse{}, err
	}

	eventType := notification.TypeVETClosed
	if window.Action(req.Action) == window.ActionReopen {
		eventType = notification.TypeVETReopened
	}
	s.notify(ctx, orgID, sched, updated, eventType, nil)

	return window.ToVETResponse(updated), nil
}

// ConfirmVET implements window.VETService.
func (s *VETServiceImpl) ConfirmVET(ctx context.Context, req window.EmployeeActionRequest) (window.ConfirmVETResponse, error) {
	if err := req.Validate(); err != nil {
		return window.ConfirmVETResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return window.ConfirmVETResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return window.ConfirmVETResponse{}, employee.ErrEmployeeNotFound
		}
		return window.ConfirmVETResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return window.ConfirmVETResponse{}, employee.ErrEmployeeInactive
	}
	if emp.Type != employee.TypeFlex {
		return window.ConfirmVETResponse{}, employee.ErrEmployeeNotFlex
	}

	var (
		sched      schedule.Schedule
		vet        window.VET
		assignment schedule.Assignment
		autoClosed bool
	)
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		sched, err = s.getSchedule(txCtx, req.ScheduleID, orgID)
		if err != nil {
			return err
		}

		vet, err = s.vetRepo.GetByScheduleIDForUpdate(txCtx, sched.ID)
		if err != nil {
			return mapVETError(err, "lock")
		}
		if vet.Status != window.VETOpen {
			return window.ErrVETNotOpen
		}

		_, err = s.assignmentRepo.GetByScheduleAndEmployee(txCtx, sched.ID, emp.ID)
		if err == nil {
			return schedule.ErrAlreadyAssigned
		}
		if !errors.Is(err, schedule.ErrAssignmentNotFound) {
			return fmt.Errorf("failed to check assignment: %w", err)
		}

		stower := employee.TaskStower
		assignment, err = s.assignmentRepo.Create(txCtx, schedule.Assignment{
			ScheduleID: sched.ID,
			EmployeeID: emp.ID,
			Task:       &stower,
			Efficiency: emp.StowerEfficiency,
			Status:     schedule.AssignmentScheduled,
		})
		if err != nil {
			if errors.Is(err, schedule.ErrAlreadyAssigned) {
				return schedule.ErrAlreadyAssigned
			}
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		autoClosed, err = vet.ApplyConfirmation(emp.StowerEfficiency, s.now())
		if err != nil {
			return err
		}

		vet, err = s.vetRepo.Update(txCtx, vet)
		if err != nil {
			return mapVETError(err, "update")
		}
		return nil
	})
	if err != nil {
		return window.ConfirmVETResponse{}, err
	}

	s.notify(ctx, orgID, sched, vet, notification.TypeVETConfirmed, &emp.ID)
	if autoClosed {
		s.notify(ctx, orgID, sched, vet, notification.TypeVETClosed, nil)
	}

	return window.ConfirmVETResponse{
		VET:          window.ToVETResponse(vet),
		EmployeeID:   emp.ID,
		Efficiency:   emp.StowerEfficiency,
		AutoClosed:   autoClosed,
		AssignmentID: assignment.ID,
	}, nil
}
