package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type ScheduleServiceImpl struct {
	db             database.Transactor
	scheduleRepo   schedule.ScheduleRepository
	shiftRepo      schedule.ShiftRepository
	assignmentRepo schedule.AssignmentRepository
	employeeRepo   employee.EmployeeRepository
	planCache      cache.Cache
}

func NewScheduleService(
	db database.Transactor,
	scheduleRepo schedule.ScheduleRepository,
	shiftRepo schedule.ShiftRepository,
	assignmentRepo schedule.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	planCache cache.Cache,
) schedule.ScheduleService {
	return &ScheduleServiceImpl{
		db:             db,
		scheduleRepo:   scheduleRepo,
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		planCache:      planCache,
	}
}

func toShiftResponse(s schedule.Shift) *schedule.ShiftResponse {
	return &schedule.ShiftResponse{
		ID:                    s.ID,
		TotalPackageCount:     s.TotalPackageCount,
		CompletedPackageCount: s.CompletedPackageCount,
		Status:                string(s.Status),
	}
}

func toWindowSummaryResponse(w *schedule.WindowSummary) *schedule.WindowSummaryResponse {
	if w == nil {
		return nil
	}
	resp := &schedule.WindowSummaryResponse{
		ID:                 w.ID,
		Status:             w.Status,
		TargetPackageCount: w.TargetPackageCount,
		OpenedAt:           w.OpenedAt.Format(time.RFC3339),
	}
	if w.ClosedAt != nil {
		s := w.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &s
	}
	return resp
}

// ToScheduleResponse maps a schedule and whatever children were loaded.
func ToScheduleResponse(s schedule.Schedule) schedule.ScheduleResponse {
	resp := schedule.ScheduleResponse{
		ID:        s.ID,
		Date:      s.Date.Format("2006-01-02"),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
	if s.Shift != nil {
		resp.Shift = toShiftResponse(*s.Shift)
	}
	if s.Assignments != nil {
		resp.Assignments = make([]schedule.AssignmentResponse, 0, len(s.Assignments))
		for _, a := range s.Assignments {
			resp.Assignments = append(resp.Assignments, schedule.ToAssignmentResponse(a))
		}
	}
	return resp
}

func (s *ScheduleServiceImpl) invalidatePlans(ctx context.Context, scheduleID string) {
	if err := s.planCache.Delete(ctx, task.PlanCacheKey(scheduleID)); err != nil {
		slog.Warn("failed to invalidate workforce plan cache", "schedule_id", scheduleID, "error", err)
	}
}

func (s *ScheduleServiceImpl) getSchedule(ctx context.Context, id, orgID string) (schedule.Schedule, error) {
	sched, err := s.scheduleRepo.GetByID(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sched, nil
}

// CreateSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	var created schedule.Schedule
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.scheduleRepo.Create(txCtx, schedule.Schedule{
			OrganizationID: orgID,
			Date:           req.ParsedDate,
			Status:         schedule.StatusDraft,
		})
		if err != nil {
			if errors.Is(err, schedule.ErrScheduleExists) {
				return schedule.ErrScheduleExists
			}
			return fmt.Errorf("failed to create schedule: %w", err)
		}

		shift, err := s.shiftRepo.Create(txCtx, schedule.Shift{
			ScheduleID:        created.ID,
			TotalPackageCount: *req.TotalPackageCount,
			Status:            schedule.StatusDraft,
		})
		if err != nil {
			return fmt.Errorf("failed to create shift: %w", err)
		}
		created.Shift = &shift
		created.Assignments = []schedule.Assignment{}

		if !req.IncludeFixedEmployees {
			return nil
		}

		fixed, err := s.employeeRepo.ListActiveByType(txCtx, orgID, employee.TypeFixed)
		if err != nil {
			return fmt.Errorf("failed to list fixed employees: %w", err)
		}
		weekday := validator.ISOWeekday(req.ParsedDate)
		for _, emp := range fixed {
			if !emp.WorksOn(weekday) {
				continue
			}
			a, err := s.assignmentRepo.Create(txCtx, schedule.Assignment{
				ScheduleID: created.ID,
				EmployeeID: emp.ID,
				Efficiency: emp.AverageEfficiency,
				Status:     schedule.AssignmentScheduled,
			})
			if err != nil {
				return fmt.Errorf("failed to assign fixed employee %s: %w", emp.EmployeeCode, err)
			}
			a.EmployeeCode = emp.EmployeeCode
			a.EmployeeName = emp.Name
			a.EmployeeEmail = emp.Email
			a.EmployeeType = emp.Type
			created.Assignments = append(created.Assignments, a)
		}
		return nil
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	return ToScheduleResponse(created), nil
}

// GetSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, id string) (schedule.ScheduleResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	sched, err := s.getSchedule(ctx, id, orgID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	shift, err := s.shiftRepo.GetByScheduleID(ctx, sched.ID)
	if err != nil && !errors.Is(err, schedule.ErrShiftNotFound) {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to get shift: %w", err)
	}
	if err == nil {
		sched.Shift = &shift
	}

	assignments, err := s.assignmentRepo.ListBySchedule(ctx, sched.ID)
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}
	sched.Assignments = assignments
	if sched.Assignments == nil {
		sched.Assignments = []schedule.Assignment{}
	}

	windows, err := s.scheduleRepo.GetWindows(ctx, sched.ID)
	if err != nil {
		return schedule.ScheduleResponse{}, fmt.Errorf("failed to get windows: %w", err)
	}

	resp := ToScheduleResponse(sched)
	resp.VET = toWindowSummaryResponse(windows.VET)
	resp.VTO = toWindowSummaryResponse(windows.VTO)
	return resp, nil
}

// ListSchedules implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) ListSchedules(ctx context.Context, filter schedule.ScheduleFilter) (schedule.ListScheduleResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ListScheduleResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return schedule.ListScheduleResponse{}, err
	}

	schedules, total, err := s.scheduleRepo.List(ctx, orgID, filter)
	if err != nil {
		return schedule.ListScheduleResponse{}, fmt.Errorf("failed to list schedules: %w", err)
	}

	responses := make([]schedule.ScheduleResponse, 0, len(schedules))
	for _, sched := range schedules {
		responses = append(responses, ToScheduleResponse(sched))
	}

	return schedule.ListScheduleResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Schedules:  responses,
	}, nil
}

// UpdateSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) UpdateSchedule(ctx context.Context, req schedule.UpdateScheduleRequest) (schedule.ScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		sched, err := s.getSchedule(txCtx, req.ID, orgID)
		if err != nil {
			return err
		}

		shift, err := s.shiftRepo.GetByScheduleID(txCtx, sched.ID)
		if err != nil {
			if errors.Is(err, schedule.ErrShiftNotFound) {
				return schedule.ErrShiftNotFound
			}
			return fmt.Errorf("failed to get shift: %w", err)
		}

		if req.Status != nil {
			next := schedule.Status(*req.Status)
			if !schedule.CanTransition(sched.Status, next) {
				return schedule.ErrInvalidStatusTransition
			}
			if next != sched.Status {
				if err := s.scheduleRepo.UpdateStatus(txCtx, sched.ID, orgID, next); err != nil {
					return fmt.Errorf("failed to update schedule status: %w", err)
				}
			}
			shift.Status = next
		}
		if req.TotalPackageCount != nil {
			shift.TotalPackageCount = *req.TotalPackageCount
		}
		if req.CompletedPackageCount != nil {
			shift.CompletedPackageCount = *req.CompletedPackageCount
		}
		if shift.CompletedPackageCount > shift.TotalPackageCount {
			return schedule.ErrCompletedCountExceeded
		}

		if err := s.shiftRepo.Update(txCtx, shift); err != nil {
			return fmt.Errorf("failed to update shift: %w", err)
		}
		return nil
	})
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	return s.GetSchedule(ctx, req.ID)
}

// DeleteSchedule implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) DeleteSchedule(ctx context.Context, id string) error {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, id, orgID); err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	s.invalidatePlans(ctx, id)
	return nil
}

// AddEmployees implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) AddEmployees(ctx context.Context, req schedule.AddEmployeesRequest) ([]schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var responses []schedule.AssignmentResponse
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		sched, err := s.getSchedule(txCtx, req.ScheduleID, orgID)
		if err != nil {
			return err
		}
		if sched.Status == schedule.StatusCompleted {
			return schedule.ErrScheduleCompleted
		}

		employees, err := s.employeeRepo.GetByIDs(txCtx, orgID, req.EmployeeIDs)
		if err != nil {
			return fmt.Errorf("failed to get employees: %w", err)
		}
		if len(employees) != len(req.EmployeeIDs) {
			return employee.ErrEmployeeNotFound
		}

		responses = make([]schedule.AssignmentResponse, 0, len(employees))
		for _, emp := range employees {
			if !emp.IsActive {
				return employee.ErrEmployeeInactive
			}
			a, err := s.assignmentRepo.Create(txCtx, schedule.Assignment{
				ScheduleID: sched.ID,
				EmployeeID: emp.ID,
				Efficiency: emp.AverageEfficiency,
				Status:     schedule.AssignmentScheduled,
			})
			if err != nil {
				if errors.Is(err, schedule.ErrAlreadyAssigned) {
					return schedule.ErrAlreadyAssigned
				}
				return fmt.Errorf("failed to assign employee: %w", err)
			}
			a.EmployeeCode = emp.EmployeeCode
			a.EmployeeName = emp.Name
			a.EmployeeEmail = emp.Email
			a.EmployeeType = emp.Type
			responses = append(responses, schedule.ToAssignmentResponse(a))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePlans(ctx, req.ScheduleID)
	return responses, nil
}

// RemoveEmployee implements schedule.ScheduleService.
func (s *ScheduleServiceImpl) RemoveEmployee(ctx context.Context, scheduleID, employeeID string) error {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return err
	}

	sched, err := s.getSchedule(ctx, scheduleID, orgID)
	if err != nil {
		return err
	}
	if sched.Status == schedule.StatusCompleted {
		return schedule.ErrScheduleCompleted
	}

	if err := s.assignmentRepo.Delete(ctx, sched.ID, employeeID); err != nil {
		if errors.Is(err, schedule.ErrAssignmentNotFound) {
			return schedule.ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to remove employee: %w", err)
	}

	s.invalidatePlans(ctx, sched.ID)
	return nil
}
