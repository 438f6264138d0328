package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

const (
	planCacheTTL = 5 * time.Minute
	historyDays  = 30
)

type TaskServiceImpl struct {
	db             database.Transactor
	scheduleRepo   schedule.ScheduleRepository
	assignmentRepo schedule.AssignmentRepository
	employeeRepo   employee.EmployeeRepository
	planCache      cache.Cache
}

func NewTaskService(
	db database.Transactor,
	scheduleRepo schedule.ScheduleRepository,
	assignmentRepo schedule.AssignmentRepository,
	employeeRepo employee.EmployeeRepository,
	planCache cache.Cache,
) task.TaskService {
	return &TaskServiceImpl{
		db:             db,
		scheduleRepo:   scheduleRepo,
		assignmentRepo: assignmentRepo,
		employeeRepo:   employeeRepo,
		planCache:      planCache,
	}
}

// cachedPlans is stored under task.PlanCacheKey. Fingerprint guards against
// assignment changes made outside this service, e.g. VET confirmations.
type cachedPlans struct {
	Fingerprint string                      `json:"fingerprint"`
	Response    task.WorkforcePlansResponse `json:"response"`
}

func fingerprint(assignments []schedule.Assignment) string {
	parts := make([]string, 0, len(assignments))
	for _, a := range assignments {
		parts = append(parts, a.EmployeeID+":"+string(a.Status))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (s *TaskServiceImpl) getSchedule(ctx context.Context, id, orgID string) (schedule.Schedule, error) {
	sched, err := s.scheduleRepo.GetByID(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleNotFound) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sched, nil
}

func (s *TaskServiceImpl) invalidatePlans(ctx context.Context, scheduleID string) {
	if err := s.planCache.Delete(ctx, task.PlanCacheKey(scheduleID)); err != nil {
		slog.Warn("failed to invalidate workforce plan cache", "schedule_id", scheduleID, "error", err)
	}
}

// ListTasks implements task.TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, scheduleID string) ([]schedule.AssignmentResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sched, err := s.getSchedule(ctx, scheduleID, orgID)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListBySchedule(ctx, sched.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	responses := make([]schedule.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, schedule.ToAssignmentResponse(a))
	}
	return responses, nil
}

// applyTask sets one assignment's task and snapshots the matching efficiency.
func (s *TaskServiceImpl) applyTask(ctx context.Context, orgID, scheduleID, employeeID string, t employee.Task) (schedule.Assignment, error) {
	a, err := s.assignmentRepo.GetByScheduleAndEmployee(ctx, scheduleID, employeeID)
	if err != nil {
		if errors.Is(err, schedule.ErrAssignmentNotFound) {
			return schedule.Assignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	if a.Status != schedule.AssignmentScheduled {
		return schedule.Assignment{}, task.ErrTaskNotAllowed
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return schedule.Assignment{}, employee.ErrEmployeeNotFound
		}
		return schedule.Assignment{}, fmt.Errorf("failed to get employee: %w", err)
	}

	efficiency := emp.EfficiencyFor(t)
	if err := s.assignmentRepo.UpdateTask(ctx, scheduleID, employeeID, t, efficiency); err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to update task: %w", err)
	}

	a.Task = &t
	a.Efficiency = efficiency
	a.EmployeeCode = emp.EmployeeCode
	a.EmployeeName = emp.Name
	a.EmployeeType = emp.Type
	return a, nil
}

// UpdateTask implements task.TaskService.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req task.UpdateTaskRequest) (schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignmentResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	var updated schedule.Assignment
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		sched, err := s.getSchedule(txCtx, req.ScheduleID, orgID)
		if err != nil {
			return err
		}
		updated, err = s.applyTask(txCtx, orgID, sched.ID, req.EmployeeID, req.ParsedTask)
		return err
	})
	if err != nil {
		return schedule.AssignmentResponse{}, err
	}

	s.invalidatePlans(ctx, req.ScheduleID)
	return schedule.ToAssignmentResponse(updated), nil
}

// BatchUpdateTasks implements task.TaskService.
func (s *TaskServiceImpl) BatchUpdateTasks(ctx context.Context, req task.BatchUpdateTasksRequest) ([]schedule.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]schedule.AssignmentResponse, 0, len(req.Assignments))
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		sched, err := s.getSchedule(txCtx, req.ScheduleID, orgID)
		if err != nil {
			return err
		}
		for _, item := range req.Assignments {
			updated, err := s.applyTask(txCtx, orgID, sched.ID, item.EmployeeID, item.ParsedTask)
			if err != nil {
				return err
			}
			responses = append(responses, schedule.ToAssignmentResponse(updated))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidatePlans(ctx, req.ScheduleID)
	return responses, nil
}

// buildPlans loads the scheduled employees with their recent history and runs the planner.
func (s *TaskServiceImpl) buildPlans(ctx context.Context, orgID string, sched schedule.Schedule, assignments []schedule.Assignment) (task.WorkforcePlansResponse, error) {
	ids := make([]string, 0, len(assignments))
	for _, a := range assignments {
		if a.Status == schedule.AssignmentScheduled {
			ids = append(ids, a.EmployeeID)
		}
	}

	resp := task.WorkforcePlansResponse{
		ScheduleID: sched.ID,
		Date:       sched.Date.Format("2006-01-02"),
		Headcount:  task.SplitHeadcount(len(ids)),
	}
	if len(ids) == 0 {
		resp.Plans = task.BuildPlans(nil)
		return resp, nil
	}

	employees, err := s.employeeRepo.GetByIDs(ctx, orgID, ids)
	if err != nil {
		return task.WorkforcePlansResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}

	counts, err := s.assignmentRepo.CountScheduledSince(ctx, ids, sched.Date.AddDate(0, 0, -historyDays), sched.Date)
	if err != nil {
		return task.WorkforcePlansResponse{}, fmt.Errorf("failed to count recent shifts: %w", err)
	}

	candidates := make([]task.Candidate, 0, len(employees))
	for _, emp := range employees {
		candidates = append(candidates, task.Candidate{
			EmployeeID:            emp.ID,
			Name:                  emp.Name,
			InductorEfficiency:    emp.InductorEfficiency,
			StowerEfficiency:      emp.StowerEfficiency,
			DownstackerEfficiency: emp.DownstackerEfficiency,
			TimesWorkedLast30Days: counts[emp.ID],
		})
	}

	resp.Headcount = task.SplitHeadcount(len(candidates))
	resp.Plans = task.BuildPlans(candidates)
	return resp, nil
}

// GetWorkforcePlans implements task.TaskService.
func (s *TaskServiceImpl) GetWorkforcePlans(ctx context.Context, scheduleID string) (task.WorkforcePlansResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return task.WorkforcePlansResponse{}, err
	}

	sched, err := s.getSchedule(ctx, scheduleID, orgID)
	if err != nil {
		return task.WorkforcePlansResponse{}, err
	}

	assignments, err := s.assignmentRepo.ListBySchedule(ctx, sched.ID)
	if err != nil {
		return task.WorkforcePlansResponse{}, fmt.Errorf("failed to list assignments: %w", err)
	}
	fp := fingerprint(assignments)
	key := task.PlanCacheKey(sched.ID)

	if raw, err := s.planCache.Get(ctx, key); err == nil {
		var cached cachedPlans
		if json.Unmarshal(raw, &cached) == nil && cached.Fingerprint == fp {
			return cached.Response, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		slog.Warn("failed to read workforce plan cache", "schedule_id", sched.ID, "error", err)
	}

	resp, err := s.buildPlans(ctx, orgID, sched, assignments)
	if err != nil {
		return task.WorkforcePlansResponse{}, err
	}

	if raw, err := json.Marshal(cachedPlans{Fingerprint: fp, Response: resp}); err == nil {
		if err := s.planCache.Set(ctx, key, raw, planCacheTTL); err != nil {
			slog.Warn("failed to write workforce plan cache", "schedule_id", sched.ID, "error", err)
		}
	}
	return resp, nil
}

// ApplyPlan implements task.TaskService.
func (s *TaskServiceImpl) ApplyPlan(ctx context.Context, req task.ApplyPlanRequest) (task.ApplyPlanResponse, error) {
	if err := req.Validate(); err != nil {
		return task.ApplyPlanResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return task.ApplyPlanResponse{}, err
	}

	var applied task.Plan
	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		sched, err := s.getSchedule(txCtx, req.ScheduleID, orgID)
		if err != nil {
			return err
		}
		if sched.Status == schedule.StatusCompleted {
			return schedule.ErrScheduleCompleted
		}

		assignments, err := s.assignmentRepo.ListBySchedule(txCtx, sched.ID)
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}

		plans, err := s.buildPlans(txCtx, orgID, sched, assignments)
		if err != nil {
			return err
		}

		for _, p := range plans.Plans {
			if p.Tier == task.Tier(req.Tier) {
				applied = p
				break
			}
		}
		if applied.Size() == 0 {
			return task.ErrNoScheduledEmployees
		}

		for employeeID, t := range applied.Allocation() {
			if _, err := s.applyTask(txCtx, orgID, sched.ID, employeeID, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return task.ApplyPlanResponse{}, err
	}

	s.invalidatePlans(ctx, req.ScheduleID)
	return task.ApplyPlanResponse{ScheduleID: req.ScheduleID, Plan: applied}, nil
}
