package performance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/excel"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

type PerformanceServiceImpl struct {
	db             database.Transactor
	recordRepo     performance.RecordRepository
	employeeRepo   employee.EmployeeRepository
	scheduleRepo   schedule.ScheduleRepository
	shiftRepo      schedule.ShiftRepository
	assignmentRepo schedule.AssignmentRepository
	planCache      cache.Cache
}

func NewPerformanceService(
	db database.Transactor,
	recordRepo performance.RecordRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.ScheduleRepository,
	shiftRepo schedule.ShiftRepository,
	assignmentRepo schedule.AssignmentRepository,
	planCache cache.Cache,
) performance.PerformanceService {
	return &PerformanceServiceImpl{
		db:             db,
		recordRepo:     recordRepo,
		employeeRepo:   employeeRepo,
		scheduleRepo:   scheduleRepo,
		shiftRepo:      shiftRepo,
		assignmentRepo: assignmentRepo,
		planCache:      planCache,
	}
}

// importRun carries the per-file lookups so repeated codes and dates hit the
// database once.
type importRun struct {
	orgID     string
	employees map[string]employee.Employee // by code
	schedules map[string]schedule.Schedule // by YYYY-MM-DD
	touched   map[string]bool              // employee ids
	result    performance.ImportResult
}

// ImportCSV implements performance.PerformanceService. Rows that parse are
// applied in a single transaction; any failure rolls back the whole file.
func (s *PerformanceServiceImpl) ImportCSV(ctx context.Context, file io.Reader) (performance.ImportResult, error) {
	if file == nil {
		return performance.ImportResult{}, performance.ErrFileRequired
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return performance.ImportResult{}, err
	}

	rows, rowErrs, err := performance.ParseCSV(file)
	if err != nil {
		return performance.ImportResult{}, err
	}

	run := &importRun{
		orgID:     orgID,
		employees: make(map[string]employee.Employee),
		schedules: make(map[string]schedule.Schedule),
		touched:   make(map[string]bool),
	}
	run.result.TotalRows = len(rows) + len(rowErrs)
	run.result.SkippedRows = len(rowErrs)
	run.result.Errors = append([]performance.RowError{}, rowErrs...)

	err = s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			if err := s.importRow(txCtx, run, row); err != nil {
				return fmt.Errorf("row %d: %w", row.Row, err)
			}
			run.result.ProcessedRows++
		}

		for _, sched := range run.schedules {
			if err := s.shiftRepo.RecomputeCompleted(txCtx, sched.ID); err != nil {
				return fmt.Errorf("failed to recompute completed packages: %w", err)
			}
		}

		for employeeID := range run.touched {
			records, err := s.recordRepo.ListByEmployee(txCtx, employeeID)
			if err != nil {
				return fmt.Errorf("failed to list performance records: %w", err)
			}
			if err := s.employeeRepo.UpdateEfficiencies(txCtx, employeeID, performance.RecomputeEfficiencies(records)); err != nil {
				return fmt.Errorf("failed to update efficiencies: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return performance.ImportResult{}, err
	}

	run.result.SchedulesTouched = len(run.schedules)
	for _, sched := range run.schedules {
		if err := s.planCache.Delete(ctx, task.PlanCacheKey(sched.ID)); err != nil {
			slog.Warn("failed to invalidate workforce plan cache", "schedule_id", sched.ID, "error", err)
		}
	}

	slog.Info("performance import finished",
		"organization_id", orgID,
		"processed", run.result.ProcessedRows,
		"skipped", run.result.SkippedRows,
		"employees_created", run.result.EmployeesCreated,
	)
	return run.result, nil
}

func (s *PerformanceServiceImpl) importRow(ctx context.Context, run *importRun, row performance.ImportRow) error {
	emp, err := s.findOrCreateEmployee(ctx, run, row.EmployeeCode)
	if err != nil {
		return err
	}

	dateKey := row.Date.Format("2006-01-02")
	sched, ok := run.schedules[dateKey]
	if !ok {
		sched, err = s.scheduleRepo.UpsertByDate(ctx, run.orgID, row.Date, schedule.StatusCompleted)
		if err != nil {
			return fmt.Errorf("failed to upsert schedule: %w", err)
		}
		run.schedules[dateKey] = sched
	}

	if _, err := s.shiftRepo.UpsertTotal(ctx, sched.ID, row.TotalPackages, schedule.StatusCompleted); err != nil {
		return fmt.Errorf("failed to upsert shift: %w", err)
	}

	t := row.Task
	if _, err := s.assignmentRepo.Upsert(ctx, schedule.Assignment{
		ScheduleID: sched.ID,
		EmployeeID: emp.ID,
		Task:       &t,
		Efficiency: performance.EfficiencyOf([]int{row.PackagesHandled}),
		Status:     schedule.AssignmentScheduled,
	}); err != nil {
		return fmt.Errorf("failed to upsert assignment: %w", err)
	}

	_, inserted, err := s.recordRepo.Upsert(ctx, performance.Record{
		OrganizationID:  run.orgID,
		EmployeeID:      emp.ID,
		Date:            row.Date,
		Task:            row.Task,
		PackagesHandled: row.PackagesHandled,
		TotalPackages:   row.TotalPackages,
		WorkingHours:    row.WorkingHours,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert performance record: %w", err)
	}
	if inserted {
		run.result.RecordsCreated++
	} else {
		run.result.RecordsUpdated++
	}

	run.touched[emp.ID] = true
	return nil
}

func (s *PerformanceServiceImpl) findOrCreateEmployee(ctx context.Context, run *importRun, code string) (employee.Employee, error) {
	if emp, ok := run.employees[code]; ok {
		return emp, nil
	}

	emp, err := s.employeeRepo.GetByCode(ctx, run.orgID, code)
	if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		emp, err = s.employeeRepo.Create(ctx, employee.Employee{
			OrganizationID: run.orgID,
			EmployeeCode:   code,
			Name:           code,
			Type:           employee.TypeFlex,
			WorkDays:       []int{},
			IsActive:       true,
		})
		if err != nil {
			return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
		}
		run.result.EmployeesCreated++
	}

	run.employees[code] = emp
	return emp, nil
}

func toRecordResponse(r performance.Record) performance.RecordResponse {
	return performance.RecordResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeCode:    r.EmployeeCode,
		EmployeeName:    r.EmployeeName,
		Date:            r.Date.Format("2006-01-02"),
		Task:            string(r.Task),
		PackagesHandled: r.PackagesHandled,
		TotalPackages:   r.TotalPackages,
		WorkingHours:    r.WorkingHours,
	}
}

// ListRecords implements performance.PerformanceService.
func (s *PerformanceServiceImpl) ListRecords(ctx context.Context, filter performance.RecordFilter) (performance.ListRecordResponse, error) {
	if err := filter.Validate(); err != nil {
		return performance.ListRecordResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return performance.ListRecordResponse{}, err
	}

	records, total, err := s.recordRepo.List(ctx, orgID, filter)
	if err != nil {
		return performance.ListRecordResponse{}, fmt.Errorf("failed to list performance records: %w", err)
	}

	responses := make([]performance.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, toRecordResponse(r))
	}

	return performance.ListRecordResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Records:    responses,
	}, nil
}

var exportColumns = []excel.Column{
	{Header: "Date", Width: 12},
	{Header: "Day", Width: 12},
	{Header: "Employee ID", Width: 16},
	{Header: "Name", Width: 28},
	{Header: "Role", Width: 14},
	{Header: "Packages Handled", Width: 18},
	{Header: "Total Packages", Width: 16},
	{Header: "Working Hours", Width: 15},
}

// ExportRecords implements performance.PerformanceService.
func (s *PerformanceServiceImpl) ExportRecords(ctx context.Context, filter performance.RecordFilter, w io.Writer) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return err
	}

	records, err := s.recordRepo.ListAll(ctx, orgID, filter)
	if err != nil {
		return fmt.Errorf("failed to list performance records: %w", err)
	}

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Date.Format("01/02/2006"),
			r.Date.Weekday().String(),
			r.EmployeeCode,
			r.EmployeeName,
			roleLabel(r.Task),
			r.PackagesHandled,
			r.TotalPackages,
			r.WorkingHours,
		})
	}

	if err := excel.WriteTable(w, "Performance", exportColumns, rows); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// roleLabel renders a task the way the import file spells it.
func roleLabel(t employee.Task) string {
	switch t {
	case employee.TaskInductor:
		return "Inductor"
	case employee.TaskDownstacker:
		return "Downstacker"
	case employee.TaskStower:
		return "Stower"
	}
	return string(t)
}
