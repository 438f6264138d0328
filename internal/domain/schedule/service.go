package schedule

import "context"

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req CreateScheduleRequest) (ScheduleResponse, error)
	GetSchedule(ctx context.Context, id string) (ScheduleResponse, error)
	ListSchedules(ctx context.Context, filter ScheduleFilter) (ListScheduleResponse, error)
	UpdateSchedule(ctx context.Context, req UpdateScheduleRequest) (ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, id string) error

	// Assignments
	AddEmployees(ctx context.Context, req AddEmployeesRequest) ([]AssignmentResponse, error)
	RemoveEmployee(ctx context.Context, scheduleID, employeeID string) error
}
