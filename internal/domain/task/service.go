package task

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
)

type TaskService interface {
	ListTasks(ctx context.Context, scheduleID string) ([]schedule.AssignmentResponse, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (schedule.AssignmentResponse, error)
	// BatchUpdateTasks applies every item or none.
	BatchUpdateTasks(ctx context.Context, req BatchUpdateTasksRequest) ([]schedule.AssignmentResponse, error)
	GetWorkforcePlans(ctx context.Context, scheduleID string) (WorkforcePlansResponse, error)
	ApplyPlan(ctx context.Context, req ApplyPlanRequest) (ApplyPlanResponse, error)
}
