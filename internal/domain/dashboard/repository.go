package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
)

// ScheduleSummary combines schedule and shift totals in a single query
type ScheduleSummary struct {
	TotalSchedules     int64
	CompletedSchedules int64
	TotalPackages      int64
	CompletedPackages  int64
	ActiveEmployees    int64
}

// TaskPackages is SUM/COUNT of packages_handled for one task.
type TaskPackages struct {
	Task    employee.Task
	Sum     int64
	Records int64
}

type DailyThroughput struct {
	Date              time.Time
	TotalPackages     int64
	CompletedPackages int64
	PackagesHandled   int64
}

type TopPerformer struct {
	EmployeeID   string
	EmployeeCode string
	Name         string
	Shifts       int64
	SumPackages  int64
}

type WindowActivity struct {
	VETOpened int64
	VTOOpened int64
	VETFilled int64
}

// DashboardRepository defines the interface for dashboard data access. All
// ranges are inclusive dates.
type DashboardRepository interface {
	GetScheduleSummary(ctx context.Context, organizationID string, from, to time.Time) (*ScheduleSummary, error)
	GetTaskPackages(ctx context.Context, organizationID string, from, to time.Time) ([]TaskPackages, error)
	GetDailyThroughput(ctx context.Context, organizationID string, from, to time.Time) ([]DailyThroughput, error)
	GetTopPerformers(ctx context.Context, organizationID string, from, to time.Time, limit int) ([]TopPerformer, error)
	GetWindowActivity(ctx context.Context, organizationID string, from, to time.Time) (*WindowActivity, error)
}
