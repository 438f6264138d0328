package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "org-1"

func orgContext(t *testing.T) context.Context {
	t.Helper()
	orgID := testOrgID
	svc := jwt.NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("user-1", "owner@example.com", &orgID, "OWNER")
	require.NoError(t, err)
	ctx, err := svc.NewContext(context.Background(), token)
	require.NoError(t, err)
	return ctx
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

// seed loads three completed days of history for two employees.
func seed(t *testing.T, ctx context.Context, store *memory.Store) {
	t.Helper()
	e1, err := store.Employees().Create(ctx, employee.Employee{OrganizationID: testOrgID, EmployeeCode: "E1", Name: "Ada", Type: employee.TypeFlex, IsActive: true})
	require.NoError(t, err)
	e2, err := store.Employees().Create(ctx, employee.Employee{OrganizationID: testOrgID, EmployeeCode: "E2", Name: "Bo", Type: employee.TypeFlex, IsActive: true})
	require.NoError(t, err)

	type entry struct {
		emp     employee.Employee
		task    employee.Task
		handled int
	}
	days := []struct {
		date    time.Time
		total   int
		entries []entry
	}{
		{day(2), 1000, []entry{{e1, employee.TaskInductor, 100}, {e2, employee.TaskStower, 80}}},
		{day(3), 1100, []entry{{e1, employee.TaskInductor, 120}, {e2, employee.TaskStower, 95}}},
		{day(4), 900, []entry{{e1, employee.TaskInductor, 140}}},
	}

	for _, d := range days {
		sched, err := store.Schedules().UpsertByDate(ctx, testOrgID, d.date, schedule.StatusCompleted)
		require.NoError(t, err)
		_, err = store.Shifts().UpsertTotal(ctx, sched.ID, d.total, schedule.StatusCompleted)
		require.NoError(t, err)
		for _, e := range d.entries {
			_, _, err := store.PerformanceRecords().Upsert(ctx, performance.Record{
				OrganizationID:  testOrgID,
				EmployeeID:      e.emp.ID,
				Date:            d.date,
				Task:            e.task,
				PackagesHandled: e.handled,
				TotalPackages:   d.total,
				WorkingHours:    performance.StandardShiftHours,
			})
			require.NoError(t, err)
		}
		require.NoError(t, store.Shifts().RecomputeCompleted(ctx, sched.ID))

		if d.date.Equal(day(2)) {
			closedAt := d.date.Add(10 * time.Hour)
			_, err := store.VETs().Create(ctx, window.VET{
				ScheduleID:         sched.ID,
				TargetPackageCount: 40,
				Status:             window.VETClosed,
				OpenedAt:           d.date,
				ClosedAt:           &closedAt,
			})
			require.NoError(t, err)
		}
	}
}

func TestGetDashboard(t *testing.T) {
	ctx := orgContext(t)
	store := memory.NewStore()
	seed(t, ctx, store)

	svc := NewDashboardService(store.Dashboard())
	resp, err := svc.GetDashboard(ctx, dashboard.DashboardFilter{From: "2026-03-01", To: "2026-03-31"})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-01", resp.From)
	assert.Equal(t, "2026-03-31", resp.To)

	assert.Equal(t, int64(3), resp.Summary.TotalSchedules)
	assert.Equal(t, int64(3), resp.Summary.CompletedSchedules)
	assert.Equal(t, int64(3000), resp.Summary.TotalPackages)
	assert.Equal(t, int64(535), resp.Summary.CompletedPackages)
	assert.Equal(t, 17.83, resp.Summary.CompletionRate)
	assert.Equal(t, int64(2), resp.Summary.ActiveEmployees)

	// (100 + 120 + 140) / 3 / 5 = 24 and (80 + 95) / 2 / 5 = 17.5
	assert.Equal(t, dashboard.RoleEfficiencyResponse{Inductor: 24, Stower: 18, Downstacker: 0}, resp.RoleEfficiency)

	require.Len(t, resp.DailyThroughput, 3)
	assert.Equal(t, dashboard.DailyThroughputItem{Date: "2026-03-02", TotalPackages: 1000, CompletedPackages: 180, PackagesHandled: 180}, resp.DailyThroughput[0])

	require.Len(t, resp.TopPerformers, 2)
	assert.Equal(t, "E1", resp.TopPerformers[0].EmployeeCode)
	assert.Equal(t, int64(3), resp.TopPerformers[0].Shifts)
	assert.Equal(t, 120.0, resp.TopPerformers[0].AvgPackages)
	assert.Equal(t, 24.0, resp.TopPerformers[0].Efficiency)
	assert.Equal(t, 17.5, resp.TopPerformers[1].Efficiency)

	assert.Equal(t, dashboard.WindowActivityResponse{VETOpened: 1, VTOOpened: 0, VETFilled: 1}, resp.Windows)
}

func TestGetDashboard_DefaultRange(t *testing.T) {
	ctx := orgContext(t)
	store := memory.NewStore()
	seed(t, ctx, store)

	svc := &DashboardServiceImpl{
		DashboardRepository: store.Dashboard(),
		now:                 func() time.Time { return time.Date(2026, 3, 3, 15, 0, 0, 0, time.UTC) },
	}
	resp, err := svc.GetDashboard(ctx, dashboard.DashboardFilter{})
	require.NoError(t, err)

	assert.Equal(t, "2026-02-02", resp.From)
	assert.Equal(t, "2026-03-03", resp.To)
	assert.Equal(t, int64(2), resp.Summary.TotalSchedules)
}

func TestGetDashboard_InvalidRange(t *testing.T) {
	ctx := orgContext(t)
	svc := NewDashboardService(memory.NewStore().Dashboard())

	_, err := svc.GetDashboard(ctx, dashboard.DashboardFilter{From: "2026-03-10", To: "2026-03-01"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "to", verrs[0].Field)

	_, err = svc.GetDashboard(ctx, dashboard.DashboardFilter{From: "2024-01-01", To: "2026-03-01"})
	assert.Error(t, err)
}
