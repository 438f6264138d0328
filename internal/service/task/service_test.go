package task

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "org-1"

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	cache     *cache.MemoryCache
	svc       task.TaskService
	schedule  schedule.Schedule
	employees map[string]employee.Employee
}

func orgContext(t *testing.T) context.Context {
	t.Helper()
	orgID := testOrgID
	svc := jwt.NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("user-1", "manager@example.com", &orgID, "MANAGER")
	require.NoError(t, err)
	ctx, err := svc.NewContext(context.Background(), token)
	require.NoError(t, err)
	return ctx
}

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
}

// newFixture schedules five flex employees on 2026-03-10:
//
//	name  inductor  stower  downstacker
//	Ann   30        20      10
//	Ben   25        22      15
//	Cal   10        25      20
//	Dee   5         18      12
//	Eve   8         16      9
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	planCache := cache.NewMemoryCache()
	f := &fixture{
		ctx:       orgContext(t),
		store:     store,
		cache:     planCache,
		svc:       NewTaskService(store.Transactor(), store.Schedules(), store.Assignments(), store.Employees(), planCache),
		employees: map[string]employee.Employee{},
	}
	f.schedule = f.addSchedule(t, date(time.March, 10))

	rows := []struct {
		name              string
		ind, stow, downst float64
	}{
		{"Ann", 30, 20, 10},
		{"Ben", 25, 22, 15},
		{"Cal", 10, 25, 20},
		{"Dee", 5, 18, 12},
		{"Eve", 8, 16, 9},
	}
	for _, r := range rows {
		emp, err := store.Employees().Create(f.ctx, employee.Employee{
			OrganizationID:        testOrgID,
			EmployeeCode:          "C-" + r.name,
			Name:                  r.name,
			Type:                  employee.TypeFlex,
			InductorEfficiency:    r.ind,
			StowerEfficiency:      r.stow,
			DownstackerEfficiency: r.downst,
			IsActive:              true,
		})
		require.NoError(t, err)
		f.employees[r.name] = emp
		f.assign(t, f.schedule.ID, emp, schedule.AssignmentScheduled)
	}
	return f
}

func (f *fixture) addSchedule(t *testing.T, d time.Time) schedule.Schedule {
	t.Helper()
	sched, err := f.store.Schedules().Create(f.ctx, schedule.Schedule{OrganizationID: testOrgID, Date: d, Status: schedule.StatusConfirmed})
	require.NoError(t, err)
	return sched
}

func (f *fixture) assign(t *testing.T, scheduleID string, emp employee.Employee, status schedule.AssignmentStatus) {
	t.Helper()
	_, err := f.store.Assignments().Create(f.ctx, schedule.Assignment{ScheduleID: scheduleID, EmployeeID: emp.ID, Status: status})
	require.NoError(t, err)
}

func names(entries []task.PlanEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func planFor(t *testing.T, resp task.WorkforcePlansResponse, tier task.Tier) task.Plan {
	t.Helper()
	for _, p := range resp.Plans {
		if p.Tier == tier {
			return p
		}
	}
	t.Fatalf("no %s plan", tier)
	return task.Plan{}
}

func TestGetWorkforcePlans(t *testing.T) {
	f := newFixture(t)

	// Only SCHEDULED shifts in the 30 days before the schedule count.
	f.assign(t, f.addSchedule(t, date(time.March, 1)).ID, f.employees["Ann"], schedule.AssignmentScheduled)
	f.assign(t, f.addSchedule(t, date(time.January, 5)).ID, f.employees["Ann"], schedule.AssignmentScheduled)
	f.assign(t, f.addSchedule(t, date(time.March, 5)).ID, f.employees["Ben"], schedule.AssignmentReleased)

	resp, err := f.svc.GetWorkforcePlans(f.ctx, f.schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, task.Headcount{Inductor: 1, Downstacker: 1, Stower: 3}, resp.Headcount)
	require.Len(t, resp.Plans, 3)

	high := planFor(t, resp, task.TierHigh)
	assert.Equal(t, []string{"Ann"}, names(high.Inductor))
	assert.Equal(t, []string{"Cal"}, names(high.Downstackers))
	assert.Equal(t, []string{"Ben", "Dee", "Eve"}, names(high.Stowers))
	assert.Equal(t, 1, high.Inductor[0].TimesWorkedLast30Days)
	assert.Equal(t, 0, high.Stowers[0].TimesWorkedLast30Days)

	medium := planFor(t, resp, task.TierMedium)
	assert.Equal(t, []string{"Cal"}, names(medium.Inductor))
	assert.Equal(t, []string{"Dee"}, names(medium.Downstackers))
	assert.Equal(t, []string{"Ben", "Ann", "Eve"}, names(medium.Stowers))

	low := planFor(t, resp, task.TierLow)
	assert.Equal(t, []string{"Dee"}, names(low.Inductor))
	assert.Equal(t, []string{"Eve"}, names(low.Downstackers))
	assert.Equal(t, []string{"Cal", "Ben", "Ann"}, names(low.Stowers))
}

func TestGetWorkforcePlans_CacheTracksAssignments(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.GetWorkforcePlans(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	_, err = f.cache.Get(f.ctx, task.PlanCacheKey(f.schedule.ID))
	require.NoError(t, err)

	again, err := f.svc.GetWorkforcePlans(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// An assignment added behind the service's back changes the fingerprint.
	extra, err := f.store.Employees().Create(f.ctx, employee.Employee{
		OrganizationID: testOrgID, EmployeeCode: "C-Fay", Name: "Fay", Type: employee.TypeFlex, IsActive: true,
	})
	require.NoError(t, err)
	f.assign(t, f.schedule.ID, extra, schedule.AssignmentScheduled)

	fresh, err := f.svc.GetWorkforcePlans(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, planFor(t, fresh, task.TierHigh).Size())
}

func TestGetWorkforcePlans_NoEmployees(t *testing.T) {
	f := newFixture(t)
	empty := f.addSchedule(t, date(time.March, 11))

	resp, err := f.svc.GetWorkforcePlans(f.ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, task.Headcount{}, resp.Headcount)
	require.Len(t, resp.Plans, 3)
	for _, p := range resp.Plans {
		assert.Zero(t, p.Size())
	}

	_, err = f.svc.ApplyPlan(f.ctx, task.ApplyPlanRequest{ScheduleID: empty.ID, Tier: "high"})
	assert.ErrorIs(t, err, task.ErrNoScheduledEmployees)
}

func TestApplyPlan(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.Set(f.ctx, task.PlanCacheKey(f.schedule.ID), []byte("{}"), 0))

	resp, err := f.svc.ApplyPlan(f.ctx, task.ApplyPlanRequest{ScheduleID: f.schedule.ID, Tier: "high"})
	require.NoError(t, err)
	assert.Equal(t, task.TierHigh, resp.Plan.Tier)
	assert.Equal(t, 5, resp.Plan.Size())

	_, err = f.cache.Get(f.ctx, task.PlanCacheKey(f.schedule.ID))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	tasks, err := f.svc.ListTasks(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 5)

	got := map[string]string{}
	eff := map[string]float64{}
	for _, a := range tasks {
		require.NotNil(t, a.Task)
		got[a.EmployeeName] = *a.Task
		eff[a.EmployeeName] = a.Efficiency
	}
	assert.Equal(t, map[string]string{
		"Ann": "INDUCTOR",
		"Cal": "DOWNSTACKER",
		"Ben": "STOWER",
		"Dee": "STOWER",
		"Eve": "STOWER",
	}, got)
	assert.Equal(t, 30.0, eff["Ann"])
	assert.Equal(t, 20.0, eff["Cal"])
	assert.Equal(t, 22.0, eff["Ben"])

	_, err = f.svc.ApplyPlan(f.ctx, task.ApplyPlanRequest{ScheduleID: f.schedule.ID, Tier: "best"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	require.NoError(t, f.store.Schedules().UpdateStatus(f.ctx, f.schedule.ID, testOrgID, schedule.StatusCompleted))
	_, err = f.svc.ApplyPlan(f.ctx, task.ApplyPlanRequest{ScheduleID: f.schedule.ID, Tier: "LOW"})
	assert.ErrorIs(t, err, schedule.ErrScheduleCompleted)
}

func TestUpdateTask(t *testing.T) {
	f := newFixture(t)
	cal := f.employees["Cal"]

	resp, err := f.svc.UpdateTask(f.ctx, task.UpdateTaskRequest{ScheduleID: f.schedule.ID, EmployeeID: cal.ID, Task: "downstacker"})
	require.NoError(t, err)
	require.NotNil(t, resp.Task)
	assert.Equal(t, "DOWNSTACKER", *resp.Task)
	assert.Equal(t, 20.0, resp.Efficiency)

	require.NoError(t, f.store.Assignments().UpdateStatus(f.ctx, f.schedule.ID, cal.ID, schedule.AssignmentReleased))
	_, err = f.svc.UpdateTask(f.ctx, task.UpdateTaskRequest{ScheduleID: f.schedule.ID, EmployeeID: cal.ID, Task: "STOWER"})
	assert.ErrorIs(t, err, task.ErrTaskNotAllowed)

	_, err = f.svc.UpdateTask(f.ctx, task.UpdateTaskRequest{ScheduleID: f.schedule.ID, EmployeeID: "nobody", Task: "STOWER"})
	assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)

	_, err = f.svc.UpdateTask(f.ctx, task.UpdateTaskRequest{ScheduleID: "missing", EmployeeID: cal.ID, Task: "STOWER"})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestBatchUpdateTasks_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ann, ben := f.employees["Ann"], f.employees["Ben"]

	_, err := f.svc.BatchUpdateTasks(f.ctx, task.BatchUpdateTasksRequest{
		ScheduleID: f.schedule.ID,
		Assignments: []task.UpdateTaskRequest{
			{EmployeeID: ann.ID, Task: "STOWER"},
			{EmployeeID: "nobody", Task: "INDUCTOR"},
		},
	})
	assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)

	a, err := f.store.Assignments().GetByScheduleAndEmployee(f.ctx, f.schedule.ID, ann.ID)
	require.NoError(t, err)
	assert.Nil(t, a.Task)

	updated, err := f.svc.BatchUpdateTasks(f.ctx, task.BatchUpdateTasksRequest{
		ScheduleID: f.schedule.ID,
		Assignments: []task.UpdateTaskRequest{
			{EmployeeID: ann.ID, Task: "STOWER"},
			{EmployeeID: ben.ID, Task: "INDUCTOR"},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 20.0, updated[0].Efficiency)
	assert.Equal(t, 25.0, updated[1].Efficiency)

	_, err = f.svc.BatchUpdateTasks(f.ctx, task.BatchUpdateTasksRequest{
		ScheduleID: f.schedule.ID,
		Assignments: []task.UpdateTaskRequest{
			{EmployeeID: ann.ID, Task: "STOWER"},
			{EmployeeID: ann.ID, Task: "INDUCTOR"},
		},
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
