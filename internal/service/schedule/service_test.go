package schedule

import (
	"context"
	"testing"

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

func orgContext(t *testing.T, orgID string) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("user-1", "manager@example.com", &orgID, "MANAGER")
	require.NoError(t, err)
	ctx, err := svc.NewContext(context.Background(), token)
	require.NoError(t, err)
	return ctx
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

type fixture struct {
	ctx   context.Context
	store *memory.Store
	cache *cache.MemoryCache
	svc   schedule.ScheduleService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	planCache := cache.NewMemoryCache()
	return &fixture{
		ctx:   orgContext(t, testOrgID),
		store: store,
		cache: planCache,
		svc:   NewScheduleService(store.Transactor(), store.Schedules(), store.Shifts(), store.Assignments(), store.Employees(), planCache),
	}
}

func (f *fixture) addEmployee(t *testing.T, e employee.Employee) employee.Employee {
	t.Helper()
	e.OrganizationID = testOrgID
	if e.Name == "" {
		e.Name = "Employee " + e.EmployeeCode
	}
	created, err := f.store.Employees().Create(f.ctx, e)
	require.NoError(t, err)
	return created
}

func (f *fixture) create(t *testing.T, date string) schedule.ScheduleResponse {
	t.Helper()
	resp, err := f.svc.CreateSchedule(f.ctx, schedule.CreateScheduleRequest{Date: date, TotalPackageCount: intPtr(500)})
	require.NoError(t, err)
	return resp
}

func TestCreateSchedule_IncludesFixedEmployeesRosteredThatDay(t *testing.T) {
	f := newFixture(t)
	monday := f.addEmployee(t, employee.Employee{EmployeeCode: "F1", Type: employee.TypeFixed, WorkDays: []int{1, 3}, AverageEfficiency: 20, IsActive: true})
	f.addEmployee(t, employee.Employee{EmployeeCode: "F2", Type: employee.TypeFixed, WorkDays: []int{2}, IsActive: true})
	f.addEmployee(t, employee.Employee{EmployeeCode: "F3", Type: employee.TypeFixed, WorkDays: []int{1}, IsActive: false})
	f.addEmployee(t, employee.Employee{EmployeeCode: "X1", Type: employee.TypeFlex, IsActive: true})

	// 2026-03-02 is a Monday.
	resp, err := f.svc.CreateSchedule(f.ctx, schedule.CreateScheduleRequest{
		Date:                  "2026-03-02",
		TotalPackageCount:     intPtr(500),
		IncludeFixedEmployees: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Equal(t, string(schedule.StatusDraft), resp.Status)
	require.NotNil(t, resp.Shift)
	assert.Equal(t, 500, resp.Shift.TotalPackageCount)
	assert.Equal(t, 0, resp.Shift.CompletedPackageCount)

	require.Len(t, resp.Assignments, 1)
	assert.Equal(t, monday.ID, resp.Assignments[0].EmployeeID)
	assert.Equal(t, 20.0, resp.Assignments[0].Efficiency)
	assert.Nil(t, resp.Assignments[0].Task)
	assert.Equal(t, string(schedule.AssignmentScheduled), resp.Assignments[0].Status)
}

func TestCreateSchedule_Rejections(t *testing.T) {
	f := newFixture(t)
	f.create(t, "2026-03-02")

	_, err := f.svc.CreateSchedule(f.ctx, schedule.CreateScheduleRequest{Date: "2026-03-02", TotalPackageCount: intPtr(10)})
	assert.ErrorIs(t, err, schedule.ErrScheduleExists)

	_, err = f.svc.CreateSchedule(f.ctx, schedule.CreateScheduleRequest{Date: "03/02/2026"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	// Same date in another organization is allowed.
	other := orgContext(t, "org-2")
	_, err = f.svc.CreateSchedule(other, schedule.CreateScheduleRequest{Date: "2026-03-02", TotalPackageCount: intPtr(10)})
	assert.NoError(t, err)
}

func TestUpdateSchedule_StatusMovesOneStepAtATime(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "2026-03-02")

	_, err := f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{ID: created.ID, Status: strPtr("IN_PROGRESS")})
	assert.ErrorIs(t, err, schedule.ErrInvalidStatusTransition)

	resp, err := f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{ID: created.ID, Status: strPtr("CONFIRMED")})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, "CONFIRMED", resp.Shift.Status)

	_, err = f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{ID: created.ID, Status: strPtr("DRAFT")})
	assert.ErrorIs(t, err, schedule.ErrInvalidStatusTransition)

	// Staying in place is allowed.
	_, err = f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{ID: created.ID, Status: strPtr("CONFIRMED")})
	assert.NoError(t, err)

	_, err = f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{ID: created.ID, Status: strPtr("BOGUS")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestUpdateSchedule_CompletedCannotExceedTotal(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "2026-03-02")

	_, err := f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{
		ID:                    created.ID,
		Status:                strPtr("CONFIRMED"),
		CompletedPackageCount: intPtr(501),
	})
	assert.ErrorIs(t, err, schedule.ErrCompletedCountExceeded)

	got, err := f.svc.GetSchedule(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", got.Status)
	assert.Equal(t, 0, got.Shift.CompletedPackageCount)

	got, err = f.svc.UpdateSchedule(f.ctx, schedule.UpdateScheduleRequest{
		ID:                    created.ID,
		TotalPackageCount:     intPtr(800),
		CompletedPackageCount: intPtr(501),
	})
	require.NoError(t, err)
	assert.Equal(t, 800, got.Shift.TotalPackageCount)
	assert.Equal(t, 501, got.Shift.CompletedPackageCount)
}

func TestAddAndRemoveEmployees(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "2026-03-02")
	flex := f.addEmployee(t, employee.Employee{EmployeeCode: "X1", Type: employee.TypeFlex, AverageEfficiency: 12.5, IsActive: true})
	gone := f.addEmployee(t, employee.Employee{EmployeeCode: "X2", Type: employee.TypeFlex, IsActive: false})

	key := task.PlanCacheKey(created.ID)
	require.NoError(t, f.cache.Set(f.ctx, key, []byte("stale"), 0))

	added, err := f.svc.AddEmployees(f.ctx, schedule.AddEmployeesRequest{ScheduleID: created.ID, EmployeeIDs: []string{flex.ID}})
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "X1", added[0].EmployeeCode)
	assert.Equal(t, 12.5, added[0].Efficiency)

	_, err = f.cache.Get(f.ctx, key)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	_, err = f.svc.AddEmployees(f.ctx, schedule.AddEmployeesRequest{ScheduleID: created.ID, EmployeeIDs: []string{flex.ID}})
	assert.ErrorIs(t, err, schedule.ErrAlreadyAssigned)

	_, err = f.svc.AddEmployees(f.ctx, schedule.AddEmployeesRequest{ScheduleID: created.ID, EmployeeIDs: []string{"missing"}})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = f.svc.AddEmployees(f.ctx, schedule.AddEmployeesRequest{ScheduleID: created.ID, EmployeeIDs: []string{gone.ID}})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	got, err := f.svc.GetSchedule(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Assignments, 1)

	require.NoError(t, f.svc.RemoveEmployee(f.ctx, created.ID, flex.ID))
	assert.ErrorIs(t, f.svc.RemoveEmployee(f.ctx, created.ID, flex.ID), schedule.ErrAssignmentNotFound)
}

func TestCompletedScheduleIsFrozen(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, "2026-03-02")
	flex := f.addEmployee(t, employee.Employee{EmployeeCode: "X1", Type: employee.TypeFlex, IsActive: true})

	require.NoError(t, f.store.Schedules().UpdateStatus(f.ctx, created.ID, testOrgID, schedule.StatusCompleted))

	_, err := f.svc.AddEmployees(f.ctx, schedule.AddEmployeesRequest{ScheduleID: created.ID, EmployeeIDs: []string{flex.ID}})
	assert.ErrorIs(t, err, schedule.ErrScheduleCompleted)
	assert.ErrorIs(t, f.svc.RemoveEmployee(f.ctx, created.ID, flex.ID), schedule.ErrScheduleCompleted)
}

func TestListAndDeleteSchedules(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, "2026-03-02")
	f.create(t, "2026-03-03")
	f.create(t, "2026-03-04")

	list, err := f.svc.ListSchedules(f.ctx, schedule.ScheduleFilter{From: strPtr("2026-03-03"), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.TotalCount)
	assert.Equal(t, 2, list.TotalPages)
	assert.Len(t, list.Schedules, 1)

	require.NoError(t, f.svc.DeleteSchedule(f.ctx, first.ID))
	_, err = f.svc.GetSchedule(f.ctx, first.ID)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
	assert.ErrorIs(t, f.svc.DeleteSchedule(f.ctx, first.ID), schedule.ErrScheduleNotFound)

	_, err = f.svc.GetSchedule(orgContext(t, "org-2"), list.Schedules[0].ID)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}
