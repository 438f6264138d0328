package window

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrgID = "org-1"

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Queue(ctx context.Context, e notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) Stop() {}

func (n *recordingNotifier) types() []notification.Type {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Type, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Type)
	}
	return out
}

func (n *recordingNotifier) last() notification.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	notifier *recordingNotifier
	vet      window.VETService
	vto      window.VTOService
	schedule schedule.Schedule
}

func orgContext(t *testing.T, orgID string) context.Context {
	t.Helper()
	svc := jwt.NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("user-1", "manager@example.com", &orgID, "MANAGER")
	require.NoError(t, err)
	ctx, err := svc.NewContext(context.Background(), token)
	require.NoError(t, err)
	return ctx
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	ctx := orgContext(t, testOrgID)

	sched, err := store.Schedules().Create(ctx, schedule.Schedule{
		OrganizationID: testOrgID,
		Date:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:         schedule.StatusConfirmed,
	})
	require.NoError(t, err)

	return &fixture{
		ctx:      ctx,
		store:    store,
		notifier: notifier,
		vet:      NewVETService(store.Transactor(), store.VETs(), store.Schedules(), store.Assignments(), store.Employees(), notifier),
		vto:      NewVTOService(store.Transactor(), store.VTOs(), store.Schedules(), store.Assignments(), store.Employees(), notifier),
		schedule: sched,
	}
}

func (f *fixture) addEmployee(t *testing.T, code string, typ employee.Type, stower float64, mail string) employee.Employee {
	t.Helper()
	var email *string
	if mail != "" {
		email = &mail
	}
	emp, err := f.store.Employees().Create(f.ctx, employee.Employee{
		OrganizationID:   testOrgID,
		EmployeeCode:     code,
		Name:             "Employee " + code,
		Email:            email,
		Type:             typ,
		StowerEfficiency: stower,
		IsActive:         true,
	})
	require.NoError(t, err)
	return emp
}

func (f *fixture) assign(t *testing.T, emp employee.Employee) {
	t.Helper()
	_, err := f.store.Assignments().Create(f.ctx, schedule.Assignment{
		ScheduleID: f.schedule.ID,
		EmployeeID: emp.ID,
		Status:     schedule.AssignmentScheduled,
	})
	require.NoError(t, err)
}

func TestVETService_ConfirmAutoCloses(t *testing.T) {
	f := newFixture(t)
	flex := f.addEmployee(t, "F1", employee.TypeFlex, 15, "f1@example.com")

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 60})
	require.NoError(t, err)

	resp, err := f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: flex.ID})
	require.NoError(t, err)
	assert.True(t, resp.AutoClosed)
	assert.Equal(t, 45, resp.VET.TargetPackageCount)
	assert.Equal(t, string(window.VETClosed), resp.VET.Status)
	assert.NotNil(t, resp.VET.ClosedAt)
	assert.Equal(t, 15.0, resp.Efficiency)

	a, err := f.store.Assignments().GetByScheduleAndEmployee(f.ctx, f.schedule.ID, flex.ID)
	require.NoError(t, err)
	require.NotNil(t, a.Task)
	assert.Equal(t, employee.TaskStower, *a.Task)
	assert.Equal(t, 15.0, a.Efficiency)

	assert.Equal(t, []notification.Type{
		notification.TypeVETOpened,
		notification.TypeVETConfirmed,
		notification.TypeVETClosed,
	}, f.notifier.types())
}

func TestVETService_DuplicateConfirmRollsBack(t *testing.T) {
	f := newFixture(t)
	flex := f.addEmployee(t, "F1", employee.TypeFlex, 15, "")

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 400})
	require.NoError(t, err)

	resp, err := f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: flex.ID})
	require.NoError(t, err)
	assert.False(t, resp.AutoClosed)
	assert.Equal(t, 385, resp.VET.TargetPackageCount)
	assert.Equal(t, string(window.VETOpen), resp.VET.Status)

	_, err = f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: flex.ID})
	assert.ErrorIs(t, err, schedule.ErrAlreadyAssigned)

	got, err := f.vet.GetVET(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 385, got.TargetPackageCount)
}

func TestVETService_ConfirmRejectsIneligibleEmployees(t *testing.T) {
	f := newFixture(t)
	fixed := f.addEmployee(t, "X1", employee.TypeFixed, 20, "")
	gone := f.addEmployee(t, "F9", employee.TypeFlex, 20, "")
	require.NoError(t, f.store.Employees().SoftDelete(f.ctx, gone.ID, testOrgID))

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 400})
	require.NoError(t, err)

	_, err = f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: fixed.ID})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFlex)

	_, err = f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: gone.ID})
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: "missing"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestVETService_CloseReopenKeepsTarget(t *testing.T) {
	f := newFixture(t)
	flex := f.addEmployee(t, "F1", employee.TypeFlex, 15, "")

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 300})
	require.NoError(t, err)

	closed, err := f.vet.UpdateVET(f.ctx, window.UpdateVETRequest{ScheduleID: f.schedule.ID, Action: "close"})
	require.NoError(t, err)
	assert.Equal(t, string(window.VETClosed), closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = f.vet.UpdateVET(f.ctx, window.UpdateVETRequest{ScheduleID: f.schedule.ID, Action: "close"})
	assert.ErrorIs(t, err, window.ErrVETNotOpen)

	_, err = f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: flex.ID})
	assert.ErrorIs(t, err, window.ErrVETNotOpen)

	reopened, err := f.vet.UpdateVET(f.ctx, window.UpdateVETRequest{ScheduleID: f.schedule.ID, Action: "REOPEN"})
	require.NoError(t, err)
	assert.Equal(t, string(window.VETOpen), reopened.Status)
	assert.Nil(t, reopened.ClosedAt)
	assert.Equal(t, 300, reopened.TargetPackageCount)
	assert.Equal(t, notification.TypeVETReopened, f.notifier.last().Type)
}

func TestVETService_OpenRules(t *testing.T) {
	f := newFixture(t)

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 0})
	assert.Error(t, err)

	_, err = f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: "missing", TargetPackageCount: 10})
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	_, err = f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 100})
	require.NoError(t, err)
	_, err = f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 100})
	assert.ErrorIs(t, err, window.ErrVETExists)

	other := orgContext(t, "org-2")
	_, err = f.vet.GetVET(other, f.schedule.ID)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)
}

func TestVETService_OpenMailsUnassignedFlex(t *testing.T) {
	f := newFixture(t)
	f.addEmployee(t, "F1", employee.TypeFlex, 15, "f1@example.com")
	assigned := f.addEmployee(t, "F2", employee.TypeFlex, 15, "f2@example.com")
	f.addEmployee(t, "F3", employee.TypeFlex, 15, "")
	f.addEmployee(t, "X1", employee.TypeFixed, 15, "x1@example.com")
	f.assign(t, assigned)

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 100})
	require.NoError(t, err)

	event := f.notifier.last()
	assert.Equal(t, notification.TypeVETOpened, event.Type)
	assert.Equal(t, testOrgID, event.OrganizationID)
	require.NotNil(t, event.TargetPackageCount)
	assert.Equal(t, 100, *event.TargetPackageCount)
	assert.Equal(t, []notification.Recipient{{Name: "Employee F1", Email: "f1@example.com"}}, event.Recipients)
}

func TestVETService_ConcurrentConfirmationsCountOnce(t *testing.T) {
	f := newFixture(t)
	var flex []employee.Employee
	for _, code := range []string{"F1", "F2", "F3", "F4", "F5"} {
		flex = append(flex, f.addEmployee(t, code, employee.TypeFlex, 10, ""))
	}

	_, err := f.vet.OpenVET(f.ctx, window.OpenVETRequest{ScheduleID: f.schedule.ID, TargetPackageCount: 1000})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, emp := range append(flex, flex...) {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = f.vet.ConfirmVET(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: id})
		}(emp.ID)
	}
	wg.Wait()

	got, err := f.vet.GetVET(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, 950, got.TargetPackageCount)

	assignments, err := f.store.Assignments().ListBySchedule(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 5)
}

func TestVTOService_AcceptAndTransitions(t *testing.T) {
	f := newFixture(t)
	a := f.addEmployee(t, "A1", employee.TypeFixed, 0, "a1@example.com")
	b := f.addEmployee(t, "B1", employee.TypeFixed, 0, "")
	f.assign(t, a)
	f.assign(t, b)

	opened, err := f.vto.OpenVTO(f.ctx, f.schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, string(window.VTOOpen), opened.Status)
	assert.Equal(t, []notification.Recipient{{Name: "Employee A1", Email: "a1@example.com"}}, f.notifier.last().Recipients)

	_, err = f.vto.OpenVTO(f.ctx, f.schedule.ID)
	assert.ErrorIs(t, err, window.ErrVTOExists)

	accepted, err := f.vto.AcceptVTO(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: a.ID})
	require.NoError(t, err)
	assert.Equal(t, string(schedule.AssignmentReleased), accepted.Status)

	_, err = f.vto.AcceptVTO(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: a.ID})
	assert.ErrorIs(t, err, window.ErrAssignmentReleased)

	_, err = f.vto.AcceptVTO(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: "nobody"})
	assert.ErrorIs(t, err, schedule.ErrAssignmentNotFound)

	closed, err := f.vto.UpdateVTO(f.ctx, window.UpdateVTORequest{ScheduleID: f.schedule.ID, Action: "close"})
	require.NoError(t, err)
	assert.Equal(t, string(window.VTOClosed), closed.Status)

	_, err = f.vto.AcceptVTO(f.ctx, window.EmployeeActionRequest{ScheduleID: f.schedule.ID, EmployeeID: b.ID})
	assert.ErrorIs(t, err, window.ErrVTONotOpen)

	_, err = f.vto.UpdateVTO(f.ctx, window.UpdateVTORequest{ScheduleID: f.schedule.ID, Action: "reopen"})
	require.NoError(t, err)

	completed, err := f.vto.UpdateVTO(f.ctx, window.UpdateVTORequest{ScheduleID: f.schedule.ID, Action: "complete"})
	require.NoError(t, err)
	assert.Equal(t, string(window.VTOCompleted), completed.Status)

	_, err = f.vto.UpdateVTO(f.ctx, window.UpdateVTORequest{ScheduleID: f.schedule.ID, Action: "reopen"})
	assert.ErrorIs(t, err, window.ErrVTONotClosed)

	_, err = f.vto.UpdateVTO(f.ctx, window.UpdateVTORequest{ScheduleID: f.schedule.ID, Action: "pause"})
	assert.Error(t, err)
}

func TestCloser_ClosesPastWindowsOnly(t *testing.T) {
	store := memory.NewStore()
	ctx := orgContext(t, testOrgID)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	notifier := &recordingNotifier{}

	past, err := store.Schedules().Create(ctx, schedule.Schedule{OrganizationID: testOrgID, Date: today.AddDate(0, 0, -1), Status: schedule.StatusConfirmed})
	require.NoError(t, err)
	current, err := store.Schedules().Create(ctx, schedule.Schedule{OrganizationID: testOrgID, Date: today, Status: schedule.StatusConfirmed})
	require.NoError(t, err)

	for _, id := range []string{past.ID, current.ID} {
		_, err := store.VETs().Create(ctx, window.VET{ScheduleID: id, TargetPackageCount: 100, Status: window.VETOpen})
		require.NoError(t, err)
		_, err = store.VTOs().Create(ctx, window.VTO{ScheduleID: id, Status: window.VTOOpen})
		require.NoError(t, err)
	}

	flexMail, fixedMail := "flex@example.com", "fixed@example.com"
	_, err = store.Employees().Create(ctx, employee.Employee{
		OrganizationID: testOrgID, EmployeeCode: "F1", Name: "Flex", Email: &flexMail, Type: employee.TypeFlex, IsActive: true,
	})
	require.NoError(t, err)
	fixed, err := store.Employees().Create(ctx, employee.Employee{
		OrganizationID: testOrgID, EmployeeCode: "X1", Name: "Fixed", Email: &fixedMail, Type: employee.TypeFixed, IsActive: true,
	})
	require.NoError(t, err)
	_, err = store.Assignments().Create(ctx, schedule.Assignment{ScheduleID: past.ID, EmployeeID: fixed.ID, Status: schedule.AssignmentScheduled})
	require.NoError(t, err)

	closer := &CloserImpl{
		windowBase: windowBase{
			assignmentRepo: store.Assignments(),
			employeeRepo:   store.Employees(),
			notifier:       notifier,
			now:            func() time.Time { return today.Add(9 * time.Hour) },
		},
		vetRepo: store.VETs(),
		vtoRepo: store.VTOs(),
	}
	vets, vtos, err := closer.ClosePastWindows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), vets)
	assert.Equal(t, int64(1), vtos)

	vet, err := store.VETs().GetByScheduleID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, window.VETClosed, vet.Status)

	vet, err = store.VETs().GetByScheduleID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, window.VETOpen, vet.Status)

	assert.Equal(t, []notification.Type{notification.TypeVETClosed, notification.TypeVTOClosed}, notifier.types())

	vetEvent := notifier.events[0]
	assert.Equal(t, testOrgID, vetEvent.OrganizationID)
	assert.Equal(t, past.ID, vetEvent.ScheduleID)
	assert.Equal(t, "VET", vetEvent.Window)
	assert.Equal(t, string(window.VETClosed), vetEvent.Status)
	require.NotNil(t, vetEvent.TargetPackageCount)
	assert.Equal(t, 100, *vetEvent.TargetPackageCount)
	assert.Equal(t, []notification.Recipient{{Name: "Flex", Email: flexMail}}, vetEvent.Recipients)

	vtoEvent := notifier.last()
	assert.Equal(t, past.ID, vtoEvent.ScheduleID)
	assert.Equal(t, "VTO", vtoEvent.Window)
	assert.Nil(t, vtoEvent.TargetPackageCount)
	assert.Equal(t, []notification.Recipient{{Name: "Fixed", Email: fixedMail}}, vtoEvent.Recipients)

	vets, vtos, err = closer.ClosePastWindows(context.Background())
	require.NoError(t, err)
	assert.Zero(t, vets)
	assert.Zero(t, vtos)
	assert.Len(t, notifier.types(), 2)
}
