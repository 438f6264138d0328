package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/google/uuid"
)

type scheduleRepository struct{ *Store }

func (s *Store) Schedules() schedule.ScheduleRepository { return scheduleRepository{s} }

func (r scheduleRepository) Create(ctx context.Context, sched schedule.Schedule) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sched.Date = dateOnly(sched.Date)
	for _, existing := range r.data.schedules {
		if existing.OrganizationID == sched.OrganizationID && existing.Date.Equal(sched.Date) {
			return schedule.Schedule{}, schedule.ErrScheduleExists
		}
	}
	sched.ID = uuid.NewString()
	sched.CreatedAt = r.now()
	sched.UpdatedAt = sched.CreatedAt
	sched.Shift = nil
	sched.Assignments = nil
	r.data.schedules[sched.ID] = sched
	return sched, nil
}

func (r scheduleRepository) GetByID(ctx context.Context, id, organizationID string) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sched, ok := r.data.schedules[id]
	if !ok || sched.OrganizationID != organizationID {
		return schedule.Schedule{}, schedule.ErrScheduleNotFound
	}
	return sched, nil
}

func (r scheduleRepository) List(ctx context.Context, organizationID string, filter schedule.ScheduleFilter) ([]schedule.Schedule, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := sortedValues(r.data.schedules, func(s schedule.Schedule) bool {
		if s.OrganizationID != organizationID {
			return false
		}
		if filter.FromDate != nil && s.Date.Before(*filter.FromDate) {
			return false
		}
		if filter.ToDate != nil && s.Date.After(*filter.ToDate) {
			return false
		}
		if filter.Status != nil && string(s.Status) != *filter.Status {
			return false
		}
		return true
	}, func(a, b schedule.Schedule) bool { return a.Date.After(b.Date) })

	page := paginate(all, filter.Page, filter.Limit)
	for i := range page {
		if shift, ok := r.data.shifts[page[i].ID]; ok {
			shift := shift
			page[i].Shift = &shift
		}
	}
	return page, int64(len(all)), nil
}

func (r scheduleRepository) UpdateStatus(ctx context.Context, id, organizationID string, status schedule.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sched, ok := r.data.schedules[id]
	if !ok || sched.OrganizationID != organizationID {
		return schedule.ErrScheduleNotFound
	}
	sched.Status = status
	sched.UpdatedAt = r.now()
	r.data.schedules[id] = sched
	return nil
}

// Delete cascades to the schedule's shift, assignments, windows and comments.
func (r scheduleRepository) Delete(ctx context.Context, id, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sched, ok := r.data.schedules[id]
	if !ok || sched.OrganizationID != organizationID {
		return schedule.ErrScheduleNotFound
	}
	delete(r.data.schedules, id)
	delete(r.data.shifts, id)
	delete(r.data.vets, id)
	delete(r.data.vtos, id)
	for k, a := range r.data.assignments {
		if a.ScheduleID == id {
			delete(r.data.assignments, k)
		}
	}
	for k, c := range r.data.comments {
		if c.ScheduleID == id {
			delete(r.data.comments, k)
		}
	}
	return nil
}

func (r scheduleRepository) UpsertByDate(ctx context.Context, organizationID string, date time.Time, status schedule.Status) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	date = dateOnly(date)
	for id, existing := range r.data.schedules {
		if existing.OrganizationID == organizationID && existing.Date.Equal(date) {
			existing.Status = status
			existing.UpdatedAt = r.now()
			r.data.schedules[id] = existing
			return existing, nil
		}
	}

	sched := schedule.Schedule{
		ID:             uuid.NewString(),
		OrganizationID: organizationID,
		Date:           date,
		Status:         status,
		CreatedAt:      r.now(),
	}
	sched.UpdatedAt = sched.CreatedAt
	r.data.schedules[sched.ID] = sched
	return sched, nil
}

func (r scheduleRepository) GetWindows(ctx context.Context, scheduleID string) (schedule.Windows, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var windows schedule.Windows
	if vet, ok := r.data.vets[scheduleID]; ok {
		target := vet.TargetPackageCount
		windows.VET = &schedule.WindowSummary{
			ID:                 vet.ID,
			Status:             string(vet.Status),
			TargetPackageCount: &target,
			OpenedAt:           vet.OpenedAt,
			ClosedAt:           vet.ClosedAt,
		}
	}
	if vto, ok := r.data.vtos[scheduleID]; ok {
		windows.VTO = &schedule.WindowSummary{
			ID:       vto.ID,
			Status:   string(vto.Status),
			OpenedAt: vto.OpenedAt,
			ClosedAt: vto.ClosedAt,
		}
	}
	return windows, nil
}

type shiftRepository struct{ *Store }

func (s *Store) Shifts() schedule.ShiftRepository { return shiftRepository{s} }

func (r shiftRepository) Create(ctx context.Context, shift schedule.Shift) (schedule.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shift.ID = uuid.NewString()
	shift.CreatedAt = r.now()
	shift.UpdatedAt = shift.CreatedAt
	r.data.shifts[shift.ScheduleID] = shift
	return shift, nil
}

func (r shiftRepository) GetByScheduleID(ctx context.Context, scheduleID string) (schedule.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shift, ok := r.data.shifts[scheduleID]
	if !ok {
		return schedule.Shift{}, schedule.ErrShiftNotFound
	}
	return shift, nil
}

func (r shiftRepository) Update(ctx context.Context, shift schedule.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data.shifts[shift.ScheduleID]
	if !ok {
		return schedule.ErrShiftNotFound
	}
	existing.TotalPackageCount = shift.TotalPackageCount
	existing.CompletedPackageCount = shift.CompletedPackageCount
	existing.Status = shift.Status
	existing.UpdatedAt = r.now()
	r.data.shifts[shift.ScheduleID] = existing
	return nil
}

func (r shiftRepository) UpsertTotal(ctx context.Context, scheduleID string, total int, status schedule.Status) (schedule.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shift, ok := r.data.shifts[scheduleID]
	if !ok {
		shift = schedule.Shift{
			ID:         uuid.NewString(),
			ScheduleID: scheduleID,
			CreatedAt:  r.now(),
		}
	}
	shift.TotalPackageCount = total
	shift.Status = status
	shift.UpdatedAt = r.now()
	r.data.shifts[scheduleID] = shift
	return shift, nil
}

func (r shiftRepository) RecomputeCompleted(ctx context.Context, scheduleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sched, ok := r.data.schedules[scheduleID]
	if !ok {
		return schedule.ErrScheduleNotFound
	}
	shift, ok := r.data.shifts[scheduleID]
	if !ok {
		return schedule.ErrShiftNotFound
	}

	completed := 0
	for _, rec := range r.data.records {
		if rec.OrganizationID == sched.OrganizationID && dateOnly(rec.Date).Equal(sched.Date) {
			completed += rec.PackagesHandled
		}
	}
	shift.CompletedPackageCount = completed
	shift.UpdatedAt = r.now()
	r.data.shifts[scheduleID] = shift
	return nil
}

type assignmentRepository struct{ *Store }

func (s *Store) Assignments() schedule.AssignmentRepository { return assignmentRepository{s} }

func assignmentKey(scheduleID, employeeID string) string {
	return scheduleID + "/" + employeeID
}

// withEmployee fills the joined employee columns. Callers hold mu.
func (r assignmentRepository) withEmployee(a schedule.Assignment) schedule.Assignment {
	if e, ok := r.data.employees[a.EmployeeID]; ok {
		a.EmployeeCode = e.EmployeeCode
		a.EmployeeName = e.Name
		a.EmployeeEmail = e.Email
		a.EmployeeType = e.Type
	}
	return a
}

func (r assignmentRepository) Create(ctx context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(a.ScheduleID, a.EmployeeID)
	if _, exists := r.data.assignments[key]; exists {
		return schedule.Assignment{}, schedule.ErrAlreadyAssigned
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.now()
	a.UpdatedAt = a.CreatedAt
	r.data.assignments[key] = a
	return r.withEmployee(a), nil
}

func (r assignmentRepository) Upsert(ctx context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(a.ScheduleID, a.EmployeeID)
	if existing, ok := r.data.assignments[key]; ok {
		existing.Task = a.Task
		existing.Efficiency = a.Efficiency
		existing.Status = a.Status
		existing.UpdatedAt = r.now()
		r.data.assignments[key] = existing
		return r.withEmployee(existing), nil
	}
	a.ID = uuid.NewString()
	a.CreatedAt = r.now()
	a.UpdatedAt = a.CreatedAt
	r.data.assignments[key] = a
	return r.withEmployee(a), nil
}

func (r assignmentRepository) GetByScheduleAndEmployee(ctx context.Context, scheduleID, employeeID string) (schedule.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.data.assignments[assignmentKey(scheduleID, employeeID)]
	if !ok {
		return schedule.Assignment{}, schedule.ErrAssignmentNotFound
	}
	return r.withEmployee(a), nil
}

func (r assignmentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]schedule.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]schedule.Assignment, 0)
	for _, a := range r.data.assignments {
		if a.ScheduleID == scheduleID {
			out = append(out, r.withEmployee(a))
		}
	}
	sortAssignments(out)
	return out, nil
}

func sortAssignments(as []schedule.Assignment) {
	sort.Slice(as, func(i, j int) bool { return assignmentLess(as[i], as[j]) })
}

func assignmentLess(a, b schedule.Assignment) bool {
	if a.EmployeeName != b.EmployeeName {
		return a.EmployeeName < b.EmployeeName
	}
	return a.EmployeeID < b.EmployeeID
}

func (r assignmentRepository) UpdateTask(ctx context.Context, scheduleID, employeeID string, task employee.Task, efficiency float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(scheduleID, employeeID)
	a, ok := r.data.assignments[key]
	if !ok {
		return schedule.ErrAssignmentNotFound
	}
	a.Task = &task
	a.Efficiency = efficiency
	a.UpdatedAt = r.now()
	r.data.assignments[key] = a
	return nil
}

func (r assignmentRepository) UpdateStatus(ctx context.Context, scheduleID, employeeID string, status schedule.AssignmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(scheduleID, employeeID)
	a, ok := r.data.assignments[key]
	if !ok {
		return schedule.ErrAssignmentNotFound
	}
	a.Status = status
	a.UpdatedAt = r.now()
	r.data.assignments[key] = a
	return nil
}

func (r assignmentRepository) Delete(ctx context.Context, scheduleID, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := assignmentKey(scheduleID, employeeID)
	if _, ok := r.data.assignments[key]; !ok {
		return schedule.ErrAssignmentNotFound
	}
	delete(r.data.assignments, key)
	return nil
}

func (r assignmentRepository) CountScheduledSince(ctx context.Context, employeeIDs []string, from, to time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}

	counts := make(map[string]int, len(employeeIDs))
	for _, a := range r.data.assignments {
		if !wanted[a.EmployeeID] || a.Status != schedule.AssignmentScheduled {
			continue
		}
		sched, ok := r.data.schedules[a.ScheduleID]
		if !ok || sched.Date.Before(from) || !sched.Date.Before(to) {
			continue
		}
		counts[a.EmployeeID]++
	}
	return counts, nil
}
