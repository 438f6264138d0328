package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
)

type dashboardRepository struct{ *Store }

func (s *Store) Dashboard() dashboard.DashboardRepository { return dashboardRepository{s} }

func inRange(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func (r dashboardRepository) schedulesInRange(organizationID string, from, to time.Time) []schedule.Schedule {
	return sortedValues(r.data.schedules, func(s schedule.Schedule) bool {
		return s.OrganizationID == organizationID && inRange(s.Date, from, to)
	}, func(a, b schedule.Schedule) bool { return a.Date.Before(b.Date) })
}

func (r dashboardRepository) GetScheduleSummary(ctx context.Context, organizationID string, from, to time.Time) (*dashboard.ScheduleSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := &dashboard.ScheduleSummary{}
	for _, s := range r.schedulesInRange(organizationID, from, to) {
		summary.TotalSchedules++
		if s.Status == schedule.StatusCompleted {
			summary.CompletedSchedules++
		}
		if shift, ok := r.data.shifts[s.ID]; ok {
			summary.TotalPackages += int64(shift.TotalPackageCount)
			summary.CompletedPackages += int64(shift.CompletedPackageCount)
		}
	}
	for _, e := range r.data.employees {
		if e.OrganizationID == organizationID && e.IsActive {
			summary.ActiveEmployees++
		}
	}
	return summary, nil
}

func (r dashboardRepository) GetTaskPackages(ctx context.Context, organizationID string, from, to time.Time) ([]dashboard.TaskPackages, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byTask := map[employee.Task]*dashboard.TaskPackages{}
	for _, rec := range r.data.records {
		if rec.OrganizationID != organizationID || !inRange(rec.Date, from, to) {
			continue
		}
		tp, ok := byTask[rec.Task]
		if !ok {
			tp = &dashboard.TaskPackages{Task: rec.Task}
			byTask[rec.Task] = tp
		}
		tp.Sum += int64(rec.PackagesHandled)
		tp.Records++
	}

	out := make([]dashboard.TaskPackages, 0, len(byTask))
	for _, tp := range byTask {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Task < out[j].Task })
	return out, nil
}

func (r dashboardRepository) GetDailyThroughput(ctx context.Context, organizationID string, from, to time.Time) ([]dashboard.DailyThroughput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	handled := map[time.Time]int64{}
	for _, rec := range r.data.records {
		if rec.OrganizationID == organizationID && inRange(rec.Date, from, to) {
			handled[dateOnly(rec.Date)] += int64(rec.PackagesHandled)
		}
	}

	schedules := r.schedulesInRange(organizationID, from, to)
	out := make([]dashboard.DailyThroughput, 0, len(schedules))
	for _, s := range schedules {
		day := dashboard.DailyThroughput{Date: s.Date, PackagesHandled: handled[s.Date]}
		if shift, ok := r.data.shifts[s.ID]; ok {
			day.TotalPackages = int64(shift.TotalPackageCount)
			day.CompletedPackages = int64(shift.CompletedPackageCount)
		}
		out = append(out, day)
	}
	return out, nil
}

func (r dashboardRepository) GetTopPerformers(ctx context.Context, organizationID string, from, to time.Time, limit int) ([]dashboard.TopPerformer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byEmployee := map[string]*dashboard.TopPerformer{}
	for _, rec := range r.data.records {
		if rec.OrganizationID != organizationID || !inRange(rec.Date, from, to) {
			continue
		}
		tp, ok := byEmployee[rec.EmployeeID]
		if !ok {
			e := r.data.employees[rec.EmployeeID]
			tp = &dashboard.TopPerformer{EmployeeID: rec.EmployeeID, EmployeeCode: e.EmployeeCode, Name: e.Name}
			byEmployee[rec.EmployeeID] = tp
		}
		tp.Shifts++
		tp.SumPackages += int64(rec.PackagesHandled)
	}

	out := make([]dashboard.TopPerformer, 0, len(byEmployee))
	for _, tp := range byEmployee {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		// compare averages without division: a/b > c/d  <=>  a*d > c*b
		left := out[i].SumPackages * out[j].Shifts
		right := out[j].SumPackages * out[i].Shifts
		if left != right {
			return left > right
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r dashboardRepository) GetWindowActivity(ctx context.Context, organizationID string, from, to time.Time) (*dashboard.WindowActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity := &dashboard.WindowActivity{}
	for _, s := range r.schedulesInRange(organizationID, from, to) {
		if vet, ok := r.data.vets[s.ID]; ok {
			activity.VETOpened++
			if vet.Status == window.VETClosed && vet.TargetPackageCount <= window.AutoCloseThreshold {
				activity.VETFilled++
			}
		}
		if _, ok := r.data.vtos[s.ID]; ok {
			activity.VTOOpened++
		}
	}
	return activity, nil
}
