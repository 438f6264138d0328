package memory

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/google/uuid"
)

type recordRepository struct{ *Store }

func (s *Store) PerformanceRecords() performance.RecordRepository { return recordRepository{s} }

func recordKey(r performance.Record) string {
	return r.EmployeeID + "/" + dateOnly(r.Date).Format("2006-01-02")
}

func recordLess(a, b performance.Record) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.EmployeeCode < b.EmployeeCode
}

// withEmployee fills the joined employee columns. Callers hold mu.
func (r recordRepository) withEmployee(rec performance.Record) performance.Record {
	if e, ok := r.data.employees[rec.EmployeeID]; ok {
		rec.EmployeeCode = e.EmployeeCode
		rec.EmployeeName = e.Name
	}
	return rec
}

func (r recordRepository) Upsert(ctx context.Context, record performance.Record) (performance.Record, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.Date = dateOnly(record.Date)
	key := recordKey(record)
	if existing, ok := r.data.records[key]; ok {
		existing.Task = record.Task
		existing.PackagesHandled = record.PackagesHandled
		existing.TotalPackages = record.TotalPackages
		existing.WorkingHours = record.WorkingHours
		existing.UpdatedAt = r.now()
		r.data.records[key] = existing
		return r.withEmployee(existing), false, nil
	}

	record.ID = uuid.NewString()
	record.CreatedAt = r.now()
	record.UpdatedAt = record.CreatedAt
	r.data.records[key] = record
	return r.withEmployee(record), true, nil
}

func (r recordRepository) ListByEmployee(ctx context.Context, employeeID string) ([]performance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedValues(r.data.records, func(rec performance.Record) bool {
		return rec.EmployeeID == employeeID
	}, recordLess), nil
}

func (r recordRepository) matching(organizationID string, filter performance.RecordFilter) []performance.Record {
	out := sortedValues(r.data.records, func(rec performance.Record) bool {
		if rec.OrganizationID != organizationID {
			return false
		}
		if filter.FromDate != nil && rec.Date.Before(*filter.FromDate) {
			return false
		}
		if filter.ToDate != nil && rec.Date.After(*filter.ToDate) {
			return false
		}
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			return false
		}
		if filter.Task != nil && string(rec.Task) != *filter.Task {
			return false
		}
		return true
	}, recordLess)
	for i := range out {
		out[i] = r.withEmployee(out[i])
	}
	return out
}

func (r recordRepository) List(ctx context.Context, organizationID string, filter performance.RecordFilter) ([]performance.Record, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := r.matching(organizationID, filter)
	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r recordRepository) ListAll(ctx context.Context, organizationID string, filter performance.RecordFilter) ([]performance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.matching(organizationID, filter), nil
}
