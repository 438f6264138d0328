package performance

import "context"

type RecordRepository interface {
	// Upsert inserts or updates the record for (employee_id, date) and reports whether it was new.
	Upsert(ctx context.Context, record Record) (Record, bool, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Record, error)
	List(ctx context.Context, organizationID string, filter RecordFilter) ([]Record, int64, error)
	// ListAll ignores pagination; used by the export.
	ListAll(ctx context.Context, organizationID string, filter RecordFilter) ([]Record, error)
}
