package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/performance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type recordRepositoryImpl struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) performance.RecordRepository {
	return &recordRepositoryImpl{db: db}
}

const recordSelect = `
	SELECT
		pr.id, pr.organization_id, pr.employee_id, pr.date, pr.task,
		pr.packages_handled, pr.total_packages, pr.working_hours, pr.created_at, pr.updated_at,
		e.employee_code, e.name
	FROM performance_records pr
	JOIN employees e ON e.id = pr.employee_id`

func scanRecord(row pgx.Row) (performance.Record, error) {
	var r performance.Record
	err := row.Scan(
		&r.ID, &r.OrganizationID, &r.EmployeeID, &r.Date, &r.Task,
		&r.PackagesHandled, &r.TotalPackages, &r.WorkingHours, &r.CreatedAt, &r.UpdatedAt,
		&r.EmployeeCode, &r.EmployeeName,
	)
	return r, err
}

func collectRecords(rows pgx.Rows) ([]performance.Record, error) {
	defer rows.Close()

	records := []performance.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Upsert implements performance.RecordRepository. xmax is zero only for a
// freshly inserted row.
func (r *recordRepositoryImpl) Upsert(ctx context.Context, record performance.Record) (performance.Record, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH upserted AS (
			INSERT INTO performance_records
				(organization_id, employee_id, date, task, packages_handled, total_packages, working_hours)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (employee_id, date)
			DO UPDATE SET task = EXCLUDED.task, packages_handled = EXCLUDED.packages_handled,
				total_packages = EXCLUDED.total_packages, working_hours = EXCLUDED.working_hours,
				updated_at = NOW()
			RETURNING *, (xmax = 0) AS inserted
		)
		SELECT
			pr.id, pr.organization_id, pr.employee_id, pr.date, pr.task,
			pr.packages_handled, pr.total_packages, pr.working_hours, pr.created_at, pr.updated_at,
			e.employee_code, e.name, pr.inserted
		FROM upserted pr
		JOIN employees e ON e.id = pr.employee_id`

	var rec performance.Record
	var inserted bool
	err := q.QueryRow(ctx, query,
		record.OrganizationID, record.EmployeeID, record.Date, record.Task,
		record.PackagesHandled, record.TotalPackages, record.WorkingHours,
	).Scan(
		&rec.ID, &rec.OrganizationID, &rec.EmployeeID, &rec.Date, &rec.Task,
		&rec.PackagesHandled, &rec.TotalPackages, &rec.WorkingHours, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeCode, &rec.EmployeeName, &inserted,
	)
	if err != nil {
		return performance.Record{}, false, fmt.Errorf("failed to upsert performance record: %w", err)
	}
	return rec, inserted, nil
}

// ListByEmployee implements performance.RecordRepository.
func (r *recordRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]performance.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, recordSelect+` WHERE pr.employee_id = $1 ORDER BY pr.date`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee records: %w", err)
	}
	return collectRecords(rows)
}

func recordConditions(organizationID string, filter performance.RecordFilter) (string, []interface{}, int) {
	conditions := []string{"pr.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("pr.date >= $%d", argIdx))
		args = append(args, *filter.FromDate)
		argIdx++
	}
	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("pr.date <= $%d", argIdx))
		args = append(args, *filter.ToDate)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("pr.employee_id::text = $%d", argIdx))
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Task != nil && *filter.Task != "" {
		conditions = append(conditions, fmt.Sprintf("pr.task = $%d", argIdx))
		args = append(args, *filter.Task)
		argIdx++
	}

	return strings.Join(conditions, " AND "), args, argIdx
}

// List implements performance.RecordRepository.
func (r *recordRepositoryImpl) List(ctx context.Context, organizationID string, filter performance.RecordFilter) ([]performance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args, argIdx := recordConditions(organizationID, filter)

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM performance_records pr WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count performance records: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf("%s WHERE %s ORDER BY pr.date, e.employee_code LIMIT $%d OFFSET $%d",
		recordSelect, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list performance records: %w", err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListAll implements performance.RecordRepository.
func (r *recordRepositoryImpl) ListAll(ctx context.Context, organizationID string, filter performance.RecordFilter) ([]performance.Record, error) {
	q := GetQuerier(ctx, r.db)

	whereClause, args, _ := recordConditions(organizationID, filter)
	query := fmt.Sprintf("%s WHERE %s ORDER BY pr.date, e.employee_code", recordSelect, whereClause)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to export performance records: %w", err)
	}
	return collectRecords(rows)
}
