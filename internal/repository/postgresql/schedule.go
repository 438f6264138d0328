package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type scheduleRepositoryImpl struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepositoryImpl{db: db}
}

const scheduleColumns = `id, organization_id, date, status, created_at, updated_at`

func scanSchedule(row pgx.Row) (schedule.Schedule, error) {
	var s schedule.Schedule
	err := row.Scan(&s.ID, &s.OrganizationID, &s.Date, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) Create(ctx context.Context, s schedule.Schedule) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedules (organization_id, date, status)
		VALUES ($1, $2, $3)
		RETURNING ` + scheduleColumns

	created, err := scanSchedule(q.QueryRow(ctx, query, s.OrganizationID, s.Date, s.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Schedule{}, schedule.ErrScheduleExists
		}
		return schedule.Schedule{}, fmt.Errorf("failed to insert schedule: %w", err)
	}
	return created, nil
}

// GetByID implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetByID(ctx context.Context, id, organizationID string) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id = $1 AND organization_id = $2`

	found, err := scanSchedule(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if isNotFound(err) {
			return schedule.Schedule{}, schedule.ErrScheduleNotFound
		}
		return schedule.Schedule{}, err
	}
	return found, nil
}

// List implements schedule.ScheduleRepository. Each schedule carries its shift.
func (r *scheduleRepositoryImpl) List(ctx context.Context, organizationID string, filter schedule.ScheduleFilter) ([]schedule.Schedule, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"s.organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("s.date >= $%d", argIdx))
		args = append(args, *filter.FromDate)
		argIdx++
	}
	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("s.date <= $%d", argIdx))
		args = append(args, *filter.ToDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schedules s WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count schedules: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT
			s.id, s.organization_id, s.date, s.status, s.created_at, s.updated_at,
			sh.id, sh.total_package_count, sh.completed_package_count, sh.status, sh.created_at, sh.updated_at
		FROM schedules s
		LEFT JOIN shifts sh ON sh.schedule_id = s.id
		WHERE %s
		ORDER BY s.date DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	schedules := []schedule.Schedule{}
	for rows.Next() {
		var (
			s                          schedule.Schedule
			shiftID                    *string
			total, completed           *int
			shiftStatus                *schedule.Status
			shiftCreated, shiftUpdated *time.Time
		)
		err := rows.Scan(
			&s.ID, &s.OrganizationID, &s.Date, &s.Status, &s.CreatedAt, &s.UpdatedAt,
			&shiftID, &total, &completed, &shiftStatus, &shiftCreated, &shiftUpdated,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan schedule: %w", err)
		}
		if shiftID != nil {
			s.Shift = &schedule.Shift{
				ID:                    *shiftID,
				ScheduleID:            s.ID,
				TotalPackageCount:     *total,
				CompletedPackageCount: *completed,
				Status:                *shiftStatus,
				CreatedAt:             *shiftCreated,
				UpdatedAt:             *shiftUpdated,
			}
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return schedules, total, nil
}

// UpdateStatus implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) UpdateStatus(ctx context.Context, id, organizationID string, status schedule.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE schedules
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND organization_id = $3
	`

	tag, err := q.Exec(ctx, query, status, id, organizationID)
	if err != nil {
		if isNotFound(err) {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// Delete implements schedule.ScheduleRepository. Shift, assignments, windows
// and comments go with it through ON DELETE CASCADE.
func (r *scheduleRepositoryImpl) Delete(ctx context.Context, id, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM schedules WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		if isNotFound(err) {
			return schedule.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}
	return nil
}

// UpsertByDate implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) UpsertByDate(ctx context.Context, organizationID string, date time.Time, status schedule.Status) (schedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO schedules (organization_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (organization_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING ` + scheduleColumns

	s, err := scanSchedule(q.QueryRow(ctx, query, organizationID, date, status))
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return s, nil
}

// GetWindows implements schedule.ScheduleRepository.
func (r *scheduleRepositoryImpl) GetWindows(ctx context.Context, scheduleID string) (schedule.Windows, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			v.id, v.status, v.target_package_count, v.opened_at, v.closed_at,
			t.id, t.status, t.opened_at, t.closed_at
		FROM schedules s
		LEFT JOIN vets v ON v.schedule_id = s.id
		LEFT JOIN vtos t ON t.schedule_id = s.id
		WHERE s.id = $1
	`

	var (
		vetID, vetStatus, vtoID, vtoStatus *string
		target                             *int
		vetOpened, vtoOpened               *time.Time
		vetClosed, vtoClosed               *time.Time
	)
	err := q.QueryRow(ctx, query, scheduleID).Scan(
		&vetID, &vetStatus, &target, &vetOpened, &vetClosed,
		&vtoID, &vtoStatus, &vtoOpened, &vtoClosed,
	)
	if err != nil {
		if isNotFound(err) {
			return schedule.Windows{}, nil
		}
		return schedule.Windows{}, fmt.Errorf("failed to get windows: %w", err)
	}

	var w schedule.Windows
	if vetID != nil {
		w.VET = &schedule.WindowSummary{ID: *vetID, Status: *vetStatus, TargetPackageCount: target, OpenedAt: *vetOpened, ClosedAt: vetClosed}
	}
	if vtoID != nil {
		w.VTO = &schedule.WindowSummary{ID: *vtoID, Status: *vtoStatus, OpenedAt: *vtoOpened, ClosedAt: vtoClosed}
	}
	return w, nil
}
