package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, schedule_id, total_package_count, completed_package_count, status, created_at, updated_at`

func scanShift(row pgx.Row) (schedule.Shift, error) {
	var s schedule.Shift
	err := row.Scan(&s.ID, &s.ScheduleID, &s.TotalPackageCount, &s.CompletedPackageCount, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, shift schedule.Shift) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (schedule_id, total_package_count, completed_package_count, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, shift.ScheduleID, shift.TotalPackageCount, shift.CompletedPackageCount, shift.Status))
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("failed to insert shift: %w", err)
	}
	return created, nil
}

// GetByScheduleID implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) GetByScheduleID(ctx context.Context, scheduleID string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE schedule_id = $1`, scheduleID))
	if err != nil {
		if isNotFound(err) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, err
	}
	return found, nil
}

// Update implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, shift schedule.Shift) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET total_package_count = $1, completed_package_count = $2, status = $3, updated_at = NOW()
		WHERE schedule_id = $4
	`

	tag, err := q.Exec(ctx, query, shift.TotalPackageCount, shift.CompletedPackageCount, shift.Status, shift.ScheduleID)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrShiftNotFound
	}
	return nil
}

// UpsertTotal implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) UpsertTotal(ctx context.Context, scheduleID string, total int, status schedule.Status) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (schedule_id, total_package_count, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (schedule_id)
		DO UPDATE SET total_package_count = EXCLUDED.total_package_count, status = EXCLUDED.status, updated_at = NOW()
		RETURNING ` + shiftColumns

	shift, err := scanShift(q.QueryRow(ctx, query, scheduleID, total, status))
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("failed to upsert shift: %w", err)
	}
	return shift, nil
}

// RecomputeCompleted implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) RecomputeCompleted(ctx context.Context, scheduleID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts sh
		SET completed_package_count = COALESCE((
				SELECT SUM(pr.packages_handled)
				FROM performance_records pr
				JOIN schedules s ON s.organization_id = pr.organization_id AND s.date = pr.date
				WHERE s.id = sh.schedule_id
			), 0),
			updated_at = NOW()
		WHERE sh.schedule_id = $1
	`

	tag, err := q.Exec(ctx, query, scheduleID)
	if err != nil {
		return fmt.Errorf("failed to recompute completed packages: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrShiftNotFound
	}
	return nil
}
