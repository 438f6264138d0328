package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type vetRepositoryImpl struct {
	db *database.DB
}

func NewVETRepository(db *database.DB) window.VETRepository {
	return &vetRepositoryImpl{db: db}
}

const vetColumns = `id, schedule_id, target_package_count, status, opened_at, closed_at, created_at, updated_at`

func scanVET(row pgx.Row) (window.VET, error) {
	var v window.VET
	err := row.Scan(&v.ID, &v.ScheduleID, &v.TargetPackageCount, &v.Status, &v.OpenedAt, &v.ClosedAt, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *vetRepositoryImpl) Create(ctx context.Context, vet window.VET) (window.VET, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO vets (schedule_id, target_package_count, status, opened_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + vetColumns

	created, err := scanVET(q.QueryRow(ctx, query, vet.ScheduleID, vet.TargetPackageCount, vet.Status, vet.OpenedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return window.VET{}, window.ErrVETExists
		}
		return window.VET{}, fmt.Errorf("failed to insert vet: %w", err)
	}
	return created, nil
}

func (r *vetRepositoryImpl) get(ctx context.Context, scheduleID, suffix string) (window.VET, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanVET(q.QueryRow(ctx, `SELECT `+vetColumns+` FROM vets WHERE schedule_id = $1`+suffix, scheduleID))
	if err != nil {
		if isNotFound(err) {
			return window.VET{}, window.ErrVETNotFound
		}
		return window.VET{}, err
	}
	return found, nil
}

func (r *vetRepositoryImpl) GetByScheduleID(ctx context.Context, scheduleID string) (window.VET, error) {
	return r.get(ctx, scheduleID, "")
}

func (r *vetRepositoryImpl) GetByScheduleIDForUpdate(ctx context.Context, scheduleID string) (window.VET, error) {
	return r.get(ctx, scheduleID, " FOR UPDATE")
}

func (r *vetRepositoryImpl) Update(ctx context.Context, vet window.VET) (window.VET, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE vets
		SET target_package_count = $1, status = $2, opened_at = $3, closed_at = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + vetColumns

	updated, err := scanVET(q.QueryRow(ctx, query, vet.TargetPackageCount, vet.Status, vet.OpenedAt, vet.ClosedAt, vet.ID))
	if err != nil {
		if isNotFound(err) {
			return window.VET{}, window.ErrVETNotFound
		}
		return window.VET{}, fmt.Errorf("failed to update vet: %w", err)
	}
	return updated, nil
}

func (r *vetRepositoryImpl) CloseOpenBefore(ctx context.Context, date time.Time) ([]window.ClosedWindow, error) {
	return closeOpenBefore(ctx, r.db, "vets", "w.target_package_count", string(window.VETOpen), string(window.VETClosed), date)
}

type vtoRepositoryImpl struct {
	db *database.DB
}

func NewVTORepository(db *database.DB) window.VTORepository {
	return &vtoRepositoryImpl{db: db}
}

const vtoColumns = `id, schedule_id, status, opened_at, closed_at, created_at, updated_at`

func scanVTO(row pgx.Row) (window.VTO, error) {
	var v window.VTO
	err := row.Scan(&v.ID, &v.ScheduleID, &v.Status, &v.OpenedAt, &v.ClosedAt, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (r *vtoRepositoryImpl) Create(ctx context.Context, vto window.VTO) (window.VTO, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO vtos (schedule_id, status, opened_at)
		VALUES ($1, $2, $3)
		RETURNING ` + vtoColumns

	created, err := scanVTO(q.QueryRow(ctx, query, vto.ScheduleID, vto.Status, vto.OpenedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return window.VTO{}, window.ErrVTOExists
		}
		return window.VTO{}, fmt.Errorf("failed to insert vto: %w", err)
	}
	return created, nil
}

func (r *vtoRepositoryImpl) get(ctx context.Context, scheduleID, suffix string) (window.VTO, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanVTO(q.QueryRow(ctx, `SELECT `+vtoColumns+` FROM vtos WHERE schedule_id = $1`+suffix, scheduleID))
	if err != nil {
		if isNotFound(err) {
			return window.VTO{}, window.ErrVTONotFound
		}
		return window.VTO{}, err
	}
	return found, nil
}

func (r *vtoRepositoryImpl) GetByScheduleID(ctx context.Context, scheduleID string) (window.VTO, error) {
	return r.get(ctx, scheduleID, "")
}

func (r *vtoRepositoryImpl) GetByScheduleIDForUpdate(ctx context.Context, scheduleID string) (window.VTO, error) {
	return r.get(ctx, scheduleID, " FOR UPDATE")
}

func (r *vtoRepositoryImpl) Update(ctx context.Context, vto window.VTO) (window.VTO, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE vtos
		SET status = $1, opened_at = $2, closed_at = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + vtoColumns

	updated, err := scanVTO(q.QueryRow(ctx, query, vto.Status, vto.OpenedAt, vto.ClosedAt, vto.ID))
	if err != nil {
		if isNotFound(err) {
			return window.VTO{}, window.ErrVTONotFound
		}
		return window.VTO{}, fmt.Errorf("failed to update vto: %w", err)
	}
	return updated, nil
}

func (r *vtoRepositoryImpl) CloseOpenBefore(ctx context.Context, date time.Time) ([]window.ClosedWindow, error) {
	return closeOpenBefore(ctx, r.db, "vtos", "NULL::int", string(window.VTOOpen), string(window.VTOClosed), date)
}

// closeOpenBefore closes every open window of table whose schedule is dated
// before date and returns the schedules it closed. target selects the
// remaining package target.
func closeOpenBefore(ctx context.Context, db *database.DB, table, target, open, closed string, date time.Time) ([]window.ClosedWindow, error) {
	q := GetQuerier(ctx, db)

	query := fmt.Sprintf(`
		UPDATE %s w
		SET status = $1, closed_at = NOW(), updated_at = NOW()
		FROM schedules s
		WHERE s.id = w.schedule_id AND s.date < $2 AND w.status = $3
		RETURNING s.id, s.organization_id, s.date, %s
	`, table, target)

	rows, err := q.Query(ctx, query, closed, date, open)
	if err != nil {
		return nil, fmt.Errorf("failed to close past %s: %w", table, err)
	}
	defer rows.Close()

	var windows []window.ClosedWindow
	for rows.Next() {
		var w window.ClosedWindow
		if err := rows.Scan(&w.ScheduleID, &w.OrganizationID, &w.ScheduleDate, &w.TargetPackageCount); err != nil {
			return nil, fmt.Errorf("failed to scan closed %s: %w", table, err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to close past %s: %w", table, err)
	}
	return windows, nil
}
