package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/window"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// GetScheduleSummary returns schedule counts, package totals and active headcount in a single query
func (r *dashboardRepositoryImpl) GetScheduleSummary(ctx context.Context, organizationID string, from, to time.Time) (*dashboard.ScheduleSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(s.id) AS total,
			COALESCE(SUM(CASE WHEN s.status = 'COMPLETED' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(sh.total_package_count), 0) AS total_packages,
			COALESCE(SUM(sh.completed_package_count), 0) AS completed_packages,
			(SELECT COUNT(*) FROM employees e WHERE e.organization_id = $1 AND e.is_active) AS active_employees
		FROM schedules s
		LEFT JOIN shifts sh ON sh.schedule_id = s.id
		WHERE s.organization_id = $1 AND s.date BETWEEN $2 AND $3
	`

	var summary dashboard.ScheduleSummary
	err := q.QueryRow(ctx, query, organizationID, from, to).Scan(
		&summary.TotalSchedules, &summary.CompletedSchedules,
		&summary.TotalPackages, &summary.CompletedPackages, &summary.ActiveEmployees,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule summary: %w", err)
	}
	return &summary, nil
}

// GetTaskPackages groups performance records by task
func (r *dashboardRepositoryImpl) GetTaskPackages(ctx context.Context, organizationID string, from, to time.Time) ([]dashboard.TaskPackages, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT task, COALESCE(SUM(packages_handled), 0), COUNT(*)
		FROM performance_records
		WHERE organization_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY task
		ORDER BY task
	`

	rows, err := q.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get task packages: %w", err)
	}
	defer rows.Close()

	var out []dashboard.TaskPackages
	for rows.Next() {
		var tp dashboard.TaskPackages
		if err := rows.Scan(&tp.Task, &tp.Sum, &tp.Records); err != nil {
			return nil, fmt.Errorf("failed to scan task packages: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// GetDailyThroughput returns one row per schedule date
func (r *dashboardRepositoryImpl) GetDailyThroughput(ctx context.Context, organizationID string, from, to time.Time) ([]dashboard.DailyThroughput, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			s.date,
			COALESCE(sh.total_package_count, 0),
			COALESCE(sh.completed_package_count, 0),
			COALESCE((
				SELECT SUM(pr.packages_handled)
				FROM performance_records pr
				WHERE pr.organization_id = s.organization_id AND pr.date = s.date
			), 0)
		FROM schedules s
		LEFT JOIN shifts sh ON sh.schedule_id = s.id
		WHERE s.organization_id = $1 AND s.date BETWEEN $2 AND $3
		ORDER BY s.date
	`

	rows, err := q.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily throughput: %w", err)
	}
	defer rows.Close()

	var out []dashboard.DailyThroughput
	for rows.Next() {
		var d dashboard.DailyThroughput
		if err := rows.Scan(&d.Date, &d.TotalPackages, &d.CompletedPackages, &d.PackagesHandled); err != nil {
			return nil, fmt.Errorf("failed to scan daily throughput: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetTopPerformers ranks employees by average packages handled per record
func (r *dashboardRepositoryImpl) GetTopPerformers(ctx context.Context, organizationID string, from, to time.Time, limit int) ([]dashboard.TopPerformer, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.name, COUNT(*) AS shifts, SUM(pr.packages_handled) AS total
		FROM performance_records pr
		JOIN employees e ON e.id = pr.employee_id
		WHERE pr.organization_id = $1 AND pr.date BETWEEN $2 AND $3
		GROUP BY e.id, e.employee_code, e.name
		ORDER BY SUM(pr.packages_handled)::numeric / COUNT(*) DESC, e.name
		LIMIT $4
	`

	rows, err := q.Query(ctx, query, organizationID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top performers: %w", err)
	}
	defer rows.Close()

	var out []dashboard.TopPerformer
	for rows.Next() {
		var tp dashboard.TopPerformer
		if err := rows.Scan(&tp.EmployeeID, &tp.EmployeeCode, &tp.Name, &tp.Shifts, &tp.SumPackages); err != nil {
			return nil, fmt.Errorf("failed to scan top performer: %w", err)
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

// GetWindowActivity counts VET/VTO windows on schedules in range. A VET is
// filled when it closed at or under the auto-close threshold.
func (r *dashboardRepositoryImpl) GetWindowActivity(ctx context.Context, organizationID string, from, to time.Time) (*dashboard.WindowActivity, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(v.id),
			COUNT(t.id),
			COALESCE(SUM(CASE WHEN v.status = 'CLOSED' AND v.target_package_count <= $4 THEN 1 ELSE 0 END), 0)
		FROM schedules s
		LEFT JOIN vets v ON v.schedule_id = s.id
		LEFT JOIN vtos t ON t.schedule_id = s.id
		WHERE s.organization_id = $1 AND s.date BETWEEN $2 AND $3
	`

	var activity dashboard.WindowActivity
	err := q.QueryRow(ctx, query, organizationID, from, to, window.AutoCloseThreshold).Scan(
		&activity.VETOpened, &activity.VTOOpened, &activity.VETFilled,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get window activity: %w", err)
	}
	return &activity, nil
}
