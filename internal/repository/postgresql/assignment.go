package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/schedule"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type assignmentRepositoryImpl struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) schedule.AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

// assignmentSelect joins the employee fields shown next to an assignment.
const assignmentSelect = `
	SELECT
		se.id, se.schedule_id, se.employee_id, se.task, se.efficiency, se.status, se.created_at, se.updated_at,
		e.employee_code, e.name, e.email, e.type
	FROM %s se
	JOIN employees e ON e.id = se.employee_id`

func scanAssignment(row pgx.Row) (schedule.Assignment, error) {
	var a schedule.Assignment
	err := row.Scan(
		&a.ID, &a.ScheduleID, &a.EmployeeID, &a.Task, &a.Efficiency, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.EmployeeCode, &a.EmployeeName, &a.EmployeeEmail, &a.EmployeeType,
	)
	return a, err
}

// Create implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) Create(ctx context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO schedule_employees (schedule_id, employee_id, task, efficiency, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)` + fmt.Sprintf(assignmentSelect, "inserted")

	created, err := scanAssignment(q.QueryRow(ctx, query, a.ScheduleID, a.EmployeeID, a.Task, a.Efficiency, a.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return schedule.Assignment{}, schedule.ErrAlreadyAssigned
		}
		return schedule.Assignment{}, fmt.Errorf("failed to insert assignment: %w", err)
	}
	return created, nil
}

// Upsert implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) Upsert(ctx context.Context, a schedule.Assignment) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH upserted AS (
			INSERT INTO schedule_employees (schedule_id, employee_id, task, efficiency, status)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (schedule_id, employee_id)
			DO UPDATE SET task = EXCLUDED.task, efficiency = EXCLUDED.efficiency,
				status = EXCLUDED.status, updated_at = NOW()
			RETURNING *
		)` + fmt.Sprintf(assignmentSelect, "upserted")

	upserted, err := scanAssignment(q.QueryRow(ctx, query, a.ScheduleID, a.EmployeeID, a.Task, a.Efficiency, a.Status))
	if err != nil {
		return schedule.Assignment{}, fmt.Errorf("failed to upsert assignment: %w", err)
	}
	return upserted, nil
}

// GetByScheduleAndEmployee implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) GetByScheduleAndEmployee(ctx context.Context, scheduleID, employeeID string) (schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(assignmentSelect, "schedule_employees") + `
		WHERE se.schedule_id = $1 AND se.employee_id = $2`

	found, err := scanAssignment(q.QueryRow(ctx, query, scheduleID, employeeID))
	if err != nil {
		if isNotFound(err) {
			return schedule.Assignment{}, schedule.ErrAssignmentNotFound
		}
		return schedule.Assignment{}, err
	}
	return found, nil
}

// ListBySchedule implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) ListBySchedule(ctx context.Context, scheduleID string) ([]schedule.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(assignmentSelect, "schedule_employees") + `
		WHERE se.schedule_id = $1
		ORDER BY e.name, se.id`

	rows, err := q.Query(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []schedule.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepositoryImpl) exec(ctx context.Context, query string, args ...interface{}) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isNotFound(err) {
			return schedule.ErrAssignmentNotFound
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return schedule.ErrAssignmentNotFound
	}
	return nil
}

// UpdateTask implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) UpdateTask(ctx context.Context, scheduleID, employeeID string, task employee.Task, efficiency float64) error {
	return r.exec(ctx, `
		UPDATE schedule_employees
		SET task = $1, efficiency = $2, updated_at = NOW()
		WHERE schedule_id = $3 AND employee_id = $4
	`, task, efficiency, scheduleID, employeeID)
}

// UpdateStatus implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) UpdateStatus(ctx context.Context, scheduleID, employeeID string, status schedule.AssignmentStatus) error {
	return r.exec(ctx, `
		UPDATE schedule_employees
		SET status = $1, updated_at = NOW()
		WHERE schedule_id = $2 AND employee_id = $3
	`, status, scheduleID, employeeID)
}

// Delete implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) Delete(ctx context.Context, scheduleID, employeeID string) error {
	return r.exec(ctx, `DELETE FROM schedule_employees WHERE schedule_id = $1 AND employee_id = $2`, scheduleID, employeeID)
}

// CountScheduledSince implements schedule.AssignmentRepository.
func (r *assignmentRepositoryImpl) CountScheduledSince(ctx context.Context, employeeIDs []string, from, to time.Time) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT se.employee_id, COUNT(*)
		FROM schedule_employees se
		JOIN schedules s ON s.id = se.schedule_id
		WHERE se.employee_id = ANY($1::uuid[])
			AND se.status = 'SCHEDULED'
			AND s.date >= $2 AND s.date < $3
		GROUP BY se.employee_id
	`

	rows, err := q.Query(ctx, query, validUUIDs(employeeIDs), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count scheduled shifts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(employeeIDs))
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan shift count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
