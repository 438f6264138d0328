package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, organization_id, employee_code, name, email, type, work_days,
	inductor_efficiency, stower_efficiency, downstacker_efficiency, average_efficiency,
	is_active, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.EmployeeCode, &e.Name, &e.Email, &e.Type, &e.WorkDays,
		&e.InductorEfficiency, &e.StowerEfficiency, &e.DownstackerEfficiency, &e.AverageEfficiency,
		&e.IsActive, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func collectEmployees(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

// validUUIDs drops ids that cannot match a uuid column instead of failing the query.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func workDaysArg(days []int) []int {
	if days == nil {
		return []int{}
	}
	return days
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		INSERT INTO employees (
			organization_id, employee_code, name, email, type, work_days,
			inductor_efficiency, stower_efficiency, downstacker_efficiency, average_efficiency, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		newEmployee.OrganizationID,
		newEmployee.EmployeeCode,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.Type,
		workDaysArg(newEmployee.WorkDays),
		newEmployee.InductorEfficiency,
		newEmployee.StowerEfficiency,
		newEmployee.DownstackerEfficiency,
		newEmployee.AverageEfficiency,
		newEmployee.IsActive,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		return employee.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id, organizationID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND organization_id = $2`

	found, err := scanEmployee(q.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return found, nil
}

// GetByCode implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByCode(ctx context.Context, organizationID, employeeCode string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE organization_id = $1 AND employee_code = $2`

	found, err := scanEmployee(q.QueryRow(ctx, query, organizationID, employeeCode))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return found, nil
}

// GetByIDs implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByIDs(ctx context.Context, organizationID string, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE organization_id = $1 AND id = ANY($2::uuid[])
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, organizationID, validUUIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	return collectEmployees(rows)
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, organizationID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"organization_id = $1"}
	args := []interface{}{organizationID}
	argIdx := 2

	if !filter.IncludeInactive {
		conditions = append(conditions, "is_active")
	}
	if filter.Type != nil && *filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *filter.Type)
		argIdx++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR employee_code ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	// Count query
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		WHERE %s
		ORDER BY employee_code
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	employees, err := collectEmployees(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// ListActiveByType implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListActiveByType(ctx context.Context, organizationID string, employeeType employee.Type) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE organization_id = $1 AND type = $2 AND is_active
		ORDER BY employee_code
	`

	rows, err := q.Query(ctx, query, organizationID, employeeType)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by type: %w", err)
	}
	return collectEmployees(rows)
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET name = $1, email = $2, type = $3, work_days = $4,
			inductor_efficiency = $5, stower_efficiency = $6, downstacker_efficiency = $7,
			average_efficiency = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10 AND organization_id = $11
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.Name,
		emp.Email,
		emp.Type,
		workDaysArg(emp.WorkDays),
		emp.InductorEfficiency,
		emp.StowerEfficiency,
		emp.DownstackerEfficiency,
		emp.AverageEfficiency,
		emp.IsActive,
		emp.ID,
		emp.OrganizationID,
	))
	if err != nil {
		if isNotFound(err) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}

// UpdateEfficiencies implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) UpdateEfficiencies(ctx context.Context, id string, eff employee.Efficiencies) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET inductor_efficiency = $1, stower_efficiency = $2, downstacker_efficiency = $3,
			average_efficiency = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, eff.Inductor, eff.Stower, eff.Downstacker, eff.Average, id)
	if err != nil {
		return fmt.Errorf("failed to update efficiencies: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// SoftDelete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) SoftDelete(ctx context.Context, id, organizationID string) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
	`

	tag, err := q.Exec(ctx, query, id, organizationID)
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
