package memory

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

type employeeRepository struct{ *Store }

func (s *Store) Employees() employee.EmployeeRepository { return employeeRepository{s} }

func byCode(a, b employee.Employee) bool { return a.EmployeeCode < b.EmployeeCode }

func (r employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.data.employees {
		if e.OrganizationID == newEmployee.OrganizationID && e.EmployeeCode == newEmployee.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
	}
	newEmployee.ID = uuid.NewString()
	newEmployee.CreatedAt = r.now()
	newEmployee.UpdatedAt = newEmployee.CreatedAt
	r.data.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r employeeRepository) GetByID(ctx context.Context, id, organizationID string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.data.employees[id]
	if !ok || e.OrganizationID != organizationID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r employeeRepository) GetByCode(ctx context.Context, organizationID, employeeCode string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.data.employees {
		if e.OrganizationID == organizationID && e.EmployeeCode == employeeCode {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r employeeRepository) GetByIDs(ctx context.Context, organizationID string, ids []string) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return sortedValues(r.data.employees, func(e employee.Employee) bool {
		return wanted[e.ID] && e.OrganizationID == organizationID
	}, byCode), nil
}

func (r employeeRepository) List(ctx context.Context, organizationID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var search string
	if filter.Search != nil {
		search = strings.ToLower(*filter.Search)
	}
	all := sortedValues(r.data.employees, func(e employee.Employee) bool {
		if e.OrganizationID != organizationID {
			return false
		}
		if !filter.IncludeInactive && !e.IsActive {
			return false
		}
		if filter.Type != nil && string(e.Type) != *filter.Type {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) && !strings.Contains(strings.ToLower(e.EmployeeCode), search) {
			return false
		}
		return true
	}, byCode)

	return paginate(all, filter.Page, filter.Limit), int64(len(all)), nil
}

func (r employeeRepository) ListActiveByType(ctx context.Context, organizationID string, employeeType employee.Type) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return sortedValues(r.data.employees, func(e employee.Employee) bool {
		return e.OrganizationID == organizationID && e.IsActive && e.Type == employeeType
	}, byCode), nil
}

func (r employeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.data.employees[emp.ID]
	if !ok || existing.OrganizationID != emp.OrganizationID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	emp.EmployeeCode = existing.EmployeeCode
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = r.now()
	r.data.employees[emp.ID] = emp
	return emp, nil
}

func (r employeeRepository) UpdateEfficiencies(ctx context.Context, id string, eff employee.Efficiencies) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.data.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.InductorEfficiency = eff.Inductor
	e.StowerEfficiency = eff.Stower
	e.DownstackerEfficiency = eff.Downstacker
	e.AverageEfficiency = eff.Average
	e.UpdatedAt = r.now()
	r.data.employees[id] = e
	return nil
}

func (r employeeRepository) SoftDelete(ctx context.Context, id, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.data.employees[id]
	if !ok || e.OrganizationID != organizationID {
		return employee.ErrEmployeeNotFound
	}
	e.IsActive = false
	e.UpdatedAt = r.now()
	r.data.employees[id] = e
	return nil
}
