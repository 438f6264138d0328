package employee

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// ToEmployeeResponse maps an employee to its API representation.
func ToEmployeeResponse(emp employee.Employee) employee.EmployeeResponse {
	workDays := emp.WorkDays
	if workDays == nil {
		workDays = []int{}
	}
	return employee.EmployeeResponse{
		ID:                    emp.ID,
		EmployeeCode:          emp.EmployeeCode,
		Name:                  emp.Name,
		Email:                 emp.Email,
		Type:                  string(emp.Type),
		WorkDays:              workDays,
		InductorEfficiency:    emp.InductorEfficiency,
		StowerEfficiency:      emp.StowerEfficiency,
		DownstackerEfficiency: emp.DownstackerEfficiency,
		AverageEfficiency:     emp.AverageEfficiency,
		IsActive:              emp.IsActive,
		CreatedAt:             emp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             emp.UpdatedAt.Format(time.RFC3339),
	}
}

func normalizeWorkDays(t employee.Type, days []int) []int {
	if t != employee.TypeFixed {
		return []int{}
	}
	out := append([]int(nil), days...)
	sort.Ints(out)
	return out
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	empType := employee.Type(req.Type)
	newEmployee := employee.Employee{
		OrganizationID:        orgID,
		EmployeeCode:          req.EmployeeCode,
		Name:                  req.Name,
		Email:                 req.Email,
		Type:                  empType,
		WorkDays:              normalizeWorkDays(empType, req.WorkDays),
		InductorEfficiency:    valueOr(req.InductorEfficiency),
		StowerEfficiency:      valueOr(req.StowerEfficiency),
		DownstackerEfficiency: valueOr(req.DownstackerEfficiency),
		IsActive:              true,
	}
	newEmployee.AverageEfficiency = employee.AverageOf(newEmployee.InductorEfficiency, newEmployee.StowerEfficiency, newEmployee.DownstackerEfficiency)

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeCodeExists) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeCodeExists
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return ToEmployeeResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return ToEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, orgID, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, ToEmployeeResponse(emp))
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Employees:  responses,
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		if *req.Email == "" {
			emp.Email = nil
		} else {
			emp.Email = req.Email
		}
	}
	if req.Type != nil {
		emp.Type = employee.Type(*req.Type)
	}
	if req.WorkDays != nil {
		emp.WorkDays = req.WorkDays
	}
	emp.WorkDays = normalizeWorkDays(emp.Type, emp.WorkDays)
	if req.InductorEfficiency != nil {
		emp.InductorEfficiency = *req.InductorEfficiency
	}
	if req.StowerEfficiency != nil {
		emp.StowerEfficiency = *req.StowerEfficiency
	}
	if req.DownstackerEfficiency != nil {
		emp.DownstackerEfficiency = *req.DownstackerEfficiency
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}
	emp.AverageEfficiency = employee.AverageOf(emp.InductorEfficiency, emp.StowerEfficiency, emp.DownstackerEfficiency)

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return ToEmployeeResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	orgID, err := jwt.OrganizationIDFromContext(ctx)
	if err != nil {
		return err
	}

	emp, err := s.employeeRepo.GetByID(ctx, id, orgID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.ErrEmployeeAlreadyGone
	}

	if err := s.employeeRepo.SoftDelete(ctx, id, orgID); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
