package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id, organizationID string) (Employee, error)
	GetByCode(ctx context.Context, organizationID, employeeCode string) (Employee, error)
	GetByIDs(ctx context.Context, organizationID string, ids []string) ([]Employee, error)
	List(ctx context.Context, organizationID string, filter EmployeeFilter) ([]Employee, int64, error)
	ListActiveByType(ctx context.Context, organizationID string, employeeType Type) ([]Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	UpdateEfficiencies(ctx context.Context, id string, eff Efficiencies) error
	SoftDelete(ctx context.Context, id, organizationID string) error
}
