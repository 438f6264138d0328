package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard runs the dashboard queries concurrently and combines them.
	GetDashboard(ctx context.Context, filter DashboardFilter) (*DashboardResponse, error)
}
