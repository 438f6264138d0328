package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDashboard serves GET /dashboard. from and to are optional YYYY-MM-DD bounds.
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.dashboardService.GetDashboard(r.Context(), dashboard.DashboardFilter{
		From: q.Get("from"),
		To:   q.Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}
