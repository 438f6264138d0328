package http

import (
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Organization OrganizationHandler
	Employee     EmployeeHandler
	Schedule     ScheduleHandler
	Task         TaskHandler
	Window       WindowHandler
	Performance  PerformanceHandler
	Dashboard    DashboardHandler
	Comment      CommentHandler
	Document     DocumentHandler
	Event        EventHandler
}

func NewRouter(cfg *config.Config, logger *slog.Logger, JWTService jwt.Service, h Handlers) (*chi.Mux, error) {
	loginLimit, err := middleware.RateLimit(cfg.RateLimit.Login)
	if err != nil {
		return nil, fmt.Errorf("login rate limit: %w", err)
	}
	confirmLimit, err := middleware.RateLimit(cfg.RateLimit.VETConfirm)
	if err != nil {
		return nil, fmt.Errorf("vet confirm rate limit: %w", err)
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.With(loginLimit).Post("/login", h.Auth.Login)
		})

		// EventSource cannot send headers; the handler verifies ?token= itself.
		r.Get("/events", h.Event.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/organizations", h.Organization.Create)

			// Requires an organization
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireOrganization)

				r.Route("/organizations/my", func(r chi.Router) {
					r.Get("/", h.Organization.GetMine)

					// Owner only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireOwner)
						r.Put("/", h.Organization.UpdateMine)
						r.Post("/members", h.Organization.AddMember)
					})
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.ListEmployees)
					r.Get("/{id}", h.Employee.GetEmployee)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireManager)
						r.Post("/", h.Employee.CreateEmployee)
						r.Put("/{id}", h.Employee.UpdateEmployee)
						r.Delete("/{id}", h.Employee.DeleteEmployee)
					})
				})

				r.Route("/schedules", func(r chi.Router) {
					r.Get("/", h.Schedule.ListSchedules)
					r.With(middleware.RequireManager).Post("/", h.Schedule.CreateSchedule)

					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", h.Schedule.GetSchedule)
						r.Get("/tasks", h.Task.ListTasks)
						r.Get("/tasks/workforce-plans", h.Task.GetWorkforcePlans)
						r.Get("/vet", h.Window.GetVET)
						r.Get("/vto", h.Window.GetVTO)

						r.Get("/comments", h.Comment.List)
						r.Post("/comments", h.Comment.Create)
						r.Delete("/comments/{commentID}", h.Comment.Delete)

						// Manager or owner
						r.Group(func(r chi.Router) {
							r.Use(middleware.RequireManager)

							r.Put("/", h.Schedule.UpdateSchedule)
							r.Delete("/", h.Schedule.DeleteSchedule)
							r.Post("/employees", h.Schedule.AddEmployees)
							r.Delete("/employees/{employeeID}", h.Schedule.RemoveEmployee)

							r.Patch("/tasks", h.Task.UpdateTask)
							r.Patch("/tasks/batch", h.Task.BatchUpdateTasks)
							r.Post("/tasks/apply-plan", h.Task.ApplyPlan)

							r.Post("/vet", h.Window.OpenVET)
							r.Patch("/vet", h.Window.UpdateVET)
							r.With(confirmLimit).Post("/vet/confirm", h.Window.ConfirmVET)

							r.Post("/vto", h.Window.OpenVTO)
							r.Patch("/vto", h.Window.UpdateVTO)
							r.Post("/vto/accept", h.Window.AcceptVTO)
						})
					})
				})

				r.Route("/performance", func(r chi.Router) {
					r.Get("/", h.Performance.ListRecords)
					r.Get("/export", h.Performance.Export)
					r.With(middleware.RequireManager).Post("/import", h.Performance.Import)
				})

				r.Get("/dashboard", h.Dashboard.GetDashboard)

				r.Route("/documents", func(r chi.Router) {
					r.Get("/", h.Document.List)
					r.Get("/{id}/download", h.Document.Download)
					r.With(middleware.RequireManager).Post("/", h.Document.Upload)
					r.With(middleware.RequireManager).Delete("/{id}", h.Document.Delete)
				})
			})
		})
	})
	return r, nil
}
