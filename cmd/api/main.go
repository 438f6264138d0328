package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/workforce-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/workforce-backend-go/internal/service/auth"
	commentService "github.com/cmlabs-hris/workforce-backend-go/internal/service/comment"
	dashboardService "github.com/cmlabs-hris/workforce-backend-go/internal/service/dashboard"
	documentService "github.com/cmlabs-hris/workforce-backend-go/internal/service/document"
	employeeService "github.com/cmlabs-hris/workforce-backend-go/internal/service/employee"
	notificationService "github.com/cmlabs-hris/workforce-backend-go/internal/service/notification"
	organizationService "github.com/cmlabs-hris/workforce-backend-go/internal/service/organization"
	performanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/performance"
	scheduleService "github.com/cmlabs-hris/workforce-backend-go/internal/service/schedule"
	taskService "github.com/cmlabs-hris/workforce-backend-go/internal/service/task"
	windowService "github.com/cmlabs-hris/workforce-backend-go/internal/service/window"
	"github.com/go-chi/httplog/v3"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.App)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	var planCache cache.Cache
	if cfg.Redis.Host != "" {
		rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		planCache = cache.NewRedisCache(rdb, "workforce:")
	} else {
		slog.Info("REDIS_HOST not set, using in-memory plan cache")
		planCache = cache.NewMemoryCache()
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("init local storage: %w", err)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email service: %w", err)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	orgRepo := postgresql.NewOrganizationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	vetRepo := postgresql.NewVETRepository(db)
	vtoRepo := postgresql.NewVTORepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)
	commentRepo := postgresql.NewCommentRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)

	hub := sse.NewHub()
	notifier := notificationService.NewNotificationService(hub, emailService, orgRepo, notificationService.Config{
		WorkerCount: 4,
		QueueSize:   256,
	})
	defer notifier.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authSvc := authService.NewAuthService(userRepo, JWTService)
	organizationSvc := organizationService.NewOrganizationService(tx, orgRepo, userRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	scheduleSvc := scheduleService.NewScheduleService(tx, scheduleRepo, shiftRepo, assignmentRepo, employeeRepo, planCache)
	taskSvc := taskService.NewTaskService(tx, scheduleRepo, assignmentRepo, employeeRepo, planCache)
	vetSvc := windowService.NewVETService(tx, vetRepo, scheduleRepo, assignmentRepo, employeeRepo, notifier)
	vtoSvc := windowService.NewVTOService(tx, vtoRepo, scheduleRepo, assignmentRepo, employeeRepo, notifier)
	performanceSvc := performanceService.NewPerformanceService(tx, recordRepo, employeeRepo, scheduleRepo, shiftRepo, assignmentRepo, planCache)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)
	commentSvc := commentService.NewCommentService(commentRepo, scheduleRepo, userRepo)
	documentSvc := documentService.NewDocumentService(documentRepo, fileStorage)

	router, err := appHTTP.NewRouter(cfg, logger, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Organization: appHTTP.NewOrganizationHandler(organizationSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Schedule:     appHTTP.NewScheduleHandler(scheduleSvc),
		Task:         appHTTP.NewTaskHandler(taskSvc),
		Window:       appHTTP.NewWindowHandler(vetSvc, vtoSvc),
		Performance:  appHTTP.NewPerformanceHandler(performanceSvc),
		Dashboard:    appHTTP.NewDashboardHandler(dashboardSvc),
		Comment:      appHTTP.NewCommentHandler(commentSvc),
		Document:     appHTTP.NewDocumentHandler(documentSvc),
		Event:        appHTTP.NewEventHandler(JWTService, hub),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewWindowJobs(windowService.NewCloser(vetRepo, vtoRepo, assignmentRepo, employeeRepo, notifier)).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(app config.AppConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(app.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workforce-scheduler"),
		slog.String("env", app.Env),
	)
}
