package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/config"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/workforce-backend-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/workforce-backend-go/internal/service/auth"
	commentService "github.com/cmlabs-hris/workforce-backend-go/internal/service/comment"
	dashboardService "github.com/cmlabs-hris/workforce-backend-go/internal/service/dashboard"
	documentService "github.com/cmlabs-hris/workforce-backend-go/internal/service/document"
	employeeService "github.com/cmlabs-hris/workforce-backend-go/internal/service/employee"
	organizationService "github.com/cmlabs-hris/workforce-backend-go/internal/service/organization"
	performanceService "github.com/cmlabs-hris/workforce-backend-go/internal/service/performance"
	scheduleService "github.com/cmlabs-hris/workforce-backend-go/internal/service/schedule"
	taskService "github.com/cmlabs-hris/workforce-backend-go/internal/service/task"
	windowService "github.com/cmlabs-hris/workforce-backend-go/internal/service/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardNotifier struct{}

func (discardNotifier) Queue(ctx context.Context, e notification.Event) {}
func (discardNotifier) Stop()                                           {}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		App:       config.AppConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{Login: "100-M", VETConfirm: "100-M"},
		Storage:   config.StorageConfig{Type: "local", BasePath: t.TempDir()},
	}

	store := memory.NewStore()
	tx := store.Transactor()
	jwtSvc := jwt.NewJWTService("test-secret", "1h")
	planCache := cache.NewMemoryCache()
	notifier := discardNotifier{}

	files, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	require.NoError(t, err)

	h := Handlers{
		Auth:         NewAuthHandler(authService.NewAuthService(store.Users(), jwtSvc)),
		Organization: NewOrganizationHandler(organizationService.NewOrganizationService(tx, store.Organizations(), store.Users(), jwtSvc)),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(store.Employees())),
		Schedule: NewScheduleHandler(scheduleService.NewScheduleService(
			tx, store.Schedules(), store.Shifts(), store.Assignments(), store.Employees(), planCache)),
		Task: NewTaskHandler(taskService.NewTaskService(
			tx, store.Schedules(), store.Assignments(), store.Employees(), planCache)),
		Window: NewWindowHandler(
			windowService.NewVETService(tx, store.VETs(), store.Schedules(), store.Assignments(), store.Employees(), notifier),
			windowService.NewVTOService(tx, store.VTOs(), store.Schedules(), store.Assignments(), store.Employees(), notifier),
		),
		Performance: NewPerformanceHandler(performanceService.NewPerformanceService(
			tx, store.PerformanceRecords(), store.Employees(), store.Schedules(), store.Shifts(), store.Assignments(), planCache)),
		Dashboard: NewDashboardHandler(dashboardService.NewDashboardService(store.Dashboard())),
		Comment:   NewCommentHandler(commentService.NewCommentService(store.Comments(), store.Schedules(), store.Users())),
		Document:  NewDocumentHandler(documentService.NewDocumentService(store.Documents(), files)),
		Event:     NewEventHandler(jwtSvc, sse.NewHub()),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := NewRouter(cfg, logger, jwtSvc, h)
	require.NoError(t, err)

	return &testServer{t: t, router: router}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *testServer) data(env envelope, dst interface{}) {
	s.t.Helper()
	require.NoError(s.t, json.Unmarshal(env.Data, dst))
}

// owner registers, logs in and creates an organization, returning the org-scoped token.
func (s *testServer) owner(email string) string {
	s.t.Helper()

	code, _ := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": "Owner",
	})
	require.Equal(s.t, http.StatusCreated, code)

	code, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(s.t, http.StatusOK, code)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	s.data(env, &login)

	code, env = s.do(http.MethodPost, "/api/v1/organizations", login.AccessToken, map[string]string{"name": "North Hub"})
	require.Equal(s.t, http.StatusCreated, code)
	var org struct {
		AccessToken string `json:"access_token"`
	}
	s.data(env, &org)
	return org.AccessToken
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/api/v1/schedules", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestRouter_RequiresOrganization(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "solo@x.test", "password": "password123", "name": "Solo",
	})
	_, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "solo@x.test", "password": "password123",
	})
	var login struct {
		AccessToken string `json:"access_token"`
	}
	s.data(env, &login)

	code, _ := s.do(http.MethodGet, "/api/v1/employees", login.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_ValidationIsBadRequest(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "password")
}

func TestRouter_ScheduleAndVETFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.owner("owner@x.test")

	code, env := s.do(http.MethodPost, "/api/v1/employees", token, map[string]interface{}{
		"employee_code": "E1", "name": "Ann", "type": "FLEX", "stower_efficiency": 100,
	})
	require.Equal(t, http.StatusCreated, code)
	var emp struct {
		ID string `json:"id"`
	}
	s.data(env, &emp)

	code, env = s.do(http.MethodPost, "/api/v1/schedules", token, map[string]interface{}{
		"date": "2026-03-02", "total_package_count": 1000,
	})
	require.Equal(t, http.StatusCreated, code)
	var sched struct {
		ID string `json:"id"`
	}
	s.data(env, &sched)

	code, _ = s.do(http.MethodPost, "/api/v1/schedules", token, map[string]interface{}{
		"date": "2026-03-02", "total_package_count": 1000,
	})
	assert.Equal(t, http.StatusConflict, code)

	base := "/api/v1/schedules/" + sched.ID
	code, _ = s.do(http.MethodPost, base+"/vet", token, map[string]int{"target_package_count": 300})
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(http.MethodPost, base+"/vet/confirm", token, map[string]string{"employee_id": emp.ID})
	require.Equal(t, http.StatusOK, code)
	var confirm struct {
		AutoClosed bool `json:"auto_closed"`
		VET        struct {
			TargetPackageCount int    `json:"target_package_count"`
			Status             string `json:"status"`
		} `json:"vet"`
	}
	s.data(env, &confirm)
	assert.False(t, confirm.AutoClosed)
	assert.Equal(t, 200, confirm.VET.TargetPackageCount)
	assert.Equal(t, "OPEN", confirm.VET.Status)

	code, _ = s.do(http.MethodPost, base+"/vet/confirm", token, map[string]string{"employee_id": emp.ID})
	assert.Equal(t, http.StatusConflict, code)

	code, env = s.do(http.MethodGet, base+"/tasks", token, nil)
	require.Equal(t, http.StatusOK, code)
	var tasks []struct {
		EmployeeID string  `json:"employee_id"`
		Task       *string `json:"task"`
	}
	s.data(env, &tasks)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Task)
	assert.Equal(t, "STOWER", *tasks[0].Task)

	code, _ = s.do(http.MethodPatch, base+"/vet", token, map[string]string{"action": "close"})
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPatch, base+"/vet", token, map[string]string{"action": "close"})
	assert.Equal(t, http.StatusConflict, code)
}

func TestRouter_UnknownScheduleIsNotFound(t *testing.T) {
	s := newTestServer(t)
	token := s.owner("owner@x.test")

	code, env := s.do(http.MethodGet, "/api/v1/schedules/does-not-exist/vet", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestEvents_RejectsMissingToken(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func (s *testServer) upload(token, filename, content string) string {
	s.t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(s.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(s.t, err)
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	var doc struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	s.data(env, &doc)
	assert.Equal(s.t, "/api/v1/documents/"+doc.ID+"/download", doc.URL)
	return doc.URL
}

func (s *testServer) raw(method, path, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_DocumentDownloadIsScopedToOrganization(t *testing.T) {
	s := newTestServer(t)
	north := s.owner("north@x.test")
	south := s.owner("south@x.test")

	url := s.upload(north, "roster.csv", "Date,Employee ID\n")

	rec := s.raw(http.MethodGet, url, north)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Date,Employee ID\n", rec.Body.String())
	assert.Equal(t, `attachment; filename=roster.csv`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = s.raw(http.MethodGet, url, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.raw(http.MethodGet, url, south)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Employee ID")
}

func TestRouter_UploadsAreNotServedStatically(t *testing.T) {
	s := newTestServer(t)
	north := s.owner("north@x.test")
	s.upload(north, "roster.csv", "Date,Employee ID\n")

	for _, path := range []string{"/uploads/", "/uploads/documents/", "/documents/"} {
		rec := s.raw(http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.NotContains(t, rec.Body.String(), "roster", path)
	}
}
