package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func protected(svc jwt.Service, mws ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = ok
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(h))
}

func call(t *testing.T, h http.Handler, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func token(t *testing.T, svc jwt.Service, org *string, role string) string {
	t.Helper()
	tok, _, err := svc.GenerateAccessToken("user-1", "u@x.test", org, role)
	require.NoError(t, err)
	return tok
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	h := protected(svc)

	assert.Equal(t, http.StatusUnauthorized, call(t, h, ""))
	assert.Equal(t, http.StatusUnauthorized, call(t, h, "garbage"))
	assert.Equal(t, http.StatusNoContent, call(t, h, token(t, svc, nil, "MEMBER")))
}

func TestRequireOrganization(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	h := protected(svc, RequireOrganization)
	org := "org-1"

	assert.Equal(t, http.StatusForbidden, call(t, h, token(t, svc, nil, "MEMBER")))
	assert.Equal(t, http.StatusNoContent, call(t, h, token(t, svc, &org, "MEMBER")))
}

func TestRoles(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	org := "org-1"
	manager := protected(svc, RequireManager)
	owner := protected(svc, RequireOwner)

	assert.Equal(t, http.StatusForbidden, call(t, manager, token(t, svc, &org, "MEMBER")))
	assert.Equal(t, http.StatusNoContent, call(t, manager, token(t, svc, &org, "MANAGER")))
	assert.Equal(t, http.StatusNoContent, call(t, manager, token(t, svc, &org, "OWNER")))

	assert.Equal(t, http.StatusForbidden, call(t, owner, token(t, svc, &org, "MANAGER")))
	assert.Equal(t, http.StatusNoContent, call(t, owner, token(t, svc, &org, "OWNER")))
}

func TestRateLimit(t *testing.T) {
	mw, err := RateLimit("2-M")
	require.NoError(t, err)
	h := mw(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	_, err = RateLimit("ten per minute")
	assert.Error(t, err)
}
