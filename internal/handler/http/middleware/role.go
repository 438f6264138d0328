package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
)

// requireRole rejects requests whose token role fails allowed with denied.
func requireRole(allowed func(auth.Role) bool, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !allowed(auth.Role(claims.Role)) {
				response.HandleError(w, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

var (
	RequireOwner = requireRole(func(r auth.Role) bool { return r == auth.RoleOwner }, auth.ErrOwnerRequired)

	// RequireManager admits owners and managers.
	RequireManager = requireRole(auth.Role.CanManage, auth.ErrManagerRequired)
)
