package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

// RequireMaster requires the platform master role
func RequireMaster(next http.Handler) http.Handler {
	return RequireRole(user.ErrMasterPrivilegeRequired, user.RoleMaster)(next)
}

// RequireRole lets the request through when the caller holds one of roles
// and answers with denied otherwise. It must run after AuthRequired.
func RequireRole(denied error, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, denied)
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.HandleError(w, denied)
		})
	}
}
