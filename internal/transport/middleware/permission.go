package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rupeedesk/cbs-admin/internal/auth"
	"github.com/rupeedesk/cbs-admin/internal/permission"
)

// RequirePermission gates a route on the actor's role granting action on
// module. Grants are resolved from the role, so the check is pure.
func RequirePermission(module string, action permission.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !permission.Allows(u.Role, module, action) {
				slog.Warn("access denied: insufficient permissions",
					"user_id", u.ID,
					"role", u.Role,
					"module", module,
					"action", action)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles gates a route on the actor holding one of the given roles.
func RequireRoles(roles ...permission.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.UserFromContext(r.Context())
			if !ok || u == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Warn("access denied: role not permitted",
				"user_id", u.ID,
				"role", u.Role)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}
