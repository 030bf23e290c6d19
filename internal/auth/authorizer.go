package auth

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Authorizer gates routes on the role policy table. It runs after
// AuthMiddleware and therefore always sees a storage-backed actor.
type Authorizer struct {
	logger *slog.Logger
}

func NewAuthorizer(logger *slog.Logger) *Authorizer {
	return &Authorizer{logger: logger}
}

// Require allows the request through when the actor's role is permitted for
// action on resource. Missing actor yields 401; insufficient role yields 403
// with the required role list.
func (a *Authorizer) Require(action Action, resource Resource) func(http.Handler) http.Handler {
	return a.RequireRole(AllowedRoles(action, resource)...)
}

// RequireRole allows the request through only when the actor's role is in the
// given list. Used for routes gated on a role set rather than a policy entry.
func (a *Authorizer) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				a.logger.Warn("authorization check failed: user not found in context")
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			a.logger.Warn("access denied: insufficient role",
				"user_id", user.ID,
				"role", user.Role,
				"required_roles", roles)
			writeAuthError(w, http.StatusForbidden,
				fmt.Sprintf("Access Denied: Required role(s): %s", roleList(roles)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"code":%d,"message":%q}`, status, message)
}
