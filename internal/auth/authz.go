package auth

import (
	"log/slog"
	"net/http"
)

// RBACAuthorization gates route groups on role permissions. It assumes the
// auth middleware has already placed the user into context.
type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	if logger == nil {
		logger = slog.Default()
	}
	return &RBACAuthorization{logger: logger}
}

// Require returns middleware that rejects requests whose user lacks the
// given permission. Admin implies everything.
func (ra *RBACAuthorization) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.HasPermission(permission) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"required_permission", permission,
					"user_permissions", user.Permissions)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireManageCommittees() func(http.Handler) http.Handler {
	return ra.Require(PermManageCommittees)
}

func (ra *RBACAuthorization) RequireViewCommittees() func(http.Handler) http.Handler {
	return ra.Require(PermViewCommittees)
}

func (ra *RBACAuthorization) RequireManageUsers() func(http.Handler) http.Handler {
	return ra.Require(PermManageUsers)
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.Require(PermAdmin)
}
