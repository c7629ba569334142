package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

// DevAuthMiddleware trusts X-User-ID / X-User-Role headers. Only mounted when auth.enabled is false.
func DevAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			logger.Warn("[DEV AUTH] Failed: X-User-ID header missing")
			unauthenticated(w, r, "[DEV] Missing X-User-ID header")
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Failed: Invalid X-User-ID format", "x_user_id", userIDStr)
			unauthenticated(w, r, "[DEV] Invalid X-User-ID format")
			return
		}

		role := r.Header.Get("X-User-Role")
		if role != model.RoleAdmin {
			role = model.RoleMember
		}

		logger.Debug("[DEV AUTH] User set to context (no validation)", "user_id", userID.String(), "role", role)
		ctx := WithCurrentUser(r.Context(), model.CurrentUser{ID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
