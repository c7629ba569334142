package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

func unauthenticated(w http.ResponseWriter, r *http.Request, message string) {
	appErr := model.NewAppError(model.CodeUnauthenticated, message, "", model.ErrUnauthenticated)
	webutil.HandleError(w, GetLogger(r.Context()), appErr)
}

// JWTAuthMiddleware validates the Bearer token and stores the CurrentUser in the context.
func JWTAuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	secret := []byte(cfg.JWT.SecretKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				unauthenticated(w, r, "Authorization header is required.")
				return
			}

			headerParts := strings.SplitN(authHeader, " ", 2)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				unauthenticated(w, r, "Authorization header must be 'Bearer <token>'.")
				return
			}

			claims := &model.JWTCustomClaims{}
			token, err := jwt.ParseWithClaims(headerParts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				unauthenticated(w, r, "Token is invalid or expired.")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", claims.Subject, "error", err)
				unauthenticated(w, r, "Token subject is invalid.")
				return
			}

			role := claims.Role
			if role == "" {
				role = model.RoleMember
			}
			ctx := WithCurrentUser(r.Context(), model.CurrentUser{ID: userID, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role differs from role with 403.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())
			user, err := GetCurrentUser(r.Context())
			if err != nil {
				webutil.HandleError(w, logger, err)
				return
			}
			if user.Role != role {
				logger.Warn("Role check failed", "user_id", user.ID.String(), "role", user.Role, "required", role)
				appErr := model.NewAppError(model.CodeForbidden, "You do not have permission to access this resource.", "", model.ErrForbidden)
				webutil.HandleError(w, logger, appErr)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithCurrentUser(ctx context.Context, user model.CurrentUser) context.Context {
	ctx = context.WithValue(ctx, model.CurrentUserKey, user)
	// enrich the request logger so downstream logs carry the user
	return WithLogger(ctx, GetLogger(ctx).With("user_id", user.ID.String()))
}

// GetCurrentUser returns the authenticated user or an ErrUnauthenticated AppError.
func GetCurrentUser(ctx context.Context) (model.CurrentUser, error) {
	user, ok := ctx.Value(model.CurrentUserKey).(model.CurrentUser)
	if !ok || user.ID == uuid.Nil {
		return model.CurrentUser{}, model.NewAppError(model.CodeUnauthenticated, "Authentication is required.", "", model.ErrUnauthenticated)
	}
	return user, nil
}
