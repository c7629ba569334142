package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

// currentUser writes a 401 and returns false when the request is not authenticated.
func currentUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (model.CurrentUser, bool) {
	user, err := middleware.GetCurrentUser(r.Context())
	if err != nil {
		logger.Warn("Unauthenticated access attempt", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return model.CurrentUser{}, false
	}
	return user, true
}

// uuidParam parses the chi URL parameter name, writing a 400 on failure.
func uuidParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid URL parameter", slog.String("param", name), slog.String("value", raw))
		webutil.HandleError(w, logger, webutil.InvalidParam(name))
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes a JSON body into dst and validates it, writing the error response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst interface{}) bool {
	if err := webutil.DecodeJSONBody(r, dst); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, webutil.InvalidBody())
		return false
	}
	if err := webutil.ValidateStruct(dst); err != nil {
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return false
	}
	return true
}
