package handlers

import (
	"log/slog"
	"net/http"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{service: s, logger: logger}
}

// Register creates an account with a local password login.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Register"))

	var req model.RegisterRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	profile, err := h.service.Register(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Registration successful", slog.String("profile_id", profile.ID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, profile, logger)
}

// Login authenticates the user and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Login"))

	var req model.LoginRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	loginResponse, err := h.service.Login(r.Context(), &req)
	if err != nil {
		// already logged by the service
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, loginResponse, logger)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ChangePassword"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), user.ID, &req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Password updated."}, logger)
}
