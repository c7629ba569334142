package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

// ProfileHandler serves /api/me and /api/students.
type ProfileHandler struct {
	profiles      service.ProfileService
	progress      service.ProgressService
	maxAvatarSize int64
	logger        *slog.Logger
}

func NewProfileHandler(profiles service.ProfileService, progress service.ProgressService, maxAvatarSize int64, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxAvatarSize <= 0 {
		maxAvatarSize = config.DefaultMaxAvatarSize
	}
	return &ProfileHandler{profiles: profiles, progress: progress, maxAvatarSize: maxAvatarSize, logger: logger}
}

func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetMe"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	profile, err := h.profiles.GetProfile(r.Context(), user.ID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateMe"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	var req model.UpdateProfileRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), user.ID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

// UploadAvatar accepts a multipart form with the image in the "avatar" field.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UploadAvatar"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}

	// multipart overhead on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxAvatarSize+(64<<10))
	if err := r.ParseMultipartForm(h.maxAvatarSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			webutil.HandleError(w, logger, model.NewAppError(model.CodeValidation, "Avatar image is too large.", "avatar", model.ErrInvalidInput))
			return
		}
		logger.Warn("Failed to parse multipart form", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, webutil.InvalidBody())
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError(model.CodeValidation, "avatar is a required field.", "avatar", model.ErrInvalidInput))
		return
	}
	defer file.Close()

	if header.Size > h.maxAvatarSize {
		webutil.HandleError(w, logger, model.NewAppError(model.CodeValidation, "Avatar image is too large.", "avatar", model.ErrInvalidInput))
		return
	}

	profile, err := h.profiles.UploadAvatar(r.Context(), user.ID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

// GetStats returns the learner dashboard: aggregate stats and enrollments.
func (h *ProfileHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStats"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	dashboard, err := h.progress.GetLearnerDashboard(r.Context(), user.ID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, dashboard, logger)
}

// GetStudent returns a learner's profile, stats and courses. Members may only read their own.
func (h *ProfileHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetStudent"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, logger, "user_id")
	if !ok {
		return
	}
	student, err := h.profiles.GetStudentProfile(r.Context(), user, userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, student, logger)
}
