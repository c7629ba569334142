package handlers

import (
	"log/slog"
	"net/http"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

// AdminHandler serves /api/admin. Role checks happen in middleware.RequireRole.
type AdminHandler struct {
	courses   service.CourseService
	progress  service.ProgressService
	profiles  service.ProfileService
	analytics service.AnalyticsService
	settings  service.SettingsService
	logger    *slog.Logger
}

func NewAdminHandler(
	courses service.CourseService,
	progress service.ProgressService,
	profiles service.ProfileService,
	analytics service.AnalyticsService,
	settings service.SettingsService,
	logger *slog.Logger,
) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		courses:   courses,
		progress:  progress,
		profiles:  profiles,
		analytics: analytics,
		settings:  settings,
		logger:    logger,
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminDashboard"))

	stats, err := h.analytics.Dashboard(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminAnalytics"))

	report, err := h.analytics.Analytics(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, report, logger)
}

// --- courses ---

func (h *AdminHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AdminListCourses"))

	courses, err := h.courses.ListCourses(r.Context(), model.CourseFilter{ContentType: r.URL.Query().Get("type")})
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses, logger)
}

func (h *AdminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateCourse"))

	var req model.CreateCourseRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	course, err := h.courses.CreateCourse(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, course, logger)
}

func (h *AdminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateCourse"))

	courseID, ok := uuidParam(w, r, logger, "course_id")
	if !ok {
		return
	}
	var req model.UpdateCourseRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	course, err := h.courses.UpdateCourse(r.Context(), courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, course, logger)
}

func (h *AdminHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteCourse"))

	courseID, ok := uuidParam(w, r, logger, "course_id")
	if !ok {
		return
	}
	if err := h.courses.DeleteCourse(r.Context(), courseID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) AddModule(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AddModule"))

	courseID, ok := uuidParam(w, r, logger, "course_id")
	if !ok {
		return
	}
	var req model.CreateModuleRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	module, err := h.courses.AddModule(r.Context(), courseID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, module, logger)
}

func (h *AdminHandler) AddLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "AddLesson"))

	moduleID, ok := uuidParam(w, r, logger, "module_id")
	if !ok {
		return
	}
	var req model.CreateLessonRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	lesson, err := h.courses.AddLesson(r.Context(), moduleID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, lesson, logger)
}

func (h *AdminHandler) RecalculateCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RecalculateCourse"))

	courseID, ok := uuidParam(w, r, logger, "course_id")
	if !ok {
		return
	}
	updated, err := h.progress.RecalculateCourse(r.Context(), courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, map[string]int{"updated": updated}, logger)
}

// --- users ---

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListUsers"))

	filter := model.UserFilter{
		Query: r.URL.Query().Get("q"),
		Role:  r.URL.Query().Get("role"),
	}
	users, err := h.profiles.ListUsersWithStats(r.Context(), filter)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, users, logger)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateUser"))

	actor, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, logger, "user_id")
	if !ok {
		return
	}
	var req model.UpdateUserRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	profile, err := h.profiles.UpdateUser(r.Context(), actor.ID, userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

func (h *AdminHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ChangeRole"))

	actor, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, logger, "user_id")
	if !ok {
		return
	}
	var req model.ChangeRoleRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	profile, err := h.profiles.ChangeRole(r.Context(), actor.ID, userID, req.Role)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeleteUser"))

	actor, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	userID, ok := uuidParam(w, r, logger, "user_id")
	if !ok {
		return
	}
	if err := h.profiles.DeleteUser(r.Context(), actor.ID, userID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- settings ---

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetSettings"))

	settings, err := h.settings.Get(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, settings, logger)
}

func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpdateSettings"))

	var req model.UpdateSettingsRequest
	if !decodeAndValidate(w, r, logger, &req) {
		return
	}
	settings, err := h.settings.Update(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, settings, logger)
}
