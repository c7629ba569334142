package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

// CourseHandler serves the learner-facing catalog, course page and lesson toggles.
type CourseHandler struct {
	courses  service.CourseService
	progress service.ProgressService
	logger   *slog.Logger
}

func NewCourseHandler(courses service.CourseService, progress service.ProgressService, logger *slog.Logger) *CourseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CourseHandler{courses: courses, progress: progress, logger: logger}
}

// ListCourses serves the catalog. ?type= narrows by content type and
// ?available=true hides the courses the caller is already enrolled in.
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListCourses"))

	filter := model.CourseFilter{ContentType: r.URL.Query().Get("type")}
	if raw := r.URL.Query().Get("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn("Invalid query parameter", slog.String("param", "available"), slog.String("value", raw))
			webutil.HandleError(w, logger, webutil.InvalidParam("available"))
			return
		}
		if available {
			user, ok := currentUser(w, r, logger)
			if !ok {
				return
			}
			filter.NotEnrolledBy = user.ID
		}
	}

	courses, err := h.courses.ListCourses(r.Context(), filter)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses, logger)
}

// GetCourse returns the course tree with the caller's enrollment and lesson progress.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetCourse"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	courseID, ok := uuidParam(w, r, logger, "course_id")
	if !ok {
		return
	}

	view, err := h.progress.GetCourseProgress(r.Context(), user.ID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, view, logger)
}

func (h *CourseHandler) ToggleLesson(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ToggleLesson"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	lessonID, ok := uuidParam(w, r, logger, "lesson_id")
	if !ok {
		return
	}

	result, err := h.progress.ToggleLesson(r.Context(), user.ID, lessonID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, result, logger)
}
