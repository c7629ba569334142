package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
	"github.com/haradejene/yegara-web-lms/internal/webutil"
)

type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  *slog.Logger
}

func NewEnrollmentHandler(s service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrollmentHandler{service: s, logger: logger}
}

// Enroll handles POST /api/enroll. The body is {"courseId": "..."} as JSON, or a
// form with a courseId field.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Enroll"))

	user, ok := currentUser(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", user.ID.String()))

	var req model.EnrollRequest
	if webutil.IsFormRequest(r) {
		courseID, err := webutil.FormValue(r, "courseId")
		if err != nil {
			logger.Warn("Failed to parse enroll form", slog.String("error", err.Error()))
			webutil.HandleError(w, logger, webutil.InvalidBody())
			return
		}
		req.CourseID = strings.TrimSpace(courseID)
		if err := webutil.ValidateStruct(&req); err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
	} else if !decodeAndValidate(w, r, logger, &req) {
		return
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		webutil.HandleError(w, logger, webutil.InvalidParam("courseId"))
		return
	}

	enrollment, err := h.service.Enroll(r.Context(), user.ID, courseID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.EnrollResponse{Success: true, Enrollment: enrollment}, logger)
}
