//go:generate mockery --name EnrollmentService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error)
}

type enrollmentService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	profileRepo    repository.ProfileRepository
	mailer         Mailer
	cfg            *config.Config
	now            func() time.Time
}

func NewEnrollmentService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	profileRepo repository.ProfileRepository,
	mailer Mailer,
	cfg *config.Config,
) EnrollmentService {
	return &enrollmentService{
		db:             db,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		profileRepo:    profileRepo,
		mailer:         mailer,
		cfg:            cfg,
		now:            time.Now,
	}
}

func alreadyEnrolled() *model.AppError {
	return model.NewAppError(model.CodeAlreadyEnrolled, "You are already enrolled in this course.", "courseId", model.ErrInvalidInput)
}

func (s *enrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "course_id", courseID.String())
	now := s.now().UTC()

	var enrollment *model.Enrollment
	var course *model.Course

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.profileRepo.FindByID(ctx, tx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Enroll rejected: profile no longer exists")
				return model.NewAppError(model.CodeUnauthenticated, "Your account no longer exists.", "", model.ErrUnauthenticated)
			}
			return internalError("Failed to load the profile.", err)
		}

		var err error
		course, err = s.courseRepo.FindByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Enroll rejected: course does not exist")
				return model.NewAppError(model.CodeCourseNotFound, "Course not found.", "courseId", model.ErrInvalidInput)
			}
			return internalError("Failed to load the course.", err)
		}

		_, err = s.enrollmentRepo.Find(ctx, tx, userID, courseID)
		if err == nil {
			logger.Info("Enroll rejected: already enrolled")
			return alreadyEnrolled()
		}
		if !errors.Is(err, model.ErrNotFound) {
			return internalError("Failed to check enrollment.", err)
		}

		e := &model.Enrollment{
			ID:           uuid.New(),
			UserID:       userID,
			CourseID:     courseID,
			Progress:     0,
			Completed:    false,
			EnrolledAt:   now,
			LastAccessed: now,
		}
		if err := s.enrollmentRepo.Create(ctx, tx, e); err != nil {
			if errors.Is(err, model.ErrConflict) {
				// concurrent enroll won the unique index
				logger.Warn("Conflict during enrollment creation (race condition)")
				return alreadyEnrolled()
			}
			return internalError("Failed to create the enrollment.", err)
		}
		enrollment = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Learner enrolled", "enrollment_id", enrollment.ID.String())
	s.sendEnrollmentEmail(ctx, userID, course)
	return enrollment, nil
}

// sendEnrollmentEmail never fails the enrollment; errors are logged and dropped.
func (s *enrollmentService) sendEnrollmentEmail(ctx context.Context, userID uuid.UUID, course *model.Course) {
	logger := middleware.GetLogger(ctx)
	if s.mailer == nil {
		return
	}

	profile, err := s.profileRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		logger.Warn("Skipping enrollment email: profile lookup failed", "error", err, "user_id", userID.String())
		return
	}

	subject, body := enrollmentEmail(s.cfg.App.Name, s.cfg.App.FrontendURL, profile.FullName, course.Title, course.ID.String())
	if err := s.mailer.Send(ctx, profile.Email, subject, body); err != nil {
		logger.Warn("Ignoring enrollment email failure", "error", err, "to", profile.Email)
	}
}
