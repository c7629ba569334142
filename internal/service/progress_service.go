//go:generate mockery --name ProgressService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/progress"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type ProgressService interface {
	// ToggleLesson flips the learner's completion of a lesson and refreshes the
	// cached enrollment progress in the same transaction.
	ToggleLesson(ctx context.Context, userID, lessonID uuid.UUID) (*model.ToggleLessonResult, error)
	GetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseProgressView, error)
	GetLearnerDashboard(ctx context.Context, userID uuid.UUID) (*model.LearnerDashboard, error)
	// RecalculateCourse recomputes every enrollment of the course and returns how many changed.
	RecalculateCourse(ctx context.Context, courseID uuid.UUID) (int, error)
}

type progressService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	lpRepo         repository.LessonProgressRepository
	notifier       Notifier
	now            func() time.Time
}

func NewProgressService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	lpRepo repository.LessonProgressRepository,
	notifier Notifier,
) ProgressService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &progressService{
		db:             db,
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		lpRepo:         lpRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func internalError(message string, err error) *model.AppError {
	return model.NewAppError(model.CodeInternal, message, "", errors.Join(model.ErrInternalServer, err))
}

func lessonIDs(modules []model.CourseModule) []uuid.UUID {
	var ids []uuid.UUID
	for _, m := range modules {
		for _, l := range m.Lessons {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

func (s *progressService) ToggleLesson(ctx context.Context, userID, lessonID uuid.UUID) (*model.ToggleLessonResult, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "lesson_id", lessonID.String())
	now := s.now().UTC()

	var result *model.ToggleLessonResult
	var courseID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, err := s.lessonRepo.FindByID(ctx, tx, lessonID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Info("Toggle on unknown lesson")
				return model.NewAppError(model.CodeLessonNotFound, "Lesson not found.", "lesson_id", model.ErrNotFound)
			}
			return internalError("Failed to load the lesson.", err)
		}
		courseID = lesson.Module.CourseID

		enrollment, err := s.enrollmentRepo.Find(ctx, tx, userID, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Toggle rejected: learner not enrolled", "course_id", courseID.String())
				return model.NewAppError(model.CodeNotEnrolled, "You must be enrolled in this course to track progress.", "", model.ErrForbidden)
			}
			return internalError("Failed to load the enrollment.", err)
		}

		existing, err := s.lpRepo.Find(ctx, tx, userID, lessonID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return internalError("Failed to load lesson progress.", err)
		}

		next := progress.ToggleCompletion(existing, userID, lessonID, now)
		stored, err := s.lpRepo.Upsert(ctx, tx, next)
		if err != nil {
			return internalError("Failed to save lesson progress.", err)
		}

		course, err := s.courseRepo.FindWithTree(ctx, tx, courseID)
		if err != nil {
			return internalError("Failed to load the course.", err)
		}
		records, err := s.lpRepo.ListByUserAndLessons(ctx, tx, userID, lessonIDs(course.Modules))
		if err != nil {
			return internalError("Failed to load lesson progress.", err)
		}
		byLesson := progress.IndexByLesson(records)

		modulePct := 0
		for _, m := range course.Modules {
			if m.ID == lesson.ModuleID {
				modulePct = progress.ModuleProgress(m.Lessons, byLesson)
				break
			}
		}
		coursePct := progress.CourseProgress(course.Modules, byLesson)

		progress.ApplyCourseProgress(enrollment, coursePct, now)
		enrollment.LastAccessed = now
		if err := s.enrollmentRepo.UpdateProgress(ctx, tx, enrollment); err != nil {
			return internalError("Failed to update enrollment progress.", err)
		}

		result = &model.ToggleLessonResult{
			LessonProgress: stored,
			ModuleProgress: modulePct,
			CourseProgress: coursePct,
			Enrollment:     enrollment,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Lesson completion toggled",
		"completed", result.LessonProgress.Completed,
		"course_progress", result.CourseProgress,
	)

	// best-effort: the toggle is already committed
	event := model.ProgressChangedEvent{
		UserID:         userID,
		CourseID:       courseID,
		LessonID:       lessonID,
		Completed:      result.LessonProgress.Completed,
		CourseProgress: result.CourseProgress,
		OccurredAt:     now,
	}
	if err := s.notifier.PublishProgressChanged(ctx, event); err != nil {
		logger.Warn("Ignoring progress event publish failure", "error", err)
	}

	return result, nil
}

func (s *progressService) GetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*model.CourseProgressView, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String(), "course_id", courseID.String())

	course, err := s.courseRepo.FindWithTree(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError(model.CodeCourseNotFound, "Course not found.", "course_id", model.ErrNotFound)
		}
		logger.Error("Failed to load course tree", "error", err)
		return nil, internalError("Failed to load the course.", err)
	}

	view := &model.CourseProgressView{Course: course, Progress: model.ProgressMap{}}

	enrollment, err := s.enrollmentRepo.Find(ctx, s.db, userID, courseID)
	switch {
	case err == nil:
		view.Enrollment = enrollment
	case errors.Is(err, model.ErrNotFound):
		// not enrolled: no lesson progress to show
	default:
		logger.Error("Failed to load enrollment", "error", err)
		return nil, internalError("Failed to load the enrollment.", err)
	}

	if view.Enrollment != nil {
		records, err := s.lpRepo.ListByUserAndLessons(ctx, s.db, userID, lessonIDs(course.Modules))
		if err != nil {
			logger.Error("Failed to load lesson progress", "error", err)
			return nil, internalError("Failed to load lesson progress.", err)
		}
		view.Progress = progress.IndexByLesson(records)
	}

	view.Summary = progress.CourseBreakdown(course.Modules, view.Progress)
	return view, nil
}

func (s *progressService) GetLearnerDashboard(ctx context.Context, userID uuid.UUID) (*model.LearnerDashboard, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list enrollments", "error", err, "user_id", userID.String())
		return nil, internalError("Failed to load enrollments.", err)
	}
	if enrollments == nil {
		enrollments = []*model.Enrollment{}
	}
	available, err := s.courseRepo.List(ctx, s.db, model.CourseFilter{NotEnrolledBy: userID})
	if err != nil {
		middleware.GetLogger(ctx).Error("Failed to list available courses", "error", err, "user_id", userID.String())
		return nil, internalError("Failed to load available courses.", err)
	}
	if available == nil {
		available = []*model.Course{}
	}
	return &model.LearnerDashboard{
		Stats:            progress.LearnerStats(enrollments),
		Enrollments:      enrollments,
		AvailableCourses: available,
	}, nil
}

func (s *progressService) RecalculateCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	logger := middleware.GetLogger(ctx).With("course_id", courseID.String())
	now := s.now().UTC()
	updated := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course, err := s.courseRepo.FindWithTree(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError(model.CodeCourseNotFound, "Course not found.", "course_id", model.ErrNotFound)
			}
			return internalError("Failed to load the course.", err)
		}

		ids := lessonIDs(course.Modules)
		completedByUser, err := s.lpRepo.CountCompletedByUser(ctx, tx, ids)
		if err != nil {
			return internalError("Failed to count completed lessons.", err)
		}

		enrollments, err := s.enrollmentRepo.ListByCourse(ctx, tx, courseID)
		if err != nil {
			return internalError("Failed to list enrollments.", err)
		}

		for _, e := range enrollments {
			pct := progress.Percentage(completedByUser[e.UserID], len(ids))
			if !progress.ApplyCourseProgress(e, pct, now) {
				continue
			}
			if err := s.enrollmentRepo.UpdateProgress(ctx, tx, e); err != nil {
				return internalError("Failed to update enrollment progress.", err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info("Course progress recalculated", "updated", updated)
	return updated, nil
}
