//go:generate mockery --name CourseService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type CourseService interface {
	ListCourses(ctx context.Context, filter model.CourseFilter) ([]*model.Course, error)
	GetCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error)
	CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, courseID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error)
	// DeleteCourse removes the course with its modules, lessons, lesson progress and enrollments.
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
	AddModule(ctx context.Context, courseID uuid.UUID, req *model.CreateModuleRequest) (*model.CourseModule, error)
	AddLesson(ctx context.Context, moduleID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error)
}

type courseService struct {
	db             *gorm.DB
	courseRepo     repository.CourseRepository
	moduleRepo     repository.ModuleRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	lpRepo         repository.LessonProgressRepository
	progress       ProgressService
}

func NewCourseService(
	db *gorm.DB,
	courseRepo repository.CourseRepository,
	moduleRepo repository.ModuleRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	lpRepo repository.LessonProgressRepository,
	progress ProgressService,
) CourseService {
	return &courseService{
		db:             db,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		lpRepo:         lpRepo,
		progress:       progress,
	}
}

func courseNotFound() *model.AppError {
	return model.NewAppError(model.CodeCourseNotFound, "Course not found.", "course_id", model.ErrNotFound)
}

func (s *courseService) ListCourses(ctx context.Context, filter model.CourseFilter) ([]*model.Course, error) {
	switch filter.ContentType {
	case "", model.CourseContentVideo, model.CourseContentPDF:
	default:
		return nil, model.NewAppError(model.CodeValidation, "type must be one of [video pdf].", "type", model.ErrInvalidInput)
	}
	courses, err := s.courseRepo.List(ctx, s.db, filter)
	if err != nil {
		return nil, internalError("Failed to list courses.", err)
	}
	if courses == nil {
		courses = []*model.Course{}
	}
	return courses, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.FindWithTree(ctx, s.db, courseID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, courseNotFound()
		}
		return nil, internalError("Failed to load the course.", err)
	}
	return course, nil
}

func (s *courseService) CreateCourse(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	course := &model.Course{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		ContentType:  req.ContentType,
		ContentURL:   req.ContentURL,
	}
	if err := s.courseRepo.Create(ctx, s.db, course); err != nil {
		return nil, internalError("Failed to create the course.", err)
	}
	logger.Info("Course created", "course_id", course.ID.String(), "title", course.Title)
	return course, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, courseID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ThumbnailURL != nil {
		updates["thumbnail_url"] = *req.ThumbnailURL
	}
	if req.ContentType != nil {
		updates["content_type"] = *req.ContentType
	}
	if req.ContentURL != nil {
		updates["content_url"] = *req.ContentURL
	}

	var course *model.Course
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := s.courseRepo.Update(ctx, tx, courseID, updates); err != nil {
				if errors.Is(err, model.ErrNotFound) {
					return courseNotFound()
				}
				return internalError("Failed to update the course.", err)
			}
		}
		c, err := s.courseRepo.FindByID(ctx, tx, courseID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return courseNotFound()
			}
			return internalError("Failed to load the course.", err)
		}
		course = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("Course updated", "course_id", courseID.String(), "fields", len(updates))
	return course, nil
}

func (s *courseService) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("course_id", courseID.String())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.FindByID(ctx, tx, courseID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return courseNotFound()
			}
			return internalError("Failed to load the course.", err)
		}

		moduleIDs, err := s.moduleRepo.ListIDsByCourse(ctx, tx, courseID)
		if err != nil {
			return internalError("Failed to list modules.", err)
		}
		lessonIDs, err := s.lessonRepo.ListIDsByModules(ctx, tx, moduleIDs)
		if err != nil {
			return internalError("Failed to list lessons.", err)
		}

		// children first so foreign keys hold at every step
		if err := s.lpRepo.DeleteByLessons(ctx, tx, lessonIDs); err != nil {
			return internalError("Failed to delete lesson progress.", err)
		}
		if err := s.enrollmentRepo.DeleteByCourse(ctx, tx, courseID); err != nil {
			return internalError("Failed to delete enrollments.", err)
		}
		if err := s.lessonRepo.DeleteByModules(ctx, tx, moduleIDs); err != nil {
			return internalError("Failed to delete lessons.", err)
		}
		if err := s.moduleRepo.DeleteByCourse(ctx, tx, courseID); err != nil {
			return internalError("Failed to delete modules.", err)
		}
		if err := s.courseRepo.Delete(ctx, tx, courseID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return courseNotFound()
			}
			return internalError("Failed to delete the course.", err)
		}
		logger.Info("Course deleted", "modules", len(moduleIDs), "lessons", len(lessonIDs))
		return nil
	})
	return err
}

func (s *courseService) AddModule(ctx context.Context, courseID uuid.UUID, req *model.CreateModuleRequest) (*model.CourseModule, error) {
	module := &model.CourseModule{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.courseRepo.FindByID(ctx, tx, courseID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return courseNotFound()
			}
			return internalError("Failed to load the course.", err)
		}
		if err := s.moduleRepo.Create(ctx, tx, module); err != nil {
			return internalError("Failed to create the module.", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("Module added", "course_id", courseID.String(), "module_id", module.ID.String())
	return module, nil
}

func (s *courseService) AddLesson(ctx context.Context, moduleID uuid.UUID, req *model.CreateLessonRequest) (*model.Lesson, error) {
	logger := middleware.GetLogger(ctx)
	lesson := &model.Lesson{
		ID:          uuid.New(),
		ModuleID:    moduleID,
		Title:       req.Title,
		Description: req.Description,
		ContentType: req.ContentType,
		ContentURL:  req.ContentURL,
		ContentText: req.ContentText,
		Duration:    req.Duration,
		Position:    req.Position,
		IsFree:      req.IsFree,
	}

	var courseID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		module, err := s.moduleRepo.FindByID(ctx, tx, moduleID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError(model.CodeNotFound, "Module not found.", "module_id", model.ErrNotFound)
			}
			return internalError("Failed to load the module.", err)
		}
		courseID = module.CourseID
		if err := s.lessonRepo.Create(ctx, tx, lesson); err != nil {
			return internalError("Failed to create the lesson.", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// every enrolled learner's percentage changes with the lesson count
	if _, err := s.progress.RecalculateCourse(ctx, courseID); err != nil {
		logger.Warn("Ignoring recalculation failure after lesson insert", "error", err, "course_id", courseID.String())
	}

	logger.Info("Lesson added", "module_id", moduleID.String(), "lesson_id", lesson.ID.String())
	return lesson, nil
}
