//go:generate mockery --name LessonRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

type LessonRepository interface {
	Create(ctx context.Context, db *gorm.DB, lesson *model.Lesson) error
	// FindByID preloads the owning module so the caller can reach the course.
	FindByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.Lesson, error)
	ListIDsByModules(ctx context.Context, db *gorm.DB, moduleIDs []uuid.UUID) ([]uuid.UUID, error)
	DeleteByModules(ctx context.Context, db *gorm.DB, moduleIDs []uuid.UUID) error
}

type gormLessonRepository struct{}

func NewGormLessonRepository() LessonRepository {
	return &gormLessonRepository{}
}

func (r *gormLessonRepository) Create(ctx context.Context, db *gorm.DB, lesson *model.Lesson) error {
	result := db.WithContext(ctx).Omit("Module").Create(lesson)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating lesson in DB",
			"error", result.Error,
			"module_id", lesson.ModuleID.String(),
		)
		return fmt.Errorf("gormLessonRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormLessonRepository) FindByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.Lesson, error) {
	var lesson model.Lesson
	result := db.WithContext(ctx).Preload("Module").Where("id = ?", lessonID).First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding lesson by ID in DB", "error", result.Error, "lesson_id", lessonID.String())
		return nil, fmt.Errorf("gormLessonRepository.FindByID: %w", result.Error)
	}
	if lesson.Module == nil {
		// orphaned lesson; treat as missing
		return nil, model.ErrNotFound
	}
	return &lesson, nil
}

func (r *gormLessonRepository) ListIDsByModules(ctx context.Context, db *gorm.DB, moduleIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	result := db.WithContext(ctx).Model(&model.Lesson{}).Where("module_id IN ?", moduleIDs).Pluck("id", &ids)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing lesson ids in DB", "error", result.Error)
		return nil, fmt.Errorf("gormLessonRepository.ListIDsByModules: %w", result.Error)
	}
	return ids, nil
}

func (r *gormLessonRepository) DeleteByModules(ctx context.Context, db *gorm.DB, moduleIDs []uuid.UUID) error {
	if len(moduleIDs) == 0 {
		return nil
	}
	result := db.WithContext(ctx).Where("module_id IN ?", moduleIDs).Delete(&model.Lesson{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting lessons in DB", "error", result.Error)
		return fmt.Errorf("gormLessonRepository.DeleteByModules: %w", result.Error)
	}
	return nil
}
