//go:generate mockery --name ModuleRepository --output ./mocks --outpkg mocks --case=underscore
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

type ModuleRepository interface {
	Create(ctx context.Context, db *gorm.DB, module *model.CourseModule) error
	FindByID(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.CourseModule, error)
	ListIDsByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
	DeleteByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error
}

type gormModuleRepository struct{}

func NewGormModuleRepository() ModuleRepository {
	return &gormModuleRepository{}
}

func (r *gormModuleRepository) Create(ctx context.Context, db *gorm.DB, module *model.CourseModule) error {
	result := db.WithContext(ctx).Omit("Lessons").Create(module)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating module in DB",
			"error", result.Error,
			"course_id", module.CourseID.String(),
		)
		return fmt.Errorf("gormModuleRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormModuleRepository) FindByID(ctx context.Context, db *gorm.DB, moduleID uuid.UUID) (*model.CourseModule, error) {
	var module model.CourseModule
	result := db.WithContext(ctx).Where("id = ?", moduleID).First(&module)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding module by ID in DB", "error", result.Error, "module_id", moduleID.String())
		return nil, fmt.Errorf("gormModuleRepository.FindByID: %w", result.Error)
	}
	return &module, nil
}

func (r *gormModuleRepository) ListIDsByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := db.WithContext(ctx).Model(&model.CourseModule{}).Where("course_id = ?", courseID).Pluck("id", &ids)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing module ids in DB", "error", result.Error, "course_id", courseID.String())
		return nil, fmt.Errorf("gormModuleRepository.ListIDsByCourse: %w", result.Error)
	}
	return ids, nil
}

func (r *gormModuleRepository) DeleteByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error {
	result := db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.CourseModule{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting modules in DB", "error", result.Error, "course_id", courseID.String())
		return fmt.Errorf("gormModuleRepository.DeleteByCourse: %w", result.Error)
	}
	return nil
}
