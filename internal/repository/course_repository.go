//go:generate mockery --name CourseRepository --output ./mocks --outpkg mocks --case=underscore
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

type CourseRepository interface {
	Create(ctx context.Context, db *gorm.DB, course *model.Course) error
	FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	// FindWithTree loads modules and lessons, both ordered by position.
	FindWithTree(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error)
	List(ctx context.Context, db *gorm.DB, filter model.CourseFilter) ([]*model.Course, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.Course, error)
	ListIDs(ctx context.Context, db *gorm.DB) ([]uuid.UUID, error)
	Update(ctx context.Context, db *gorm.DB, courseID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountByContentType(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}

type gormCourseRepository struct{}

func NewGormCourseRepository() CourseRepository {
	return &gormCourseRepository{}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC")
}

func (r *gormCourseRepository) Create(ctx context.Context, db *gorm.DB, course *model.Course) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Omit("Modules").Create(course)
	if result.Error != nil {
		logger.Error("Error creating course in DB", "error", result.Error, "title", course.Title)
		return fmt.Errorf("gormCourseRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormCourseRepository) FindByID(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var course model.Course
	result := db.WithContext(ctx).Where("id = ?", courseID).First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding course by ID in DB", "error", result.Error, "course_id", courseID.String())
		return nil, fmt.Errorf("gormCourseRepository.FindByID: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) FindWithTree(ctx context.Context, db *gorm.DB, courseID uuid.UUID) (*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var course model.Course
	result := db.WithContext(ctx).
		Preload("Modules", orderByPosition).
		Preload("Modules.Lessons", orderByPosition).
		Where("id = ?", courseID).
		First(&course)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error loading course tree in DB", "error", result.Error, "course_id", courseID.String())
		return nil, fmt.Errorf("gormCourseRepository.FindWithTree: %w", result.Error)
	}
	return &course, nil
}

func (r *gormCourseRepository) List(ctx context.Context, db *gorm.DB, filter model.CourseFilter) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var courses []*model.Course
	query := db.WithContext(ctx).Order("created_at DESC")
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.NotEnrolledBy != uuid.Nil {
		enrolled := db.WithContext(ctx).Model(&model.Enrollment{}).Select("course_id").Where("user_id = ?", filter.NotEnrolledBy)
		query = query.Where("id NOT IN (?)", enrolled)
	}
	result := query.Find(&courses)
	if result.Error != nil {
		logger.Error("Error listing courses in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCourseRepository.List: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*model.Course, error) {
	logger := middleware.GetLogger(ctx)
	var courses []*model.Course
	result := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&courses)
	if result.Error != nil {
		logger.Error("Error listing recent courses in DB", "error", result.Error, "limit", limit)
		return nil, fmt.Errorf("gormCourseRepository.ListRecent: %w", result.Error)
	}
	return courses, nil
}

func (r *gormCourseRepository) ListIDs(ctx context.Context, db *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	result := db.WithContext(ctx).Model(&model.Course{}).Pluck("id", &ids)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing course ids in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCourseRepository.ListIDs: %w", result.Error)
	}
	return ids, nil
}

func (r *gormCourseRepository) Update(ctx context.Context, db *gorm.DB, courseID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Model(&model.Course{}).Where("id = ?", courseID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating course in DB", "error", result.Error, "course_id", courseID.String())
		return fmt.Errorf("gormCourseRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) Delete(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Where("id = ?", courseID).Delete(&model.Course{})
	if result.Error != nil {
		logger.Error("Error deleting course in DB", "error", result.Error, "course_id", courseID.String())
		return fmt.Errorf("gormCourseRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormCourseRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.Course{}).Count(&n).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error counting courses in DB", "error", err)
		return 0, fmt.Errorf("gormCourseRepository.Count: %w", err)
	}
	return n, nil
}

func (r *gormCourseRepository) CountByContentType(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		ContentType string
		N           int64
	}
	result := db.WithContext(ctx).Model(&model.Course{}).
		Select("content_type, COUNT(*) AS n").
		Group("content_type").
		Scan(&rows)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error counting courses by type in DB", "error", result.Error)
		return nil, fmt.Errorf("gormCourseRepository.CountByContentType: %w", result.Error)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ContentType] = row.N
	}
	return out, nil
}
