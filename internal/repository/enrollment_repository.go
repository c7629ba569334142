//go:generate mockery --name EnrollmentRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error
	Find(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Enrollment, error)
	ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]*model.Enrollment, error)
	// ListAll preloads the course of every enrollment.
	ListAll(ctx context.Context, db *gorm.DB) ([]*model.Enrollment, error)
	UpdateProgress(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountCompleted(ctx context.Context, db *gorm.DB) (int64, error)
	CountSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error)
	ListRecentActivity(ctx context.Context, db *gorm.DB, limit int) ([]model.RecentActivity, error)
	DeleteByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
}

type gormEnrollmentRepository struct{}

func NewGormEnrollmentRepository() EnrollmentRepository {
	return &gormEnrollmentRepository{}
}

func (r *gormEnrollmentRepository) Create(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Omit("Course", "User").Create(enrollment)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Duplicate enrollment",
				"error", result.Error,
				"user_id", enrollment.UserID.String(),
				"course_id", enrollment.CourseID.String(),
			)
			return model.ErrConflict
		}
		logger.Error("Error creating enrollment in DB",
			"error", result.Error,
			"user_id", enrollment.UserID.String(),
			"course_id", enrollment.CourseID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormEnrollmentRepository) Find(ctx context.Context, db *gorm.DB, userID, courseID uuid.UUID) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	result := db.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding enrollment in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"course_id", courseID.String(),
		)
		return nil, fmt.Errorf("gormEnrollmentRepository.Find: %w", result.Error)
	}
	return &enrollment, nil
}

func (r *gormEnrollmentRepository) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).Preload("Course").
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&enrollments)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing enrollments by user in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormEnrollmentRepository.ListByUser: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) ListByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).Where("course_id = ?", courseID).Find(&enrollments)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing enrollments by course in DB", "error", result.Error, "course_id", courseID.String())
		return nil, fmt.Errorf("gormEnrollmentRepository.ListByCourse: %w", result.Error)
	}
	return enrollments, nil
}

func (r *gormEnrollmentRepository) ListAll(ctx context.Context, db *gorm.DB) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	result := db.WithContext(ctx).Preload("Course").Find(&enrollments)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing enrollments in DB", "error", result.Error)
		return nil, fmt.Errorf("gormEnrollmentRepository.ListAll: %w", result.Error)
	}
	return enrollments, nil
}

// UpdateProgress writes the cached progress columns. Zero values are written too.
func (r *gormEnrollmentRepository) UpdateProgress(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error {
	result := db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("id = ?", enrollment.ID).
		Updates(map[string]interface{}{
			"progress":      enrollment.Progress,
			"completed":     enrollment.Completed,
			"completed_at":  enrollment.CompletedAt,
			"last_accessed": enrollment.LastAccessed,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating enrollment progress in DB",
			"error", result.Error,
			"enrollment_id", enrollment.ID.String(),
		)
		return fmt.Errorf("gormEnrollmentRepository.UpdateProgress: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormEnrollmentRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.Enrollment{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("gormEnrollmentRepository.Count: %w", err)
	}
	return n, nil
}

func (r *gormEnrollmentRepository) CountCompleted(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.Enrollment{}).Where("completed = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("gormEnrollmentRepository.CountCompleted: %w", err)
	}
	return n, nil
}

func (r *gormEnrollmentRepository) CountSince(ctx context.Context, db *gorm.DB, since time.Time) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.Enrollment{}).Where("enrolled_at >= ?", since).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("gormEnrollmentRepository.CountSince: %w", err)
	}
	return n, nil
}

func (r *gormEnrollmentRepository) ListRecentActivity(ctx context.Context, db *gorm.DB, limit int) ([]model.RecentActivity, error) {
	var rows []model.RecentActivity
	result := db.WithContext(ctx).Table("enrollments AS e").
		Select("e.id AS enrollment_id, p.email AS user_email, c.title AS course_title, e.progress, e.completed, e.last_accessed").
		Joins("JOIN courses c ON c.id = e.course_id").
		Joins("JOIN profiles p ON p.id = e.user_id").
		Order("e.last_accessed DESC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing recent activity in DB", "error", result.Error)
		return nil, fmt.Errorf("gormEnrollmentRepository.ListRecentActivity: %w", result.Error)
	}
	return rows, nil
}

func (r *gormEnrollmentRepository) DeleteByCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error {
	if err := db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error deleting enrollments by course in DB", "error", err, "course_id", courseID.String())
		return fmt.Errorf("gormEnrollmentRepository.DeleteByCourse: %w", err)
	}
	return nil
}

func (r *gormEnrollmentRepository) DeleteByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Enrollment{}).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error deleting enrollments by user in DB", "error", err, "user_id", userID.String())
		return fmt.Errorf("gormEnrollmentRepository.DeleteByUser: %w", err)
	}
	return nil
}
