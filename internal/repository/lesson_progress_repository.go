//go:generate mockery --name LessonProgressRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

type LessonProgressRepository interface {
	Find(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) (*model.LessonProgress, error)
	// Upsert keeps one row per (user_id, lesson_id); on conflict the incoming state wins.
	Upsert(ctx context.Context, db *gorm.DB, record *model.LessonProgress) (*model.LessonProgress, error)
	ListByUserAndLessons(ctx context.Context, db *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*model.LessonProgress, error)
	// CountCompletedByUser returns completed lesson counts per user within lessonIDs.
	CountCompletedByUser(ctx context.Context, db *gorm.DB, lessonIDs []uuid.UUID) (map[uuid.UUID]int, error)
	DeleteByLessons(ctx context.Context, db *gorm.DB, lessonIDs []uuid.UUID) error
	DeleteByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) error
}

type gormLessonProgressRepository struct{}

func NewGormLessonProgressRepository() LessonProgressRepository {
	return &gormLessonProgressRepository{}
}

func (r *gormLessonProgressRepository) Find(ctx context.Context, db *gorm.DB, userID, lessonID uuid.UUID) (*model.LessonProgress, error) {
	var record model.LessonProgress
	result := db.WithContext(ctx).Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding lesson progress in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonProgressRepository.Find: %w", result.Error)
	}
	return &record, nil
}

func (r *gormLessonProgressRepository) Upsert(ctx context.Context, db *gorm.DB, record *model.LessonProgress) (*model.LessonProgress, error) {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "last_accessed", "updated_at"}),
	}).Create(record)
	if result.Error != nil {
		logger.Error("Error upserting lesson progress in DB",
			"error", result.Error,
			"user_id", record.UserID.String(),
			"lesson_id", record.LessonID.String(),
		)
		return nil, fmt.Errorf("gormLessonProgressRepository.Upsert: %w", result.Error)
	}

	// the stored row keeps its original id when the insert turned into an update
	stored, err := r.Find(ctx, db, record.UserID, record.LessonID)
	if err != nil {
		return nil, fmt.Errorf("gormLessonProgressRepository.Upsert: %w", err)
	}
	return stored, nil
}

func (r *gormLessonProgressRepository) ListByUserAndLessons(ctx context.Context, db *gorm.DB, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*model.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return []*model.LessonProgress{}, nil
	}
	var records []*model.LessonProgress
	result := db.WithContext(ctx).Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&records)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing lesson progress in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormLessonProgressRepository.ListByUserAndLessons: %w", result.Error)
	}
	return records, nil
}

func (r *gormLessonProgressRepository) CountCompletedByUser(ctx context.Context, db *gorm.DB, lessonIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	if len(lessonIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		UserID uuid.UUID
		N      int
	}
	result := db.WithContext(ctx).Model(&model.LessonProgress{}).
		Select("user_id, COUNT(*) AS n").
		Where("completed = ? AND lesson_id IN ?", true, lessonIDs).
		Group("user_id").
		Scan(&rows)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error counting completed lessons in DB", "error", result.Error)
		return nil, fmt.Errorf("gormLessonProgressRepository.CountCompletedByUser: %w", result.Error)
	}
	for _, row := range rows {
		out[row.UserID] = row.N
	}
	return out, nil
}

func (r *gormLessonProgressRepository) DeleteByLessons(ctx context.Context, db *gorm.DB, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	if err := db.WithContext(ctx).Where("lesson_id IN ?", lessonIDs).Delete(&model.LessonProgress{}).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error deleting lesson progress in DB", "error", err)
		return fmt.Errorf("gormLessonProgressRepository.DeleteByLessons: %w", err)
	}
	return nil
}

func (r *gormLessonProgressRepository) DeleteByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.LessonProgress{}).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error deleting lesson progress by user in DB", "error", err, "user_id", userID.String())
		return fmt.Errorf("gormLessonProgressRepository.DeleteByUser: %w", err)
	}
	return nil
}
