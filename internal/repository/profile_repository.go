//go:generate mockery --name ProfileRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, db *gorm.DB, profile *model.Profile) error
	FindByID(ctx context.Context, db *gorm.DB, profileID uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Profile, error)
	List(ctx context.Context, db *gorm.DB, filter model.UserFilter) ([]*model.Profile, error)
	Update(ctx context.Context, db *gorm.DB, profileID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, db *gorm.DB, profileID uuid.UUID) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	CountByRole(ctx context.Context, db *gorm.DB) (map[string]int64, error)
}

type gormProfileRepository struct{}

func NewGormProfileRepository() ProfileRepository {
	return &gormProfileRepository{}
}

func (r *gormProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *model.Profile) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Omit("Identities").Create(profile)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			logger.Warn("Duplicate key error on create profile", "error", result.Error, "email", profile.Email)
			return model.ErrConflict
		}
		logger.Error("Error creating profile in DB", "error", result.Error, "email", profile.Email)
		return fmt.Errorf("gormProfileRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormProfileRepository) FindByID(ctx context.Context, db *gorm.DB, profileID uuid.UUID) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx)
	var profile model.Profile

	result := db.WithContext(ctx).Where("id = ?", profileID).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding profile by ID in DB", "error", result.Error, "profile_id", profileID.String())
		return nil, fmt.Errorf("gormProfileRepository.FindByID: %w", result.Error)
	}
	return &profile, nil
}

func (r *gormProfileRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx)
	var profile model.Profile

	result := db.WithContext(ctx).Where("email = ?", email).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("Profile not found by email", "email", email)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding profile by email in DB", "error", result.Error, "email", email)
		return nil, fmt.Errorf("gormProfileRepository.FindByEmail: %w", result.Error)
	}
	return &profile, nil
}

func (r *gormProfileRepository) List(ctx context.Context, db *gorm.DB, filter model.UserFilter) ([]*model.Profile, error) {
	var profiles []*model.Profile
	query := db.WithContext(ctx).Order("created_at DESC")
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Query)); term != "" {
		like := "%" + term + "%"
		query = query.Where("(LOWER(email) LIKE ? OR LOWER(full_name) LIKE ?)", like, like)
	}
	result := query.Find(&profiles)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing profiles in DB", "error", result.Error)
		return nil, fmt.Errorf("gormProfileRepository.List: %w", result.Error)
	}
	return profiles, nil
}

func (r *gormProfileRepository) Update(ctx context.Context, db *gorm.DB, profileID uuid.UUID, updates map[string]interface{}) error {
	result := db.WithContext(ctx).Model(&model.Profile{}).Where("id = ?", profileID).Updates(updates)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating profile in DB", "error", result.Error, "profile_id", profileID.String())
		return fmt.Errorf("gormProfileRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProfileRepository) Delete(ctx context.Context, db *gorm.DB, profileID uuid.UUID) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Where("id = ?", profileID).Delete(&model.Profile{})
	if result.Error != nil {
		logger.Error("Error deleting profile in DB", "error", result.Error, "profile_id", profileID.String())
		return fmt.Errorf("gormProfileRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormProfileRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&model.Profile{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("gormProfileRepository.Count: %w", err)
	}
	return n, nil
}

func (r *gormProfileRepository) CountByRole(ctx context.Context, db *gorm.DB) (map[string]int64, error) {
	var rows []struct {
		Role string
		N    int64
	}
	result := db.WithContext(ctx).Model(&model.Profile{}).Select("role, COUNT(*) AS n").Group("role").Scan(&rows)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error counting profiles by role in DB", "error", result.Error)
		return nil, fmt.Errorf("gormProfileRepository.CountByRole: %w", result.Error)
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.N
	}
	return out, nil
}
