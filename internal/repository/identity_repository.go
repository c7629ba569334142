//go:generate mockery --name IdentityRepository --output ./mocks --outpkg mocks --case=underscore
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

type IdentityRepository interface {
	Create(ctx context.Context, db *gorm.DB, identity *model.Identity) error
	FindByProvider(ctx context.Context, db *gorm.DB, authProvider string, providerID string) (*model.Identity, error)
	FindByProfile(ctx context.Context, db *gorm.DB, authProvider string, profileID uuid.UUID) (*model.Identity, error)
	UpdatePasswordHash(ctx context.Context, db *gorm.DB, identityID uint, hash string) error
	DeleteByProfile(ctx context.Context, db *gorm.DB, profileID uuid.UUID) error
}

type gormIdentityRepository struct{}

func NewGormIdentityRepository() IdentityRepository {
	return &gormIdentityRepository{}
}

func (r *gormIdentityRepository) Create(ctx context.Context, db *gorm.DB, identity *model.Identity) error {
	logger := middleware.GetLogger(ctx)
	result := db.WithContext(ctx).Create(identity)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return model.ErrConflict
		}
		logger.Error(
			"Error creating identity in DB",
			"error", result.Error,
			"auth_provider", identity.AuthProvider,
			"provider_id", identity.ProviderID,
		)
		return fmt.Errorf("gormIdentityRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormIdentityRepository) FindByProvider(ctx context.Context, db *gorm.DB, authProvider string, providerID string) (*model.Identity, error) {
	logger := middleware.GetLogger(ctx)
	var identity model.Identity

	result := db.WithContext(ctx).
		Where("auth_provider = ? AND provider_id = ?", authProvider, providerID).
		First(&identity)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error(
			"Error finding identity by provider in DB",
			"error", result.Error,
			"auth_provider", authProvider,
			"provider_id", providerID,
		)
		return nil, fmt.Errorf("gormIdentityRepository.FindByProvider: %w", result.Error)
	}
	return &identity, nil
}

func (r *gormIdentityRepository) FindByProfile(ctx context.Context, db *gorm.DB, authProvider string, profileID uuid.UUID) (*model.Identity, error) {
	var identity model.Identity
	result := db.WithContext(ctx).
		Where("auth_provider = ? AND profile_id = ?", authProvider, profileID).
		First(&identity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding identity by profile in DB", "error", result.Error, "profile_id", profileID.String())
		return nil, fmt.Errorf("gormIdentityRepository.FindByProfile: %w", result.Error)
	}
	return &identity, nil
}

func (r *gormIdentityRepository) UpdatePasswordHash(ctx context.Context, db *gorm.DB, identityID uint, hash string) error {
	result := db.WithContext(ctx).Model(&model.Identity{}).Where("id = ?", identityID).Update("password_hash", hash)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating password hash in DB", "error", result.Error, "identity_id", identityID)
		return fmt.Errorf("gormIdentityRepository.UpdatePasswordHash: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormIdentityRepository) DeleteByProfile(ctx context.Context, db *gorm.DB, profileID uuid.UUID) error {
	if err := db.WithContext(ctx).Where("profile_id = ?", profileID).Delete(&model.Identity{}).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error deleting identities in DB", "error", err, "profile_id", profileID.String())
		return fmt.Errorf("gormIdentityRepository.DeleteByProfile: %w", err)
	}
	return nil
}
