//go:generate mockery --name SettingsRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
)

type SettingsRepository interface {
	// Get returns ErrNotFound when the settings row has never been written.
	Get(ctx context.Context, db *gorm.DB) (*model.PlatformSettings, error)
	Save(ctx context.Context, db *gorm.DB, settings *model.PlatformSettings) error
}

type gormSettingsRepository struct{}

func NewGormSettingsRepository() SettingsRepository {
	return &gormSettingsRepository{}
}

func (r *gormSettingsRepository) Get(ctx context.Context, db *gorm.DB) (*model.PlatformSettings, error) {
	var settings model.PlatformSettings
	result := db.WithContext(ctx).Where("id = ?", model.PlatformSettingsID).First(&settings)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error loading platform settings in DB", "error", result.Error)
		return nil, fmt.Errorf("gormSettingsRepository.Get: %w", result.Error)
	}
	return &settings, nil
}

func (r *gormSettingsRepository) Save(ctx context.Context, db *gorm.DB, settings *model.PlatformSettings) error {
	settings.ID = model.PlatformSettingsID
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"platform_name", "platform_email", "allow_registrations",
			"default_user_role", "appearance", "updated_at",
		}),
	}).Create(settings)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error saving platform settings in DB", "error", result.Error)
		return fmt.Errorf("gormSettingsRepository.Save: %w", result.Error)
	}
	return nil
}
