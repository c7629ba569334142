//go:generate mockery --name SettingsService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type SettingsService interface {
	// Get returns the stored settings, or the defaults when none were saved yet.
	Get(ctx context.Context) (*model.PlatformSettings, error)
	Update(ctx context.Context, req *model.UpdateSettingsRequest) (*model.PlatformSettings, error)
}

type settingsService struct {
	db   *gorm.DB
	repo repository.SettingsRepository
	cfg  *config.Config
}

func NewSettingsService(db *gorm.DB, repo repository.SettingsRepository, cfg *config.Config) SettingsService {
	return &settingsService{db: db, repo: repo, cfg: cfg}
}

func (s *settingsService) Get(ctx context.Context) (*model.PlatformSettings, error) {
	settings, err := s.repo.Get(ctx, s.db)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.DefaultPlatformSettings(s.cfg.App.Name), nil
		}
		return nil, internalError("Failed to load platform settings.", err)
	}
	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, req *model.UpdateSettingsRequest) (*model.PlatformSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	current.PlatformName = req.PlatformName
	current.PlatformEmail = req.PlatformEmail
	current.AllowRegistrations = req.AllowRegistrations
	current.DefaultUserRole = req.DefaultUserRole
	if req.Appearance != nil {
		merged := datatypes.JSONMap{}
		for k, v := range current.Appearance {
			merged[k] = v
		}
		for k, v := range req.Appearance {
			merged[k] = v
		}
		current.Appearance = merged
	}

	if err := s.repo.Save(ctx, s.db, current); err != nil {
		return nil, internalError("Failed to save platform settings.", err)
	}
	middleware.GetLogger(ctx).Info("Platform settings updated",
		"allow_registrations", current.AllowRegistrations,
		"default_user_role", current.DefaultUserRole,
	)
	return current, nil
}
