package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/model"
)

// EnsureSettings writes the default settings row if none exists yet.
func EnsureSettings(ctx context.Context, db *gorm.DB, appName string) error {
	repo := NewGormSettingsRepository()
	_, err := repo.Get(ctx, db)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return repo.Save(ctx, db, model.DefaultPlatformSettings(appName))
}

// EnsureAdmin creates an admin profile with a local identity, or promotes the
// existing profile with that email. passwordHash is a bcrypt hash.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, passwordHash string) (*model.Profile, error) {
	profiles := NewGormProfileRepository()
	identities := NewGormIdentityRepository()

	var admin *model.Profile
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := profiles.FindByEmail(ctx, tx, email)
		switch {
		case err == nil:
			if existing.Role != model.RoleAdmin {
				if err := profiles.Update(ctx, tx, existing.ID, map[string]interface{}{"role": model.RoleAdmin}); err != nil {
					return err
				}
				existing.Role = model.RoleAdmin
			}
			admin = existing
			return nil
		case !errors.Is(err, model.ErrNotFound):
			return err
		}

		admin = &model.Profile{ID: uuid.New(), Email: email, Role: model.RoleAdmin, FullName: "Administrator"}
		if err := profiles.Create(ctx, tx, admin); err != nil {
			return err
		}
		return identities.Create(ctx, tx, &model.Identity{
			ProfileID:    admin.ID,
			AuthProvider: model.AuthProviderLocal,
			ProviderID:   email,
			PasswordHash: &passwordHash,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("repository.EnsureAdmin: %w", err)
	}
	return admin, nil
}
