package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/service"
)

func TestSettingsService(t *testing.T) {
	ctx := testContext()
	db := setupTestDB(t)
	r := newRepos()
	svc := service.NewSettingsService(db, r.settings, testConfig())

	t.Run("defaults before the first save", func(t *testing.T) {
		got, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Yegara LMS", got.PlatformName)
		assert.True(t, got.AllowRegistrations)
		assert.Equal(t, model.RoleMember, got.DefaultUserRole)
		assert.Equal(t, "#1d4ed8", got.Appearance["primary_color"])
	})

	t.Run("update merges appearance and persists", func(t *testing.T) {
		_, err := svc.Update(ctx, &model.UpdateSettingsRequest{
			PlatformName:       "Yegara Academy",
			PlatformEmail:      "hello@yegara.et",
			AllowRegistrations: false,
			DefaultUserRole:    model.RoleMember,
			Appearance:         map[string]any{"primary_color": "#000000"},
		})
		require.NoError(t, err)

		got, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Yegara Academy", got.PlatformName)
		assert.False(t, got.AllowRegistrations)
		assert.Equal(t, "#000000", got.Appearance["primary_color"])
		assert.Equal(t, "#f59e0b", got.Appearance["secondary_color"])
	})

	t.Run("second update overwrites the single row", func(t *testing.T) {
		_, err := svc.Update(ctx, &model.UpdateSettingsRequest{
			PlatformName:       "Yegara",
			AllowRegistrations: true,
			DefaultUserRole:    model.RoleAdmin,
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&model.PlatformSettings{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		got, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.True(t, got.AllowRegistrations)
		assert.Equal(t, model.RoleAdmin, got.DefaultUserRole)
		assert.Equal(t, "#000000", got.Appearance["primary_color"])
	})
}
