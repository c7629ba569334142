// internal/model/settings.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// PlatformSettingsID is the primary key of the single settings row.
const PlatformSettingsID = 1

type PlatformSettings struct {
	ID                 uint              `gorm:"primaryKey" json:"-"`
	PlatformName       string            `gorm:"not null" json:"platform_name"`
	PlatformEmail      string            `json:"platform_email"`
	AllowRegistrations bool              `gorm:"not null" json:"allow_registrations"`
	DefaultUserRole    string            `gorm:"type:varchar(20);not null;default:member" json:"default_user_role"`
	Appearance         datatypes.JSONMap `gorm:"type:json" json:"appearance"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (PlatformSettings) TableName() string {
	return "platform_settings"
}

// DefaultPlatformSettings is used when the settings row has not been written yet.
func DefaultPlatformSettings(name string) *PlatformSettings {
	return &PlatformSettings{
		ID:                 PlatformSettingsID,
		PlatformName:       name,
		AllowRegistrations: true,
		DefaultUserRole:    RoleMember,
		Appearance: datatypes.JSONMap{
			"primary_color":   "#1d4ed8",
			"secondary_color": "#f59e0b",
			"logo_url":        "",
			"favicon_url":     "",
		},
	}
}

type UpdateSettingsRequest struct {
	PlatformName       string         `json:"platform_name" validate:"required,max=100"`
	PlatformEmail      string         `json:"platform_email" validate:"omitempty,email"`
	AllowRegistrations bool           `json:"allow_registrations"`
	DefaultUserRole    string         `json:"default_user_role" validate:"required,oneof=member admin"`
	Appearance         map[string]any `json:"appearance"`
}
