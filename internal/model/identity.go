package model

import "github.com/google/uuid"

const (
	AuthProviderLocal = "local"
)

// Identity holds login credentials for a profile.
type Identity struct {
	ID        uint      `gorm:"primaryKey"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index"`

	// provider + provider id is unique; for local logins the provider id is the email
	AuthProvider string `gorm:"type:varchar(50);not null;uniqueIndex:uq_identity_provider"`
	ProviderID   string `gorm:"not null;uniqueIndex:uq_identity_provider"`

	PasswordHash *string `gorm:"default:null"`
}

func (Identity) TableName() string {
	return "identities"
}
