// internal/model/profile.go
package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Profile is a learner or administrator account.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"type:varchar(20);not null;default:member" json:"role"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Identities []Identity `gorm:"foreignKey:ProfileID" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

type ContextKey string

const (
	CurrentUserKey ContextKey = "currentUser"
)

// UpdateProfileRequest is the body of PUT /api/me
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"max=100"`
	Bio      string `json:"bio" validate:"max=1000"`
	Location string `json:"location" validate:"max=100"`
	Website  string `json:"website" validate:"omitempty,url"`
}

// UpdateUserRequest is the admin edit of another account.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=member admin"`
}

// UserFilter narrows the admin user list. Query matches email or full name, case-insensitively.
type UserFilter struct {
	Query string
	Role  string
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}

// UserWithStats is one row of the admin user list.
type UserWithStats struct {
	Profile
	EnrollmentCount int `json:"enrollment_count"`
	CompletedCount  int `json:"completed_count"`
}
