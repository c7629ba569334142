package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"max=100"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// ChangePasswordRequest is the body of PUT /api/me/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// JWTCustomClaims carries the profile role next to the registered claims (sub = profile id).
type JWTCustomClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CurrentUser is what the auth middleware puts into the request context.
type CurrentUser struct {
	ID   uuid.UUID
	Role string
}

func (u CurrentUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
