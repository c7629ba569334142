//go:generate mockery --name AuthService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Profile, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error
}

type authService struct {
	db           *gorm.DB
	profileRepo  repository.ProfileRepository
	identityRepo repository.IdentityRepository
	settings     SettingsService
	cfg          *config.Config
}

func NewAuthService(
	db *gorm.DB,
	profileRepo repository.ProfileRepository,
	identityRepo repository.IdentityRepository,
	settings SettingsService,
	cfg *config.Config,
) AuthService {
	return &authService{
		db:           db,
		profileRepo:  profileRepo,
		identityRepo: identityRepo,
		settings:     settings,
		cfg:          cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func invalidCredentials() *model.AppError {
	return model.NewAppError(model.CodeInvalidLogin, "Email or password is incorrect.", "", model.ErrUnauthenticated)
}

// Register creates a profile with a local identity. The role comes from platform settings.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.Profile, error) {
	email := normalizeEmail(req.Email)
	logger := middleware.GetLogger(ctx).With("email", email)

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.AllowRegistrations {
		logger.Warn("Registration rejected: registrations are disabled")
		return nil, model.NewAppError(model.CodeRegistration, "New registrations are currently disabled.", "", model.ErrForbidden)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, internalError("Failed to process the password.", err)
	}
	hash := string(hashedPassword)

	role := settings.DefaultUserRole
	if role != model.RoleAdmin {
		role = model.RoleMember
	}

	profile := &model.Profile{
		ID:       uuid.New(),
		Email:    email,
		Role:     role,
		FullName: strings.TrimSpace(req.FullName),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.profileRepo.FindByEmail(ctx, tx, email)
		if err == nil {
			logger.Warn("Email already exists")
			return model.NewAppError(model.CodeEmailTaken, "This email address is already registered.", "email", model.ErrConflict)
		}
		if !errors.Is(err, model.ErrNotFound) {
			return internalError("Failed to check the email address.", err)
		}

		if err := s.profileRepo.Create(ctx, tx, profile); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during profile creation (race condition)")
				return model.NewAppError(model.CodeEmailTaken, "This email address is already registered.", "email", model.ErrConflict)
			}
			return internalError("Failed to create the account.", err)
		}

		identity := &model.Identity{
			ProfileID:    profile.ID,
			AuthProvider: model.AuthProviderLocal,
			ProviderID:   email,
			PasswordHash: &hash,
		}
		if err := s.identityRepo.Create(ctx, tx, identity); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError(model.CodeEmailTaken, "This email address is already registered.", "email", model.ErrConflict)
			}
			return internalError("Failed to create the account.", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Profile registered", "profile_id", profile.ID.String(), "role", profile.Role)
	return profile, nil
}

// Login verifies a local identity and issues an HS256 access token (sub = profile id, role claim).
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := normalizeEmail(req.Email)
	logger := middleware.GetLogger(ctx).With("email", email)

	identity, err := s.identityRepo.FindByProvider(ctx, s.db, model.AuthProviderLocal, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: identity not found")
			return nil, invalidCredentials()
		}
		logger.Error("Login failed: db error on FindByProvider", "error", err)
		return nil, internalError("Login failed.", err)
	}

	if identity.PasswordHash == nil ||
		bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(req.Password)) != nil {
		logger.Warn("Login failed: password mismatch", "profile_id", identity.ProfileID.String())
		return nil, invalidCredentials()
	}

	profile, err := s.profileRepo.FindByID(ctx, s.db, identity.ProfileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("Login failed: identity without profile", "profile_id", identity.ProfileID.String())
			return nil, invalidCredentials()
		}
		return nil, internalError("Login failed.", err)
	}

	signed, err := s.issueToken(profile)
	if err != nil {
		logger.Error("Failed to sign JWT", "error", err, "profile_id", profile.ID.String())
		return nil, internalError("Failed to issue the access token.", err)
	}

	logger.Info("Login successful", "profile_id", profile.ID.String())
	return &model.LoginResponse{AccessToken: signed}, nil
}

func (s *authService) issueToken(profile *model.Profile) (string, error) {
	now := time.Now()
	ttl := s.cfg.JWT.AccessTokenTTL
	if ttl <= 0 {
		ttl = config.DefaultAccessTokenTTL
	}
	claims := &model.JWTCustomClaims{
		Role: profile.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   profile.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String())

	if req.NewPassword != req.ConfirmPassword {
		return model.NewAppError(model.CodeValidation, "Passwords do not match.", "confirm_password", model.ErrInvalidInput)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		identity, err := s.identityRepo.FindByProfile(ctx, tx, model.AuthProviderLocal, userID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError(model.CodeNotFound, "No password login exists for this account.", "", model.ErrNotFound)
			}
			return internalError("Failed to load credentials.", err)
		}

		if identity.PasswordHash == nil ||
			bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(req.CurrentPassword)) != nil {
			logger.Warn("Password change rejected: current password mismatch")
			return model.NewAppError(model.CodeInvalidLogin, "Current password is incorrect.", "current_password", model.ErrInvalidInput)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return internalError("Failed to process the password.", err)
		}
		if err := s.identityRepo.UpdatePasswordHash(ctx, tx, identity.ID, string(hashed)); err != nil {
			return internalError("Failed to update the password.", err)
		}

		logger.Info("Password changed")
		return nil
	})
}
