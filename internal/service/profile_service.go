//go:generate mockery --name ProfileService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haradejene/yegara-web-lms/internal/middleware"
	"github.com/haradejene/yegara-web-lms/internal/model"
	"github.com/haradejene/yegara-web-lms/internal/progress"
	"github.com/haradejene/yegara-web-lms/internal/repository"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader) (*model.Profile, error)

	// GetStudentProfile returns a learner's profile with their progress. Only the
	// learner themselves or an admin may read it.
	GetStudentProfile(ctx context.Context, actor model.CurrentUser, userID uuid.UUID) (*model.StudentProfile, error)

	ListUsersWithStats(ctx context.Context, filter model.UserFilter) ([]*model.UserWithStats, error)
	ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role string) (*model.Profile, error)
	UpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *model.UpdateUserRequest) (*model.Profile, error)
	DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error
}

type profileService struct {
	db             *gorm.DB
	profileRepo    repository.ProfileRepository
	identityRepo   repository.IdentityRepository
	enrollmentRepo repository.EnrollmentRepository
	lpRepo         repository.LessonProgressRepository
	storage        Storage
	now            func() time.Time
}

func NewProfileService(
	db *gorm.DB,
	profileRepo repository.ProfileRepository,
	identityRepo repository.IdentityRepository,
	enrollmentRepo repository.EnrollmentRepository,
	lpRepo repository.LessonProgressRepository,
	storage Storage,
) ProfileService {
	return &profileService{
		db:             db,
		profileRepo:    profileRepo,
		identityRepo:   identityRepo,
		enrollmentRepo: enrollmentRepo,
		lpRepo:         lpRepo,
		storage:        storage,
		now:            time.Now,
	}
}

var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

func profileNotFound() *model.AppError {
	return model.NewAppError(model.CodeNotFound, "Profile not found.", "", model.ErrNotFound)
}

func (s *profileService) findProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, profileNotFound()
		}
		return nil, internalError("Failed to load the profile.", err)
	}
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return s.findProfile(ctx, s.db, userID)
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.Profile, error) {
	updates := map[string]interface{}{
		"full_name": strings.TrimSpace(req.FullName),
		"bio":       req.Bio,
		"location":  req.Location,
		"website":   req.Website,
	}
	if err := s.profileRepo.Update(ctx, s.db, userID, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, profileNotFound()
		}
		return nil, internalError("Failed to update the profile.", err)
	}
	middleware.GetLogger(ctx).Info("Profile updated", "user_id", userID.String())
	return s.findProfile(ctx, s.db, userID)
}

func (s *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, r io.Reader) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx).With("user_id", userID.String())

	if !allowedAvatarTypes[contentType] {
		return nil, model.NewAppError(model.CodeValidation, "Avatar must be a PNG, JPEG, WebP or GIF image.", "avatar", model.ErrInvalidInput)
	}
	if _, err := s.findProfile(ctx, s.db, userID); err != nil {
		return nil, err
	}

	key := AvatarObjectKey(userID, filename, s.now())
	url, err := s.storage.Upload(ctx, key, contentType, r)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		logger.Error("Avatar upload failed", "error", err)
		return nil, internalError("Failed to upload the avatar.", err)
	}

	if err := s.profileRepo.Update(ctx, s.db, userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return nil, internalError("Failed to save the avatar.", err)
	}
	logger.Info("Avatar updated", "avatar_url", url)
	return s.findProfile(ctx, s.db, userID)
}

func (s *profileService) GetStudentProfile(ctx context.Context, actor model.CurrentUser, userID uuid.UUID) (*model.StudentProfile, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		middleware.GetLogger(ctx).Warn("Student profile access denied", "actor_id", actor.ID.String(), "target_id", userID.String())
		return nil, model.NewAppError(model.CodeForbidden, "You can only view your own profile.", "", model.ErrForbidden)
	}
	profile, err := s.findProfile(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollmentRepo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, internalError("Failed to load enrollments.", err)
	}
	if enrollments == nil {
		enrollments = []*model.Enrollment{}
	}

	completed := []*model.Course{}
	for _, e := range enrollments {
		if e.Completed && e.Course != nil {
			completed = append(completed, e.Course)
		}
	}
	return &model.StudentProfile{
		Profile:          profile,
		Stats:            progress.LearnerStats(enrollments),
		Enrollments:      enrollments,
		CompletedCourses: completed,
	}, nil
}

func (s *profileService) ListUsersWithStats(ctx context.Context, filter model.UserFilter) ([]*model.UserWithStats, error) {
	if filter.Role != "" && !validRole(filter.Role) {
		return nil, model.NewAppError(model.CodeValidation, "role must be one of [member admin].", "role", model.ErrInvalidInput)
	}
	profiles, err := s.profileRepo.List(ctx, s.db, filter)
	if err != nil {
		return nil, internalError("Failed to list users.", err)
	}
	enrollments, err := s.enrollmentRepo.ListAll(ctx, s.db)
	if err != nil {
		return nil, internalError("Failed to list enrollments.", err)
	}

	stats := progress.UserEnrollmentStats(enrollments)
	users := make([]*model.UserWithStats, 0, len(profiles))
	for _, p := range profiles {
		st := stats[p.ID]
		users = append(users, &model.UserWithStats{
			Profile:         *p,
			EnrollmentCount: st.Total,
			CompletedCount:  st.Completed,
		})
	}
	return users, nil
}

func validRole(role string) bool {
	return role == model.RoleMember || role == model.RoleAdmin
}

func (s *profileService) ChangeRole(ctx context.Context, actorID, userID uuid.UUID, role string) (*model.Profile, error) {
	return s.UpdateUser(ctx, actorID, userID, &model.UpdateUserRequest{Role: &role})
}

func (s *profileService) UpdateUser(ctx context.Context, actorID, userID uuid.UUID, req *model.UpdateUserRequest) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx).With("actor_id", actorID.String(), "target_id", userID.String())

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return nil, model.NewAppError(model.CodeValidation, "role must be one of [member admin].", "role", model.ErrInvalidInput)
		}
		if actorID == userID && *req.Role != model.RoleAdmin {
			logger.Warn("Admin attempted to demote themselves")
			return nil, model.NewAppError(model.CodeForbidden, "You cannot remove your own admin role.", "role", model.ErrForbidden)
		}
		updates["role"] = *req.Role
	}
	if len(updates) == 0 {
		return s.findProfile(ctx, s.db, userID)
	}

	if err := s.profileRepo.Update(ctx, s.db, userID, updates); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, profileNotFound()
		}
		return nil, internalError("Failed to update the user.", err)
	}
	logger.Info("User updated by admin", "fields", len(updates))
	return s.findProfile(ctx, s.db, userID)
}

// DeleteUser removes the profile with its identities, enrollments and lesson progress.
func (s *profileService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	logger := middleware.GetLogger(ctx).With("actor_id", actorID.String(), "target_id", userID.String())
	if actorID == userID {
		return model.NewAppError(model.CodeForbidden, "You cannot delete your own account here.", "", model.ErrForbidden)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findProfile(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.lpRepo.DeleteByUser(ctx, tx, userID); err != nil {
			return internalError("Failed to delete lesson progress.", err)
		}
		if err := s.enrollmentRepo.DeleteByUser(ctx, tx, userID); err != nil {
			return internalError("Failed to delete enrollments.", err)
		}
		if err := s.identityRepo.DeleteByProfile(ctx, tx, userID); err != nil {
			return internalError("Failed to delete credentials.", err)
		}
		if err := s.profileRepo.Delete(ctx, tx, userID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return profileNotFound()
			}
			return internalError("Failed to delete the user.", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("User deleted by admin")
	return nil
}
