package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"codecampus/internal/app/nav"
	"codecampus/internal/common"
	"codecampus/internal/common/security"
	"codecampus/internal/domain/model"
	"codecampus/internal/domain/repository"
	"codecampus/internal/platform/logger"
)

// AuthService materializes profiles on login and keeps the session
// pointer and the profile map consistent. Login is deliberately
// trivial: any role/email pair is accepted, there are no passwords.
type AuthService struct {
	profileRepo repository.ProfileRepository
	log         *logger.Logger
}

func NewAuthService(profileRepo repository.ProfileRepository, log *logger.Logger) *AuthService {
	return &AuthService{profileRepo: profileRepo, log: log}
}

type LoginRequest struct {
	Role   string `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type AuthResponse struct {
	User        *model.UserProfile `json:"user"`
	Token       string             `json:"token"`
	LandingView nav.View           `json:"landing_view"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" {
		return nil, fmt.Errorf("email is required: %w", common.ErrBadRequest)
	}
	if req.Role != model.RoleUser && req.Role != model.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, common.ErrBadRequest)
	}

	email := model.NormalizeEmail(req.Email)

	profile, err := s.profileRepo.GetProfile(ctx, email)
	switch {
	case errors.Is(err, common.ErrNotFound):
		profile = model.NewUserProfile(email, req.Role, req.Name, req.Avatar)
		s.log.Info("created profile on first login", "email", email, "username", profile.Username)
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	default:
		// An existing profile takes the role used for this login. The
		// same email can act as admin in one session and user in the
		// next.
		profile.Role = req.Role
	}

	if err := s.profileRepo.SaveProfileAndSession(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile and session: %w", err)
	}

	token, err := security.GenerateToken(profile.Email, profile.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	landing := nav.ViewCourses
	if profile.Role == model.RoleAdmin {
		landing = nav.ViewAdmin
	}
	return &AuthResponse{User: profile, Token: token, LandingView: landing}, nil
}

// Logout removes the persisted session pointer. The profile itself is
// never deleted.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.profileRepo.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Me resolves the active session's profile.
func (s *AuthService) Me(ctx context.Context) (*model.UserProfile, error) {
	profile, err := s.profileRepo.GetSession(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return profile, nil
}

// ListUsers returns every registered profile, ordered by email. Admin
// surface only; the handler gates it behind the admin role.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	profiles, err := s.profileRepo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Email < profiles[j].Email })
	return profiles, nil
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Avatar  string `json:"avatar"`
	College string `json:"college"`
	Course  string `json:"course"`
}

// UpdateProfile edits the display fields of the profile owning the
// session identity, then persists map and session together. Email,
// role, stats and submissions are not editable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, email string, req UpdateProfileRequest) (*model.UserProfile, error) {
	profile, err := s.profileRepo.GetProfile(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	profile.Avatar = req.Avatar
	profile.College = req.College
	profile.Course = req.Course

	if err := s.profileRepo.SaveProfileAndSession(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile and session: %w", err)
	}
	return profile, nil
}
