package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gallerieapp/gallerie-server/internal/auth"
	"github.com/gallerieapp/gallerie-server/internal/domain"
	domainerrors "github.com/gallerieapp/gallerie-server/internal/errors"
	"github.com/gallerieapp/gallerie-server/internal/id"
	"github.com/gallerieapp/gallerie-server/internal/store"
)

// AuthService handles account creation, login, and password confirmation.
// Session management is delegated to SessionService.
type AuthService struct {
	store          *store.Store
	sessionService *SessionService
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store *store.Store,
	sessionService *SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		sessionService: sessionService,
		logger:         logger,
	}
}

// SignupRequest contains new account data.
type SignupRequest struct {
	UserName    string `json:"user_name" validate:"required,min=3,max=30,alphanum"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	UserAgent   string `json:"-"` // Extracted from request by handler
	IPAddress   string `json:"-"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	UserAgent string `json:"-"` // Extracted from request by handler
	IPAddress string `json:"-"`
}

// RefreshRequest contains the refresh token presented for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	UserAgent    string `json:"-"`
	IPAddress    string `json:"-"`
}

// ConfirmPasswordRequest re-verifies the current user's password before a
// sensitive action.
type ConfirmPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Signup creates a new account and logs it in. The very first account on the
// server becomes the admin.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	firstUser, err := s.noUsersYet(ctx)
	if err != nil {
		return nil, fmt.Errorf("check existing users: %w", err)
	}

	role := domain.RoleMember
	if firstUser {
		role = domain.RoleAdmin
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.UserName
	}

	user := &domain.User{
		UserName:     req.UserName,
		DisplayName:  displayName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	user.ID = id.NewUUID()
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("user name or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user signed up",
		"user_id", user.ID,
		"user_name", user.UserName,
		"role", role,
	)

	sanitizedForSelf := *user
	sanitizedForSelf.PasswordHash = ""

	return &AuthResponse{
		User:            &sanitizedForSelf,
		SessionResponse: *sessionResp,
	}, nil
}

// Login authenticates a user and creates a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByIndex(ctx, "email", req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Don't leak whether the email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	sessionResp, err := s.sessionService.CreateSession(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("user logged in",
		"user_id", user.ID,
		"user_name", user.UserName,
	)

	sanitizedForSelf := *user
	sanitizedForSelf.PasswordHash = ""

	return &AuthResponse{
		User:            &sanitizedForSelf,
		SessionResponse: *sessionResp,
	}, nil
}

// Refresh rotates a session's tokens.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	sessionResp, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, err
	}

	sanitizedForSelf := *user
	sanitizedForSelf.PasswordHash = ""

	return &AuthResponse{
		User:            &sanitizedForSelf,
		SessionResponse: *sessionResp,
	}, nil
}

// Logout ends the given session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// ConfirmPassword re-verifies the password of an already authenticated user.
// Used to gate sensitive actions like account deletion.
func (s *AuthService) ConfirmPassword(ctx context.Context, userID string, req ConfirmPasswordRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return domainerrors.NotFound("user not found").WithCause(err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return domainerrors.InvalidCredentials("password is incorrect")
	}

	return nil
}

// noUsersYet reports whether the store holds no user rows.
func (s *AuthService) noUsersYet(ctx context.Context) (bool, error) {
	for _, err := range s.store.Users.List(ctx) {
		if err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
