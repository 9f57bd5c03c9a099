package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/nanobio/backend/internal/auth"
	"github.com/nanobio/backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Common account errors
var (
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// AccountUserRepository is the interface that wraps methods for User table data access
type AccountUserRepository interface {
	// Create inserts a new user.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail retrieves a user by email, "nil" when no user exists.
	//
	// If some error occurs during data retrieval, the error will be returned.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AccountProfileRepository is the interface for profile writes performed by
// the account service
type AccountProfileRepository interface {
	// Create inserts a new profile with zeroed progression state.
	//
	// If some error occurs during profile creation, the error will be returned.
	Create(ctx context.Context, profile *models.Profile) error
	// UpdateInfo updates the editable identity fields of a profile.
	//
	// If some error occurs during the update, the error will be returned.
	UpdateInfo(ctx context.Context, userID, fullName, institution, role string) error
}

// AccountProfileCache is the in-memory profile view that must be dropped
// after identity writes, which bypass the progression ledger
type AccountProfileCache interface {
	// Invalidate drops the cached view of a profile.
	Invalidate(userID string)
}

// accountService implements signup, login and profile identity management
type accountService struct {
	userRepo       AccountUserRepository
	profileRepo    AccountProfileRepository
	tokenGenerator *auth.TokenGenerator
	profileCache   AccountProfileCache
	logger         *zap.Logger
}

// NewAccountService creates a new account service.
// The profile cache is optional; a nil cache disables invalidation.
func NewAccountService(userRepo AccountUserRepository, profileRepo AccountProfileRepository, tokenGenerator *auth.TokenGenerator, profileCache AccountProfileCache, logger *zap.Logger) *accountService {
	return &accountService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		tokenGenerator: tokenGenerator,
		profileCache:   profileCache,
		logger:         logger,
	}
}

// Register creates a new user with a fresh profile and returns a token pair
func (s *accountService) Register(ctx context.Context, email, password, fullName, institution, role string) (string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailPattern.MatchString(email) {
		return "", "", fmt.Errorf("invalid email format")
	}
	if len(password) < 8 {
		return "", "", fmt.Errorf("password must be at least 8 characters long")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", fmt.Errorf("failed to create user: %w", err)
	}

	profile := &models.Profile{
		ID:          user.ID,
		FullName:    strings.TrimSpace(fullName),
		Institution: strings.TrimSpace(institution),
		Role:        strings.TrimSpace(role),
		Level:       1,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return "", "", fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))

	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, refreshToken, nil
}

// Login verifies credentials and returns a token pair
func (s *accountService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", "", fmt.Errorf("email cannot be empty")
	}
	if password == "" {
		return "", "", fmt.Errorf("password cannot be empty")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, refreshToken, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// refresh token itself identifies the user, so no access token is required.
func (s *accountService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired refresh token")
	}

	accessToken, newRefreshToken, err := s.tokenGenerator.GenerateTokens(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate tokens: %w", err)
	}

	return accessToken, newRefreshToken, nil
}

// UpdateProfile updates the editable identity fields of the caller's profile.
// Progression fields are owned by the ledger and cannot be set here.
func (s *accountService) UpdateProfile(ctx context.Context, userID, fullName, institution, role string) error {
	if strings.TrimSpace(fullName) == "" {
		return fmt.Errorf("full name cannot be empty")
	}

	err := s.profileRepo.UpdateInfo(ctx, userID, strings.TrimSpace(fullName), strings.TrimSpace(institution), strings.TrimSpace(role))
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if s.profileCache != nil {
		s.profileCache.Invalidate(userID)
	}

	return nil
}
