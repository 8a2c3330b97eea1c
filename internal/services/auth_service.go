package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxUsernameLength = 150

// AuthService handles registration, login and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *token.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates a new user. Usernames are matched exactly, so "Alice" and
// "alice" are different accounts.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if err := ensureUsernameFree(ctx, s.userRepo, username, 0); err != nil {
		return nil, err
	}
	if err := ensureEmailFree(ctx, s.userRepo, email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateAccountError(ctx, s.userRepo, user)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !checkPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueTokens creates an access/refresh pair for the user.
func (s *AuthService) IssueTokens(user *models.User) (token.Pair, error) {
	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return token.Pair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	access, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}
	return access, nil
}

// ValidateAccessToken returns the user ID carried by a valid access token.
func (s *AuthService) ValidateAccessToken(accessToken string) (uint64, error) {
	claims, err := s.tokens.Validate(accessToken, token.TypeAccess)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if username == "" {
		return "", ErrUsernameRequired
	}
	if len([]rune(username)) > maxUsernameLength {
		return "", ErrUsernameTooLong
	}
	return username, nil
}

// ensureUsernameFree fails with ErrUsernameTaken if another account (not selfID) uses username.
func ensureUsernameFree(ctx context.Context, repo repository.UserRepository, username string, selfID uint64) error {
	existing, err := repo.FindByUsername(ctx, username)
	if err == nil {
		if existing.ID != selfID {
			return ErrUsernameTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}
	return nil
}

// ensureEmailFree fails with ErrEmailTaken if another account (not selfID) uses email.
func ensureEmailFree(ctx context.Context, repo repository.UserRepository, email string, selfID uint64) error {
	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		if existing.ID != selfID {
			return ErrEmailTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

// duplicateAccountError names the field behind a unique-index violation that
// slipped past the earlier checks because another account was written in between.
func duplicateAccountError(ctx context.Context, repo repository.UserRepository, user *models.User) error {
	if err := ensureUsernameFree(ctx, repo, user.Username, user.ID); errors.Is(err, ErrConflict) {
		return err
	}
	if err := ensureEmailFree(ctx, repo, user.Email, user.ID); errors.Is(err, ErrConflict) {
		return err
	}
	return ErrAccountTaken
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
