package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-manager-api/internal/constants"
	"github.com/yukikurage/task-manager-api/internal/models"
	"github.com/yukikurage/task-manager-api/internal/repository"
	"github.com/yukikurage/task-manager-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidToken         = errors.New("invalid access token")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue access token")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, bcryptCost int) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user and issues its first access token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	email := strings.TrimSpace(input.Email)

	exists, err := s.userRepo.EmailExists(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	token, secret, err := newAccessToken()
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.CreateWithToken(user, token); err != nil {
		// Lost a race against a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return user, utils.FormatPlainToken(token.ID, secret), nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a new access token.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes the token used for the current request.
func (s *AuthService) Logout(tokenID uint64) error {
	if err := s.tokenRepo.Delete(tokenID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves a plain bearer token to its user and token record.
func (s *AuthService) Authenticate(plainToken string) (*models.User, *models.AccessToken, error) {
	id, secret, ok := utils.ParsePlainToken(plainToken)
	if !ok {
		return nil, nil, ErrInvalidToken
	}

	token, err := s.tokenRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("failed to find token: %w", err)
	}

	if !utils.TokenHashEqual(token.TokenHash, utils.HashTokenSecret(secret)) {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.GetUser(token.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}

	usedAt := s.now()
	if err := s.tokenRepo.Touch(token.ID, usedAt); err != nil {
		return nil, nil, fmt.Errorf("failed to update token usage: %w", err)
	}
	token.LastUsedAt = &usedAt

	return user, token, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// issueToken stores a new token for userID and returns its plain form.
func (s *AuthService) issueToken(userID uint64) (string, error) {
	token, secret, err := newAccessToken()
	if err != nil {
		return "", err
	}

	token.UserID = userID
	if err := s.tokenRepo.Create(token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return utils.FormatPlainToken(token.ID, secret), nil
}

// newAccessToken builds an unsaved token and its secret. Only the hash of
// the secret is persisted.
func newAccessToken() (*models.AccessToken, string, error) {
	secret, err := utils.GenerateTokenSecret(constants.TokenSecretBytes)
	if err != nil {
		return nil, "", ErrFailedToIssueToken
	}

	return &models.AccessToken{
		Name:      constants.AuthTokenName,
		TokenHash: utils.HashTokenSecret(secret),
	}, secret, nil
}
