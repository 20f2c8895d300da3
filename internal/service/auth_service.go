package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"courseshelf/internal/auth"
	"courseshelf/internal/model"
	"courseshelf/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUsernameTaken is returned when trying to register an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService handles signup, login and session teardown.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (accessToken, refreshToken, role string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, accessTokenID string, accessTokenTTL time.Duration, refreshToken string) error
}

type authService struct {
	userRepo      repository.UserRepository
	jwtService    *auth.JWTService
	tokenStore    auth.TokenStoreInterface
	adminUsername string
	adminPassword string
}

// NewAuthService creates a new authentication service. The admin pair is the
// configured out-of-band identity; it never touches the user repository.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, adminUsername, adminPassword string) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtService:    jwtService,
		tokenStore:    tokenStore,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Register creates a new student account with a hashed password. The unique
// index on username resolves concurrent signups: exactly one wins, the other
// observes ErrUsernameTaken.
func (s *authService) Register(ctx context.Context, username, password string) (*model.User, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates either the configured admin pair or a stored student
// account and returns access and refresh tokens plus the resolved role.
func (s *authService) Login(ctx context.Context, username, password string) (accessToken, refreshToken, role string, err error) {
	userID := ""
	if s.isAdminPair(username, password) {
		role = auth.RoleAdmin
	} else {
		user, findErr := s.userRepo.FindByUsername(ctx, username)
		if findErr != nil {
			return "", "", "", ErrInvalidCredentials
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return "", "", "", ErrInvalidCredentials
		}
		role = auth.RoleStudent
		userID = user.ID.String()
	}

	accessToken, err = s.jwtService.GenerateAccessToken(userID, username, role)
	if err != nil {
		return "", "", "", fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(userID, username, role)
	if err != nil {
		return "", "", "", fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, userID, username, role, auth.RefreshTokenExpiry); err != nil {
		return "", "", "", fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, role, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedUsername, storedRole, err := s.tokenStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedUsername != claims.Username || storedRole != claims.Role {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err = s.jwtService.GenerateAccessToken(claims.UserID, claims.Username, claims.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout blacklists the current access token until it expires and revokes the
// refresh token when one is supplied.
func (s *authService) Logout(ctx context.Context, accessTokenID string, accessTokenTTL time.Duration, refreshToken string) error {
	if accessTokenTTL > 0 {
		if err := s.tokenStore.BlacklistAccessToken(ctx, accessTokenID, accessTokenTTL); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}

	if refreshToken != "" {
		tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
		if err != nil {
			return ErrInvalidRefreshToken
		}
		return s.tokenStore.DeleteRefreshToken(ctx, tokenID)
	}

	return nil
}

func (s *authService) isAdminPair(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword))
	return userOK&passOK == 1
}
