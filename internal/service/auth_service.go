package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/metrics"
	"github.com/cityguide-blog-api/internal/models"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/cityguide-blog-api/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const tokenType = "bearer"

// authService is the concrete implementation of AuthService
type authService struct {
	repo     repository.AdminRepository
	cfg      config.AuthConfig
	hashCost int
	now      func() time.Time
	log      zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(repo repository.AdminRepository, cfg config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		repo:     repo,
		cfg:      cfg,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Register creates an admin account for an allowlisted email
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.TokenResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.AsError(validation.ValidateRegistration(req)); err != nil {
		return nil, err
	}
	if !s.cfg.IsAllowedEmail(req.Email) {
		metrics.RecordAuthAttempt("register", "forbidden")
		s.log.Warn().Str("email", req.Email).Msg("Registration attempt from email outside allowlist")
		return nil, ErrRegistrationForbidden
	}

	emailTaken, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return nil, fmt.Errorf("%w: an account with this email already exists, please login instead", ErrAdminExists)
	}
	nameTaken, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if nameTaken {
		return nil, fmt.Errorf("%w: username already exists", ErrAdminExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.AdminUser{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateAdmin) {
			return nil, fmt.Errorf("%w: username or email already registered", ErrAdminExists)
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}

	metrics.RecordAuthAttempt("register", "success")
	s.log.Info().Str("username", user.Username).Msg("Admin registered")

	return s.tokenFor(user)
}

// Login verifies username and password and issues a token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		metrics.RecordAuthAttempt("login", "failure")
		s.log.Warn().Str("username", req.Username).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}

	metrics.RecordAuthAttempt("login", "success")
	return s.tokenFor(user)
}

// Authenticate resolves a bearer token to the admin it was issued for
func (s *authService) Authenticate(ctx context.Context, token string) (*models.AdminUser, error) {
	username, err := s.verifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

// ChangePassword rotates the password of an authenticated admin
func (s *authService) ChangePassword(ctx context.Context, user *models.AdminUser, req *models.ChangePasswordRequest) error {
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		metrics.RecordAuthAttempt("change_password", "failure")
		return ErrWrongPassword
	}
	if err := validation.AsError(validation.ValidatePassword("new_password", req.NewPassword)); err != nil {
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if req.NewPassword == req.CurrentPassword {
		return ErrPasswordUnchanged
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = string(hash)

	metrics.RecordAuthAttempt("change_password", "success")
	s.log.Info().Str("username", user.Username).Msg("Admin password changed")
	return nil
}

func (s *authService) tokenFor(user *models.AdminUser) (*models.TokenResponse, error) {
	token, err := s.issueToken(user.Username)
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		UserInfo:    user.Info(),
	}, nil
}

func (s *authService) issueToken(username string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	})

	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// verifyToken returns the subject of a valid, unexpired HS256 token
func (s *authService) verifyToken(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
