package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type authService struct {
	users  ports.UserRepository
	cfg    config.AuthConfig
	logger *logger.Logger
}

func NewAuthService(users ports.UserRepository, cfg config.AuthConfig, log *logger.Logger) ports.AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &authService{users: users, cfg: cfg, logger: log}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warnw("auth_login_unknown_user", "username", username)
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warnw("auth_login_bad_password", "username", username)
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":   user.Username,
		"admin": user.IsAdmin,
		"exp":   time.Now().Add(s.cfg.TokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Infow("auth_login_ok", "username", username)
	return signed, nil
}

// ValidateToken returns the principal (username) carried by a valid token.
func (s *authService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

// EnsureAdminUser seeds the configured admin account when it does not exist
// yet. Called once at startup.
func EnsureAdminUser(ctx context.Context, users ports.UserRepository, cfg config.AuthConfig, log *logger.Logger) error {
	if cfg.AdminUser == "" || cfg.AdminPassword == "" {
		log.Warn("admin user not configured, skipping seed")
		return nil
	}

	if _, err := users.GetByUsername(ctx, cfg.AdminUser); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	if err := users.Create(ctx, &domain.User{
		Username:     cfg.AdminUser,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}); err != nil {
		return err
	}
	log.Infow("admin_user_seeded", "username", cfg.AdminUser)
	return nil
}
