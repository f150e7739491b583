package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/luisfernandomp/ApiDataDriven/internal/hash"
	"github.com/luisfernandomp/ApiDataDriven/internal/logging"
	"github.com/luisfernandomp/ApiDataDriven/internal/models"
	"github.com/luisfernandomp/ApiDataDriven/internal/repo"
	"github.com/luisfernandomp/ApiDataDriven/internal/tokens"
)

// DefaultRole is assigned to every registered user regardless of what the
// client sent.
const DefaultRole = "employee"

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	Publisher EventPublisher
}

func validateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         DefaultRole,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if err := validateCredentials(username, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		l.Error("login_error", "reason", "user lookup failed", "error", err)
		return nil, "", err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := tokens.Sign(user.ID, user.Role, s.JWTSecret)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return nil, "", err
	}

	publish(ctx, s.Publisher, TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return user, token, nil
}
