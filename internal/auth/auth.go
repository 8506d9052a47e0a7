// Package auth checks the single admin login and issues the bearer tokens
// that guard the back office.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"minimart/internal/models"
	"minimart/internal/store"
)

const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// FieldError is a rejected credential form field. Nothing is stored when it
// is returned.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Service struct {
	creds           store.Credentials
	secret          []byte
	ttl             time.Duration
	defaultUsername string
	defaultPassword string
	cost            int
	now             func() time.Time
}

func NewService(creds store.Credentials, secret string, ttl time.Duration, defaultUsername, defaultPassword string) *Service {
	return &Service{
		creds:           creds,
		secret:          []byte(secret),
		ttl:             ttl,
		defaultUsername: defaultUsername,
		defaultPassword: defaultPassword,
		cost:            bcrypt.DefaultCost,
		now:             time.Now,
	}
}

// Login verifies username and password and returns a signed token. When no
// credential document exists yet the configured defaults are accepted once
// and stored, so the first login seeds the account.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	creds, err := s.creds.GetCredentials(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if username != s.defaultUsername || password != s.defaultPassword {
			return "", ErrInvalidCredentials
		}
		if creds, err = s.store(ctx, username, password); err != nil {
			return "", err
		}
		log.Printf("[AUTH] [INFO] seeded admin credentials for %q", username)
	case err != nil:
		log.Printf("[AUTH] [ERROR] load credentials failed: %v", err)
		return "", err
	default:
		if creds.Username != username {
			return "", ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
			return "", ErrInvalidCredentials
		}
	}

	return s.issue(creds.Username)
}

// UpdateCredentials replaces the admin username and password. The form is
// validated before anything is read, and current must match the stored
// password (or the defaults when nothing is stored yet).
func (s *Service) UpdateCredentials(ctx context.Context, current, newUsername, newPassword, confirm string) (models.AdminCredentials, error) {
	newUsername = strings.TrimSpace(newUsername)
	switch {
	case current == "":
		return models.AdminCredentials{}, FieldError{Field: "currentPassword", Message: "current password is required"}
	case newUsername == "":
		return models.AdminCredentials{}, FieldError{Field: "username", Message: "username is required"}
	case strings.TrimSpace(newPassword) == "":
		return models.AdminCredentials{}, FieldError{Field: "newPassword", Message: "new password is required"}
	case newPassword != confirm:
		return models.AdminCredentials{}, FieldError{Field: "confirmPassword", Message: "passwords do not match"}
	}

	existing, err := s.creds.GetCredentials(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if current != s.defaultPassword {
			return models.AdminCredentials{}, ErrInvalidCredentials
		}
	case err != nil:
		return models.AdminCredentials{}, err
	default:
		if err := bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(current)); err != nil {
			return models.AdminCredentials{}, ErrInvalidCredentials
		}
	}

	updated, err := s.store(ctx, newUsername, newPassword)
	if err != nil {
		return models.AdminCredentials{}, err
	}
	log.Printf("[AUTH] [INFO] admin credentials updated for %q", newUsername)
	return updated, nil
}

// ParseToken validates a bearer token and returns its subject. Only HMAC
// tokens carrying the admin role are accepted.
func (s *Service) ParseToken(raw string) (string, error) {
	return ParseToken(string(s.secret), raw)
}

func ParseToken(secret, raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if role, _ := claims["role"].(string); role != RoleAdmin {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

func (s *Service) issue(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": RoleAdmin,
		"exp":  s.now().Add(s.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Service) store(ctx context.Context, username, password string) (models.AdminCredentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.AdminCredentials{}, fmt.Errorf("hash password: %w", err)
	}
	creds := models.AdminCredentials{
		Username:     username,
		PasswordHash: string(hash),
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.creds.PutCredentials(ctx, creds); err != nil {
		log.Printf("[AUTH] [ERROR] store credentials failed: %v", err)
		return models.AdminCredentials{}, err
	}
	return creds, nil
}
