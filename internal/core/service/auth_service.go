package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/formforge/forms-api/internal/core/domain"
	"github.com/formforge/forms-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	minNameLength     = 2
)

// AuthService implements registration and login.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenIssuer
	validate *validator.Validate
	cost     int
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
	}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", nil, &domain.ValidationError{Field: "email", Message: "please enter a valid email"}
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", nil, &domain.ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", minPasswordLength)}
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return "", nil, &domain.ValidationError{Field: "name", Message: fmt.Sprintf("name must be at least %d characters", minNameLength)}
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return "", nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created.ID, created.Email)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// Login checks the credentials. An unknown email and a wrong password fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, &domain.ValidationError{Message: "email and password are required"}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ ports.AuthService = (*AuthService)(nil)
