package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/homelist/homelist-api/internal/metrics"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/repository"
	"github.com/homelist/homelist-api/internal/utils"
)

// UserStore is the persistence AuthService and the access guard need.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SignupInput carries the registration form.  ProductKey is only read for
// privileged roles.
type SignupInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	ProductKey string
}

// AuthService registers users, signs them in and mints product keys.
type AuthService struct {
	users      UserStore
	tokens     *utils.SessionTokens
	keySecret  string
	bcryptCost int
	metrics    metrics.Recorder
}

// NewAuthService wires an AuthService.  A nil recorder disables metrics.
func NewAuthService(users UserStore, tokens *utils.SessionTokens, productKeySecret string, bcryptCost int, rec metrics.Recorder) *AuthService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		keySecret:  productKeySecret,
		bcryptCost: bcryptCost,
		metrics:    rec,
	}
}

// Signup creates an account with role and returns a session token for it.
// REALTOR and ADMIN accounts need a product key minted for the same email
// and role.
func (s *AuthService) Signup(ctx context.Context, in SignupInput, role model.Role) (string, error) {
	if role.Privileged() {
		if in.ProductKey == "" {
			return "", ErrProductKeyRequired
		}
		if !utils.VerifyProductKey(s.keySecret, in.ProductKey, in.Email, role) {
			return "", ErrProductKeyMismatch
		}
	}

	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return "", ErrUserExists
	case !errors.Is(err, repository.ErrNotFound):
		return "", fmt.Errorf("lookup email: %w", err)
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return "", err
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// a concurrent signup won the unique index
		if errors.Is(err, repository.ErrEmailExists) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	s.metrics.RecordSignup(string(role))

	token, _, err := s.tokens.Issue(u.Name, u.ID)
	return token, err
}

// Signin checks the credentials and returns a fresh session token.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidEmail
	}
	if err != nil {
		return "", fmt.Errorf("lookup email: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return "", ErrIncorrectPassword
	}
	token, _, err := s.tokens.Issue(u.Name, u.ID)
	return token, err
}

// GenerateProductKey mints the key that lets email sign up as role.
func (s *AuthService) GenerateProductKey(email string, role model.Role) (string, error) {
	return utils.DeriveProductKey(s.keySecret, email, role, s.bcryptCost)
}
