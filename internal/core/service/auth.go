package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmdirect/backend/internal/core/domain/entity"
	"github.com/farmdirect/backend/internal/core/ports"
	"github.com/farmdirect/backend/internal/pkg/token"
)

// AuthService registers accounts and exchanges credentials for bearer tokens.
type AuthService struct {
	users  ports.UserRepository
	tokens *token.Manager
}

func NewAuthService(users ports.UserRepository, tokens *token.Manager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegisterInput carries the fields shared by consumer and farmer signup.
// The farm fields apply to farmers only.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string

	Owner     string
	Address   string
	Latitude  float64
	Longitude float64
	Badges    []string
}

// RegisterConsumer creates a consumer account. Duplicate email or phone
// surfaces as ports.ErrConflict.
func (s *AuthService) RegisterConsumer(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.register(ctx, entity.RoleConsumer, in)
}

// RegisterFarmer creates a farmer account with its farm profile.
func (s *AuthService) RegisterFarmer(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.register(ctx, entity.RoleFarmer, in)
}

func (s *AuthService) register(ctx context.Context, role entity.Role, in RegisterInput) (*entity.User, error) {
	if in.Name == "" || in.Email == "" || in.Phone == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	u := &entity.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         role,
		Owner:        in.Owner,
		Address:      in.Address,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Badges:       in.Badges,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the credentials against the given role's accounts and returns
// a signed token plus the account. A valid password on the wrong role's
// login endpoint is rejected the same way as a wrong password.
func (s *AuthService) Login(ctx context.Context, role entity.Role, email, password string) (string, *entity.User, error) {
	u, err := s.users.ByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if u.Role != role {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	t, err := s.tokens.Issue(entity.Principal{ID: u.ID, Role: u.Role})
	if err != nil {
		return "", nil, err
	}
	return t, u, nil
}

// SeedAdmin creates the admin account from configuration if it does not
// exist yet. Safe to call on every startup.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, ports.ErrNotFound) {
		return err
	}

	_, err := s.register(ctx, entity.RoleAdmin, RegisterInput{
		Name:     "Administrator",
		Email:    email,
		Phone:    "admin:" + email,
		Password: password,
	})
	return err
}
