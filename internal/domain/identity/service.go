// Package identity implementa registro, login y /me sobre users.
package identity

import (
	"context"
	"strings"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/metrics"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/logger"
	"pet-care-management/internal/platform/validate"
	"pet-care-management/internal/ports/auth"
)

// Users es lo que identity necesita del módulo de usuarios.
type Users interface {
	Create(ctx context.Context, in users.CreateInput) (users.User, error)
	GetByUsername(ctx context.Context, username string) (users.User, error)
	Get(ctx context.Context, id int64) (users.User, error)
}

type Service struct {
	users  Users
	hasher auth.PasswordHasher
	tokens auth.TokenIssuer
}

func NewService(u Users, hasher auth.PasswordHasher, tokens auth.TokenIssuer) *Service {
	return &Service{users: u, hasher: hasher, tokens: tokens}
}

type RegisterInput struct {
	Username        string  `json:"username" validate:"required,min=3,max=50"`
	Password        string  `json:"password" validate:"required,min=6,max=100"`
	ConfirmPassword string  `json:"confirm_password" validate:"required"`
	Email           *string `json:"email" validate:"omitempty,email,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,max=20"`
	RealName        *string `json:"real_name" validate:"omitempty,max=50"`
}

// Register crea siempre un owner; el rol lo asigna el admin después.
func (s *Service) Register(ctx context.Context, in RegisterInput) (users.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return users.User{}, err
	}
	if in.Password != in.ConfirmPassword {
		return users.User{}, apperr.Validation("passwords do not match")
	}

	return s.users.Create(ctx, users.CreateInput{
		Username: in.Username,
		Password: in.Password,
		Email:    in.Email,
		Phone:    in.Phone,
		RealName: in.RealName,
		Role:     authz.RoleOwner,
	})
}

type LoginResult struct {
	Token auth.Token
	User  users.User
}

// Login no distingue hacia afuera "usuario inexistente" de "password
// incorrecto"; la diferencia solo queda en el log de debug.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, apperr.Validation("username and password are required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			log.Debug("login rejected: unknown username", map[string]any{"username": username})
			metrics.ObserveLogin("invalid_credentials")
			return LoginResult{}, apperr.Unauthorized("invalid username or password")
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		log.Debug("login rejected: password mismatch", map[string]any{"user_id": u.ID})
		metrics.ObserveLogin("invalid_credentials")
		return LoginResult{}, apperr.Unauthorized("invalid username or password")
	}
	if !u.IsActive {
		metrics.ObserveLogin("disabled")
		return LoginResult{}, apperr.AccountDisabled("account is disabled")
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return LoginResult{}, err
	}
	metrics.ObserveLogin("success")
	return LoginResult{Token: tok, User: u}, nil
}

func (s *Service) Me(ctx context.Context, caller authz.Caller) (users.User, error) {
	return s.users.Get(ctx, caller.ID)
}
