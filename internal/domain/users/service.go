package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-care-management/internal/authz"
	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"
	"pet-care-management/internal/platform/patch"
	"pet-care-management/internal/platform/validate"
	"pet-care-management/internal/ports/auth"
)

const msgNotFound = "user not found"

type Service struct {
	repo   Repository
	hasher auth.PasswordHasher
	now    func() time.Time
}

func NewService(repo Repository, hasher auth.PasswordHasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

type CreateInput struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Password string  `json:"password" validate:"required,min=6,max=100"`
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	RealName *string `json:"real_name" validate:"omitempty,max=50"`
	// Role vacío => owner.
	Role authz.Role `json:"role"`
}

// Create valida unicidad de username (también entre usuarios eliminados, vía
// constraint) y guarda el hash, nunca el password.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := validate.Struct(in); err != nil {
		return User{}, err
	}
	if in.Role == "" {
		in.Role = authz.RoleOwner
	}
	if !in.Role.Valid() {
		return User{}, apperr.Validation("role must be one of admin, staff, owner")
	}

	if _, err := s.repo.GetByUsername(ctx, in.Username); err == nil {
		return User{}, apperr.Conflict("username already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, apperr.Storage(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        trimmed(in.Email),
		Phone:        trimmed(in.Phone),
		RealName:     trimmed(in.RealName),
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return User{}, apperr.Conflict("username already exists")
		}
		return User{}, apperr.Storage(err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, apperr.FromRepo(err, msgNotFound)
	}
	return u, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return User{}, apperr.FromRepo(err, msgNotFound)
	}
	return u, nil
}

// Lookup implementa middleware.UserLookup.
func (s *Service) Lookup(ctx context.Context, id int64) (authz.Caller, bool, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return authz.Caller{}, false, err
	}
	return authz.Caller{ID: u.ID, Role: u.Role}, u.IsActive, nil
}

// RequireStaff verifica que id sea un usuario admin o staff (veterinario,
// cuidador, asignado de orden).
func (s *Service) RequireStaff(ctx context.Context, id int64, field string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation(field + " must reference an existing user")
		}
		return apperr.Storage(err)
	}
	if !u.Role.AtLeast(authz.RoleStaff) {
		return apperr.Validation(field + " must reference a staff user")
	}
	return nil
}

func (s *Service) List(ctx context.Context, f ListFilter, p pagination.Params) ([]User, int64, error) {
	f.Username = strings.TrimSpace(f.Username)
	if f.Role != "" && !f.Role.Valid() {
		return nil, 0, apperr.Validation("role must be one of admin, staff, owner")
	}
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	return items, total, nil
}

type UpdateInput struct {
	Email    patch.Field[string]
	Phone    patch.Field[string]
	RealName patch.Field[string]
	Avatar   patch.Field[string]
	// IsActive requiere ActionManage (admin); lo verifica el handler.
	IsActive patch.Field[bool]
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Email.HasValue() && strings.TrimSpace(in.Email.Value) != "" {
		if err := validate.Var("email", in.Email.Value, "email,max=100"); err != nil {
			return User{}, err
		}
	}
	if in.Phone.HasValue() {
		if err := validate.Var("phone", in.Phone.Value, "max=20"); err != nil {
			return User{}, err
		}
	}
	if in.RealName.HasValue() {
		if err := validate.Var("real_name", in.RealName.Value, "max=50"); err != nil {
			return User{}, err
		}
	}
	if in.Avatar.HasValue() {
		if err := validate.Var("avatar", in.Avatar.Value, "max=255"); err != nil {
			return User{}, err
		}
	}
	if in.IsActive.Set && in.IsActive.Null {
		return User{}, apperr.Validation("is_active cannot be null")
	}

	in.Email.ApplyNullable(&u.Email)
	in.Phone.ApplyNullable(&u.Phone)
	in.RealName.ApplyNullable(&u.RealName)
	in.Avatar.ApplyNullable(&u.Avatar)
	in.IsActive.Apply(&u.IsActive)
	u.Email = trimmed(u.Email)
	u.Phone = trimmed(u.Phone)
	u.RealName = trimmed(u.RealName)
	u.Avatar = trimmed(u.Avatar)
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, apperr.FromRepo(err, msgNotFound)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.SoftDelete(ctx, id, s.now())
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return apperr.NotFound(msgNotFound)
	}
	return nil
}

// EnsureAdmin crea el admin inicial si el username no existe.
// Devuelve created=false si ya existía.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (User, bool, error) {
	existing, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, false, apperr.Storage(err)
	}

	u, err := s.Create(ctx, CreateInput{
		Username: username,
		Password: password,
		Role:     authz.RoleAdmin,
	})
	if err != nil {
		return User{}, false, err
	}
	return u, true, nil
}

// trimmed normaliza strings opcionales: vacío => nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
