package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/store"
)

// UserService covers the administrative user surface: listing, provisioning,
// profile updates, password changes and removal. It shares the uniqueness
// rules of signup but may set role and active flag explicitly.
type UserService struct {
	users   UserStore
	tenants TenantStore
	hasher  PasswordHasher
	log     *zap.Logger
}

func NewUserService(users UserStore, tenants TenantStore, hasher PasswordHasher, log *zap.Logger) *UserService {
	return &UserService{
		users:   users,
		tenants: tenants,
		hasher:  hasher,
		log:     log,
	}
}

// CreateUserInput is an administrative provisioning request.
type CreateUserInput struct {
	TenantID uuid.UUID
	Name     string
	Email    string
	Password string
	Role     model.Role
	IsActive *bool
}

// Create provisions a user. Unlike Signup it honors an explicit active flag,
// but the tenant-scoped email uniqueness rules are identical.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.SafeUser, error) {
	if _, err := s.tenants.FindByID(ctx, in.TenantID); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.RoleUser
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     role,
		IsActive: active,
		TenantID: in.TenantID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	safe := user.Safe()
	return &safe, nil
}

// List returns the safe projections of a tenant's users.
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, role *model.Role) ([]model.SafeUser, error) {
	users, err := s.users.List(ctx, tenantID, role)
	if err != nil {
		return nil, err
	}

	safe := make([]model.SafeUser, len(users))
	for i := range users {
		safe[i] = users[i].Safe()
	}
	return safe, nil
}

// Get returns the safe projection of one user.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.SafeUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	safe := user.Safe()
	return &safe, nil
}

// UpdateUserInput is an explicit partial update. Only the enumerated fields
// can change; the password hash and the tenant binding are not reachable
// through an update payload.
type UpdateUserInput struct {
	Name     *string
	Role     *model.Role
	IsActive *bool
}

// Update applies a field-by-field merge of the patch onto the user.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.SafeUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	safe := user.Safe()
	return &safe, nil
}

// ChangePassword replaces a user's password hash.
func (s *UserService) ChangePassword(ctx context.Context, id uuid.UUID, newPassword string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.log.Info("password changed", zap.String("user_id", id.String()))
	return nil
}

// Delete removes a user record. The owning tenant is untouched.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}
