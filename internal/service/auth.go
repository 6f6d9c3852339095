package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/store"
)

// ErrInvalidCredentials is returned by Login for a wrong password and for an
// unknown email alike. The message deliberately does not say which half of
// the credential pair was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailRegistered is returned by Signup when the email already exists
// within the tenant.
var ErrEmailRegistered = errors.New("email already registered")

// UserStore is the slice of the user store the identity core depends on.
type UserStore interface {
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, tenantID uuid.UUID, role *model.Role) ([]model.User, error)
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TenantStore is the slice of the tenant store the identity core depends on.
type TenantStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenIssuer signs session tokens carrying the user's tenant binding.
type TokenIssuer interface {
	GenerateToken(user *model.User) (string, error)
}

// AuthService orchestrates the credential lifecycle: signup, credential
// verification and token issuance. It owns no state of its own.
type AuthService struct {
	users   UserStore
	tenants TenantStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	log     *zap.Logger
}

func NewAuthService(users UserStore, tenants TenantStore, hasher PasswordHasher, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{
		users:   users,
		tenants: tenants,
		hasher:  hasher,
		tokens:  tokens,
		log:     log,
	}
}

// SignupInput is the validated signup request. Role defaults to RoleUser when
// empty; the handler rejects unknown role strings before this point.
type SignupInput struct {
	TenantID uuid.UUID
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// Signup registers a new user under a tenant and returns the safe projection.
// The (tenant, email) existence check is advisory; the database unique index
// is what actually decides a concurrent race, so a lost race comes back from
// Create as a conflict and is reported identically.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.SafeUser, error) {
	if _, err := s.tenants.FindByID(ctx, in.TenantID); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, in.TenantID, in.Email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, store.ErrNotFound) {
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

	user := &model.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Role:     role,
		IsActive: true,
		TenantID: in.TenantID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailRegistered
		}
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()),
	)

	safe := user.Safe()
	return &safe, nil
}

// Authenticate verifies a credential pair within a tenant. It returns
// (nil, nil) both when the email is unknown and when the password is wrong,
// so callers cannot tell the two apart. An inactive user never authenticates.
func (s *AuthService) Authenticate(ctx context.Context, tenantID uuid.UUID, email, password string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, nil
	}

	if !s.hasher.Check(password, user.Password) {
		return nil, nil
	}

	return user, nil
}

// LoginResult carries the issued token and the safe projection of the user.
type LoginResult struct {
	Token string
	User  model.SafeUser
}

// Login authenticates a credential pair and issues a session token bound to
// the user's tenant.
func (s *AuthService) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, tenantID, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()),
	)

	return &LoginResult{Token: token, User: user.Safe()}, nil
}
