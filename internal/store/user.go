package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/helpdesk/internal/model"
)

// UserStore owns persisted user records. It performs no hashing and no token
// work; it only guarantees durable state and (tenant_id, email) uniqueness.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail looks a user up by email within a single tenant. Lookups on
// authentication paths must always be tenant-scoped; the same email may exist
// under other tenants.
func (s *UserStore) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Create inserts a new user. Returns ErrConflict when a user with the same
// (tenant_id, email) already exists.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

// FindByID returns the user with the given id, including its tenant.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Preload("Tenant").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns the users of a tenant, optionally filtered by role, ordered by
// creation time.
func (s *UserStore) List(ctx context.Context, tenantID uuid.UUID, role *model.Role) ([]model.User, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if role != nil {
		q = q.Where("role = ?", *role)
	}

	var users []model.User
	if err := q.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// Save persists mutations to an existing user.
func (s *UserStore) Save(ctx context.Context, user *model.User) error {
	return translate(s.db.WithContext(ctx).Save(user).Error)
}

// Delete removes the user with the given id. Returns ErrNotFound when no such
// user exists.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByTenant reports how many users reference a tenant. Used to restrict
// tenant deletion.
func (s *UserStore) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("tenant_id = ?", tenantID).Count(&count).Error
	if err != nil {
		return 0, translate(err)
	}
	return count, nil
}
