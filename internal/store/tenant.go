package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/helpdesk/internal/model"
)

type TenantStore struct {
	db *gorm.DB
}

func NewTenantStore(db *gorm.DB) *TenantStore {
	return &TenantStore{db: db}
}

// Create inserts a new tenant. Returns ErrConflict when the subdomain is
// already taken (subdomains are globally unique, unlike emails).
func (s *TenantStore) Create(ctx context.Context, tenant *model.Tenant) error {
	return translate(s.db.WithContext(ctx).Create(tenant).Error)
}

func (s *TenantStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &tenant, nil
}

func (s *TenantStore) List(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&tenants).Error; err != nil {
		return nil, translate(err)
	}
	return tenants, nil
}

func (s *TenantStore) Save(ctx context.Context, tenant *model.Tenant) error {
	return translate(s.db.WithContext(ctx).Save(tenant).Error)
}

// Delete removes a tenant. Deletion is restricted while users still reference
// the tenant; the caller checks first, and the RESTRICT foreign key backs the
// check up against races.
func (s *TenantStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&model.Tenant{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
