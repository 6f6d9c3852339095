package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents one authenticatable principal. Emails are unique per
// tenant, not globally: the same address may exist under two tenants as two
// distinct users. The password hash never leaves this process; it is excluded
// from JSON and from the Safe projection.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	TenantID  uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;uniqueIndex:idx_users_tenant_email"`
	Tenant    *Tenant   `json:"tenant,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	// Emails are compared case-insensitively; normalize on write so the
	// composite unique index covers case variants too.
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

// SafeUser is the external projection of a user with all credential material
// removed. Every response path for a user must go through this type.
type SafeUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	IsActive bool      `json:"is_active"`
	TenantID uuid.UUID `json:"tenant_id"`
}

// Safe returns the password-free projection of the user.
func (u *User) Safe() SafeUser {
	return SafeUser{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
		TenantID: u.TenantID,
	}
}
