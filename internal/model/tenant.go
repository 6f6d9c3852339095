package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantStatus is the lifecycle status of a tenant.
type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantInactive  TenantStatus = "inactive"
	TenantSuspended TenantStatus = "suspended"
)

// Valid reports whether the status is one of the enumerated values.
func (s TenantStatus) Valid() bool {
	switch s {
	case TenantActive, TenantInactive, TenantSuspended:
		return true
	}
	return false
}

// Tenant represents an isolated organizational boundary. Every other record
// in the system belongs to exactly one tenant.
type Tenant struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string       `json:"name" gorm:"type:varchar(255);not null"`
	Subdomain      *string      `json:"subdomain,omitempty" gorm:"type:varchar(255);uniqueIndex"`
	Status         TenantStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	ActivationDate time.Time    `json:"activation_date"`
	// Settings is nullable: a zero-value string is not valid jsonb, so an
	// unset value must reach the database as NULL, not ''.
	Settings       *string      `json:"settings,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TenantActive
	}
	if t.ActivationDate.IsZero() {
		t.ActivationDate = time.Now()
	}
	return nil
}
