package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is a tenant-scoped organizational unit.
type Department struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	CostCenter string    `json:"cost_center,omitempty" gorm:"type:varchar(255)"`
	TenantID   uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	Tenant     *Tenant   `json:"tenant,omitempty" gorm:"foreignKey:TenantID;constraint:OnDelete:RESTRICT"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// UserDepartment links a user to a department within the same tenant.
type UserDepartment struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_departments"`
	DepartmentID uuid.UUID `json:"department_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_departments"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ud *UserDepartment) BeforeCreate(tx *gorm.DB) error {
	if ud.ID == uuid.Nil {
		ud.ID = uuid.New()
	}
	return nil
}

// DepartmentArticle links a knowledge article to a department.
type DepartmentArticle struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DepartmentID uuid.UUID `json:"department_id" gorm:"type:uuid;not null;uniqueIndex:idx_department_articles"`
	ArticleID    uuid.UUID `json:"article_id" gorm:"type:uuid;not null;uniqueIndex:idx_department_articles"`
	CreatedAt    time.Time `json:"created_at"`
}

func (da *DepartmentArticle) BeforeCreate(tx *gorm.DB) error {
	if da.ID == uuid.Nil {
		da.ID = uuid.New()
	}
	return nil
}
