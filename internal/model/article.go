package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleStatus is the publication state of a knowledge article.
type ArticleStatus string

const (
	ArticleDraft     ArticleStatus = "draft"
	ArticlePublished ArticleStatus = "published"
	ArticleArchived  ArticleStatus = "archived"
)

// Valid reports whether the status is one of the enumerated values.
func (s ArticleStatus) Valid() bool {
	switch s {
	case ArticleDraft, ArticlePublished, ArticleArchived:
		return true
	}
	return false
}

// Category groups knowledge articles within a tenant.
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	TenantID    uuid.UUID `json:"tenant_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Article is a tenant-scoped knowledge base entry.
type Article struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Title            string        `json:"title" gorm:"type:varchar(255);not null"`
	Content          string        `json:"content" gorm:"type:text;not null"`
	AuthorID         *uuid.UUID    `json:"author_id,omitempty" gorm:"type:uuid;index"`
	CategoryID       *uuid.UUID    `json:"category_id,omitempty" gorm:"type:uuid;index"`
	Status           ArticleStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`
	TenantID         uuid.UUID     `json:"tenant_id" gorm:"type:uuid;not null;index"`
	PublicationDate  *time.Time    `json:"publication_date,omitempty"`
	LastReviewedDate *time.Time    `json:"last_reviewed_date,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ArticleDraft
	}
	return nil
}
