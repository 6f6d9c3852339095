package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/helpdesk/internal/model"
)

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, category *model.Category) error {
	return translate(s.db.WithContext(ctx).Create(category).Error)
}

func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (s *CategoryStore) List(ctx context.Context, tenantID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, translate(err)
	}
	return categories, nil
}

func (s *CategoryStore) Save(ctx context.Context, category *model.Category) error {
	return translate(s.db.WithContext(ctx).Save(category).Error)
}

func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type ArticleStore struct {
	db *gorm.DB
}

func NewArticleStore(db *gorm.DB) *ArticleStore {
	return &ArticleStore{db: db}
}

func (s *ArticleStore) Create(ctx context.Context, article *model.Article) error {
	return translate(s.db.WithContext(ctx).Create(article).Error)
}

func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	var article model.Article
	if err := s.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

// List returns a tenant's articles, optionally filtered by status or category.
func (s *ArticleStore) List(ctx context.Context, tenantID uuid.UUID, status *model.ArticleStatus, categoryID *uuid.UUID) ([]model.Article, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var articles []model.Article
	if err := q.Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, translate(err)
	}
	return articles, nil
}

func (s *ArticleStore) Save(ctx context.Context, article *model.Article) error {
	return translate(s.db.WithContext(ctx).Save(article).Error)
}

func (s *ArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&model.Article{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
