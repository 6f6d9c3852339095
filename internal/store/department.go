package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/suteetoe/helpdesk/internal/model"
)

type DepartmentStore struct {
	db *gorm.DB
}

func NewDepartmentStore(db *gorm.DB) *DepartmentStore {
	return &DepartmentStore{db: db}
}

func (s *DepartmentStore) Create(ctx context.Context, department *model.Department) error {
	return translate(s.db.WithContext(ctx).Create(department).Error)
}

func (s *DepartmentStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var department model.Department
	if err := s.db.WithContext(ctx).Preload("Tenant").First(&department, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &department, nil
}

func (s *DepartmentStore) List(ctx context.Context, tenantID uuid.UUID) ([]model.Department, error) {
	var departments []model.Department
	err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&departments).Error
	if err != nil {
		return nil, translate(err)
	}
	return departments, nil
}

func (s *DepartmentStore) Save(ctx context.Context, department *model.Department) error {
	return translate(s.db.WithContext(ctx).Save(department).Error)
}

func (s *DepartmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&model.Department{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignUser links a user to a department. Returns ErrConflict when the link
// already exists.
func (s *DepartmentStore) AssignUser(ctx context.Context, userID, departmentID uuid.UUID) error {
	link := model.UserDepartment{UserID: userID, DepartmentID: departmentID}
	return translate(s.db.WithContext(ctx).Create(&link).Error)
}

// UnassignUser removes a user-department link.
func (s *DepartmentStore) UnassignUser(ctx context.Context, userID, departmentID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND department_id = ?", userID, departmentID).
		Delete(&model.UserDepartment{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser returns the departments a user is assigned to.
func (s *DepartmentStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Department, error) {
	var departments []model.Department
	err := s.db.WithContext(ctx).
		Joins("JOIN user_departments ON user_departments.department_id = departments.id").
		Where("user_departments.user_id = ?", userID).
		Order("departments.name ASC").
		Find(&departments).Error
	if err != nil {
		return nil, translate(err)
	}
	return departments, nil
}

// AttachArticle links an article to a department.
func (s *DepartmentStore) AttachArticle(ctx context.Context, departmentID, articleID uuid.UUID) error {
	link := model.DepartmentArticle{DepartmentID: departmentID, ArticleID: articleID}
	return translate(s.db.WithContext(ctx).Create(&link).Error)
}

// DetachArticle removes a department-article link.
func (s *DepartmentStore) DetachArticle(ctx context.Context, departmentID, articleID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("department_id = ? AND article_id = ?", departmentID, articleID).
		Delete(&model.DepartmentArticle{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListArticles returns the articles attached to a department.
func (s *DepartmentStore) ListArticles(ctx context.Context, departmentID uuid.UUID) ([]model.Article, error) {
	var articles []model.Article
	err := s.db.WithContext(ctx).
		Joins("JOIN department_articles ON department_articles.article_id = articles.id").
		Where("department_articles.department_id = ?", departmentID).
		Order("articles.title ASC").
		Find(&articles).Error
	if err != nil {
		return nil, translate(err)
	}
	return articles, nil
}
