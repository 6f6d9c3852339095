package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/suteetoe/helpdesk/internal/middleware"
	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/store"
	"github.com/suteetoe/helpdesk/prometheus"
)

// KnowledgeHandler covers the knowledge base: categories and articles, both
// scoped to the caller's tenant.
type KnowledgeHandler struct {
	categories *store.CategoryStore
	articles   *store.ArticleStore
}

func NewKnowledgeHandler(categories *store.CategoryStore, articles *store.ArticleStore) *KnowledgeHandler {
	return &KnowledgeHandler{categories: categories, articles: articles}
}

// ListCategories handles GET /api/categories
func (h *KnowledgeHandler) ListCategories(c echo.Context) error {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	categories, err := h.categories.List(c.Request().Context(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

// GetCategory handles GET /api/categories/:id
func (h *KnowledgeHandler) GetCategory(c echo.Context) error {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, store.ErrNotFound)
	}

	category, err := h.categories.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if category.TenantID != tenantID {
		return respondError(c, store.ErrNotFound)
	}
	return c.JSON(http.StatusOK, echo.Map{"category": category})
}

// CreateCategory handles POST /api/categories
func (h *KnowledgeHandler) CreateCategory(c echo.Context) error {
	prometheus.RecordDomainOperation("categories", "create")

	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		TenantID:    tenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.categories.Create(c.Request().Context(), category); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory handles PATCH /api/categories/:id
func (h *KnowledgeHandler) UpdateCategory(c echo.Context) error {
	prometheus.RecordDomainOperation("categories", "update")

	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, store.ErrNotFound)
	}

	category, err := h.categories.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if category.TenantID != tenantID {
		return respondError(c, store.ErrNotFound)
	}

	var req struct {
		Name        *string `json:"name,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.categories.Save(c.Request().Context(), category); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"category": category})
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *KnowledgeHandler) DeleteCategory(c echo.Context) error {
	prometheus.RecordDomainOperation("categories", "delete")

	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, store.ErrNotFound)
	}

	category, err := h.categories.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if category.TenantID != tenantID {
		return respondError(c, store.ErrNotFound)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.categories.Delete(c.Request().Context(), category.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}

func (h *KnowledgeHandler) resolveTenantArticle(c echo.Context) (*model.Article, error) {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, store.ErrNotFound
	}

	article, err := h.articles.FindByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if article.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return article, nil
}

// ListArticles handles GET /api/articles?status=&category_id=
func (h *KnowledgeHandler) ListArticles(c echo.Context) error {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var statusFilter *model.ArticleStatus
	if statusParam := c.QueryParam("status"); statusParam != "" {
		status := model.ArticleStatus(statusParam)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status, must be 'draft', 'published' or 'archived'"})
		}
		statusFilter = &status
	}

	var categoryFilter *uuid.UUID
	if categoryParam := c.QueryParam("category_id"); categoryParam != "" {
		categoryID, err := uuid.Parse(categoryParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		categoryFilter = &categoryID
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	articles, err := h.articles.List(c.Request().Context(), tenantID, statusFilter, categoryFilter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"articles": articles})
}

// GetArticle handles GET /api/articles/:id
func (h *KnowledgeHandler) GetArticle(c echo.Context) error {
	article, err := h.resolveTenantArticle(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"article": article})
}

// CreateArticle handles POST /api/articles. The author is the authenticated
// user; the tenant comes from the token.
func (h *KnowledgeHandler) CreateArticle(c echo.Context) error {
	prometheus.RecordDomainOperation("articles", "create")

	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	authorID, err := middleware.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req struct {
		Title      string `json:"title"`
		Content    string `json:"content"`
		CategoryID string `json:"category_id,omitempty"`
		Status     string `json:"status,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	article := &model.Article{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: &authorID,
		TenantID: tenantID,
	}

	if req.Status != "" {
		status := model.ArticleStatus(req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status, must be 'draft', 'published' or 'archived'"})
		}
		article.Status = status
	}

	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		category, err := h.categories.FindByID(c.Request().Context(), categoryID)
		if err != nil {
			return respondError(c, err)
		}
		if category.TenantID != tenantID {
			return respondError(c, store.ErrNotFound)
		}
		article.CategoryID = &categoryID
	}

	if article.Status == model.ArticlePublished {
		now := time.Now()
		article.PublicationDate = &now
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.articles.Create(c.Request().Context(), article); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Article created successfully",
		"article": article,
	})
}

// UpdateArticle handles PATCH /api/articles/:id
func (h *KnowledgeHandler) UpdateArticle(c echo.Context) error {
	prometheus.RecordDomainOperation("articles", "update")

	article, err := h.resolveTenantArticle(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Title      *string `json:"title,omitempty"`
		Content    *string `json:"content,omitempty"`
		CategoryID *string `json:"category_id,omitempty"`
		Status     *string `json:"status,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title != nil {
		article.Title = *req.Title
	}
	if req.Content != nil {
		article.Content = *req.Content
		now := time.Now()
		article.LastReviewedDate = &now
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category_id"})
		}
		category, err := h.categories.FindByID(c.Request().Context(), categoryID)
		if err != nil {
			return respondError(c, err)
		}
		if category.TenantID != article.TenantID {
			return respondError(c, store.ErrNotFound)
		}
		article.CategoryID = &categoryID
	}
	if req.Status != nil {
		status := model.ArticleStatus(*req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status, must be 'draft', 'published' or 'archived'"})
		}
		if status == model.ArticlePublished && article.Status != model.ArticlePublished {
			now := time.Now()
			article.PublicationDate = &now
		}
		article.Status = status
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.articles.Save(c.Request().Context(), article); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"article": article})
}

// DeleteArticle handles DELETE /api/articles/:id
func (h *KnowledgeHandler) DeleteArticle(c echo.Context) error {
	prometheus.RecordDomainOperation("articles", "delete")

	article, err := h.resolveTenantArticle(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.articles.Delete(c.Request().Context(), article.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Article deleted successfully"})
}
