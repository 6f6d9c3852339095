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

type DepartmentHandler struct {
	departments *store.DepartmentStore
	articles    *store.ArticleStore
}

func NewDepartmentHandler(departments *store.DepartmentStore, articles *store.ArticleStore) *DepartmentHandler {
	return &DepartmentHandler{departments: departments, articles: articles}
}

func (h *DepartmentHandler) resolveTenantDepartment(c echo.Context) (*model.Department, error) {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, store.ErrNotFound
	}

	department, err := h.departments.FindByID(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if department.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return department, nil
}

// List handles GET /api/departments
func (h *DepartmentHandler) List(c echo.Context) error {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	departments, err := h.departments.List(c.Request().Context(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"departments": departments})
}

// Get handles GET /api/departments/:id
func (h *DepartmentHandler) Get(c echo.Context) error {
	department, err := h.resolveTenantDepartment(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"department": department})
}

// Create handles POST /api/departments
func (h *DepartmentHandler) Create(c echo.Context) error {
	prometheus.RecordDomainOperation("departments", "create")

	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req struct {
		Name       string `json:"name"`
		CostCenter string `json:"cost_center,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	department := &model.Department{
		Name:       req.Name,
		CostCenter: req.CostCenter,
		TenantID:   tenantID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.departments.Create(c.Request().Context(), department); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "Department created successfully",
		"department": department,
	})
}

// Update handles PATCH /api/departments/:id
func (h *DepartmentHandler) Update(c echo.Context) error {
	prometheus.RecordDomainOperation("departments", "update")

	department, err := h.resolveTenantDepartment(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Name       *string `json:"name,omitempty"`
		CostCenter *string `json:"cost_center,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		department.Name = *req.Name
	}
	if req.CostCenter != nil {
		department.CostCenter = *req.CostCenter
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.departments.Save(c.Request().Context(), department); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"department": department})
}

// Delete handles DELETE /api/departments/:id
func (h *DepartmentHandler) Delete(c echo.Context) error {
	prometheus.RecordDomainOperation("departments", "delete")

	department, err := h.resolveTenantDepartment(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.departments.Delete(c.Request().Context(), department.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Department deleted successfully"})
}

// ListArticles handles GET /api/departments/:id/articles
func (h *DepartmentHandler) ListArticles(c echo.Context) error {
	department, err := h.resolveTenantDepartment(c)
	if err != nil {
		return respondError(c, err)
	}

	articles, err := h.departments.ListArticles(c.Request().Context(), department.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"articles": articles})
}

// AttachArticle handles POST /api/departments/:id/articles
func (h *DepartmentHandler) AttachArticle(c echo.Context) error {
	prometheus.RecordDomainOperation("departments", "attach_article")

	department, err := h.resolveTenantDepartment(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		ArticleID string `json:"article_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article_id"})
	}

	article, err := h.articles.FindByID(c.Request().Context(), articleID)
	if err != nil {
		return respondError(c, err)
	}
	if article.TenantID != department.TenantID {
		return respondError(c, store.ErrNotFound)
	}

	if err := h.departments.AttachArticle(c.Request().Context(), department.ID, articleID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Article attached to department"})
}

// DetachArticle handles DELETE /api/departments/:id/articles/:article_id
func (h *DepartmentHandler) DetachArticle(c echo.Context) error {
	prometheus.RecordDomainOperation("departments", "detach_article")

	department, err := h.resolveTenantDepartment(c)
	if err != nil {
		return respondError(c, err)
	}

	articleID, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid article_id"})
	}

	if err := h.departments.DetachArticle(c.Request().Context(), department.ID, articleID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Article detached from department"})
}
