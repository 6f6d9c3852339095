package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/middleware"
	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/store"
	"github.com/suteetoe/helpdesk/pkg/logger"
	"github.com/suteetoe/helpdesk/prometheus"
)

// TenantHandler covers tenant administration. Creation, update and deletion
// are reserved to master users; regular users can only read their own tenant.
type TenantHandler struct {
	tenants *store.TenantStore
	users   *store.UserStore
}

func NewTenantHandler(tenants *store.TenantStore, users *store.UserStore) *TenantHandler {
	return &TenantHandler{tenants: tenants, users: users}
}

func requireMaster(c echo.Context) bool {
	return middleware.Role(c) == string(model.RoleMaster)
}

// Create handles POST /api/tenants
func (h *TenantHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordDomainOperation("tenants", "create")

	if !requireMaster(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "master role required"})
	}

	var req struct {
		Name      string  `json:"name"`
		Subdomain *string `json:"subdomain,omitempty"`
		Status    string  `json:"status,omitempty"`
		Settings  *string `json:"settings,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	status := model.TenantActive
	if req.Status != "" {
		status = model.TenantStatus(req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status, must be 'active', 'inactive' or 'suspended'"})
		}
	}

	tenant := &model.Tenant{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Status:    status,
		Settings:  req.Settings,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.tenants.Create(c.Request().Context(), tenant); err != nil {
		return respondError(c, err)
	}

	log.Info("tenant created", zap.String("tenant_id", tenant.ID.String()), zap.String("name", tenant.Name))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Tenant created successfully",
		"tenant":  tenant,
	})
}

// List handles GET /api/tenants (master only; everyone else sees one tenant)
func (h *TenantHandler) List(c echo.Context) error {
	if !requireMaster(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "master role required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenants, err := h.tenants.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tenants": tenants})
}

// Get handles GET /api/tenants/:id. Non-master users can only read the
// tenant their token is bound to.
func (h *TenantHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	if !requireMaster(c) {
		tenantID, err := middleware.TenantID(c)
		if err != nil || tenantID != id {
			return respondError(c, store.ErrNotFound)
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := h.tenants.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tenant": tenant})
}

// Update handles PATCH /api/tenants/:id
func (h *TenantHandler) Update(c echo.Context) error {
	prometheus.RecordDomainOperation("tenants", "update")

	if !requireMaster(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "master role required"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	tenant, err := h.tenants.FindByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Name      *string `json:"name,omitempty"`
		Subdomain *string `json:"subdomain,omitempty"`
		Status    *string `json:"status,omitempty"`
		Settings  *string `json:"settings,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name != nil {
		tenant.Name = *req.Name
	}
	if req.Subdomain != nil {
		tenant.Subdomain = req.Subdomain
	}
	if req.Status != nil {
		status := model.TenantStatus(*req.Status)
		if !status.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status, must be 'active', 'inactive' or 'suspended'"})
		}
		tenant.Status = status
	}
	if req.Settings != nil {
		tenant.Settings = req.Settings
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.tenants.Save(c.Request().Context(), tenant); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"tenant": tenant})
}

// Delete handles DELETE /api/tenants/:id. Deletion is restricted while users
// still reference the tenant.
func (h *TenantHandler) Delete(c echo.Context) error {
	prometheus.RecordDomainOperation("tenants", "delete")

	if !requireMaster(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "master role required"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	count, err := h.users.CountByTenant(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if count > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant still has users"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.tenants.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Tenant deleted successfully"})
}
