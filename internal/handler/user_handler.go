package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/suteetoe/helpdesk/internal/middleware"
	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/service"
	"github.com/suteetoe/helpdesk/internal/store"
	"github.com/suteetoe/helpdesk/prometheus"
)

// UserHandler exposes the administrative user surface. Every operation is
// scoped to the tenant resolved from the caller's token; a user id belonging
// to another tenant behaves exactly like an unknown id.
type UserHandler struct {
	users       *service.UserService
	departments *store.DepartmentStore
}

func NewUserHandler(users *service.UserService, departments *store.DepartmentStore) *UserHandler {
	return &UserHandler{users: users, departments: departments}
}

// resolveTenantUser loads a user by path id and verifies it belongs to the
// caller's tenant. Cross-tenant ids are reported as not found, not forbidden,
// so ids cannot be probed across tenants.
func (h *UserHandler) resolveTenantUser(c echo.Context) (*model.SafeUser, error) {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, store.ErrNotFound
	}

	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if user.TenantID != tenantID {
		return nil, store.ErrNotFound
	}
	return user, nil
}

// List handles GET /api/users?role=
func (h *UserHandler) List(c echo.Context) error {
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var roleFilter *model.Role
	if roleParam := c.QueryParam("role"); roleParam != "" {
		role, err := model.ParseRole(roleParam)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		roleFilter = &role
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	users, err := h.users.List(c.Request().Context(), tenantID, roleFilter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// Create handles POST /api/users (administrative provisioning). The tenant
// comes from the caller's token, never from the payload.
func (h *UserHandler) Create(c echo.Context) error {
	prometheus.RecordDomainOperation("users", "create")

	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role,omitempty"`
		IsActive *bool  `json:"is_active,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	user, err := h.users.Create(c.Request().Context(), service.CreateUserInput{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
		IsActive: req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// Update handles PATCH /api/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	prometheus.RecordDomainOperation("users", "update")

	existing, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		Name     *string `json:"name,omitempty"`
		Role     *string `json:"role,omitempty"`
		IsActive *bool   `json:"is_active,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	patch := service.UpdateUserInput{Name: req.Name, IsActive: req.IsActive}
	if req.Role != nil {
		role, err := model.ParseRole(*req.Role)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		patch.Role = &role
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	user, err := h.users.Update(c.Request().Context(), existing.ID, patch)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// ChangePassword handles POST /api/users/:id/change-password
func (h *UserHandler) ChangePassword(c echo.Context) error {
	prometheus.RecordDomainOperation("users", "change_password")

	existing, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_password is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.users.ChangePassword(c.Request().Context(), existing.ID, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// Delete handles DELETE /api/users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	prometheus.RecordDomainOperation("users", "delete")

	existing, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.users.Delete(c.Request().Context(), existing.ID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// ListDepartments handles GET /api/users/:id/departments
func (h *UserHandler) ListDepartments(c echo.Context) error {
	existing, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}

	departments, err := h.departments.ListByUser(c.Request().Context(), existing.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"departments": departments})
}

// AssignDepartment handles POST /api/users/:id/departments
func (h *UserHandler) AssignDepartment(c echo.Context) error {
	prometheus.RecordDomainOperation("users", "assign_department")

	existing, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req struct {
		DepartmentID string `json:"department_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
	}

	// The department must live in the caller's tenant too.
	department, err := h.departments.FindByID(c.Request().Context(), departmentID)
	if err != nil {
		return respondError(c, err)
	}
	if department.TenantID != existing.TenantID {
		return respondError(c, store.ErrNotFound)
	}

	if err := h.departments.AssignUser(c.Request().Context(), existing.ID, departmentID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "User assigned to department"})
}

// UnassignDepartment handles DELETE /api/users/:id/departments/:department_id
func (h *UserHandler) UnassignDepartment(c echo.Context) error {
	prometheus.RecordDomainOperation("users", "unassign_department")

	existing, err := h.resolveTenantUser(c)
	if err != nil {
		return respondError(c, err)
	}

	departmentID, err := uuid.Parse(c.Param("department_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid department_id"})
	}

	if err := h.departments.UnassignUser(c.Request().Context(), existing.ID, departmentID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User removed from department"})
}
