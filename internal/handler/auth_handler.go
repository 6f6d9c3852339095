package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/middleware"
	"github.com/suteetoe/helpdesk/internal/model"
	"github.com/suteetoe/helpdesk/internal/service"
	"github.com/suteetoe/helpdesk/pkg/logger"
	"github.com/suteetoe/helpdesk/prometheus"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.SignupCounter.Inc()

	var req struct {
		TenantID string `json:"tenant_id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Debug("failed to parse signup request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.TenantID == "" || req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id, name, email and password are required"})
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant_id"})
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	user, err := h.auth.Signup(c.Request().Context(), service.SignupInput{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailRegistered) {
			prometheus.RecordAuthError("email_conflict")
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		TenantID string `json:"tenant_id"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Debug("failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant_id"})
	}

	result, err := h.auth.Login(c.Request().Context(), tenantID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			prometheus.RecordAuthError("invalid_credentials")
		}
		return respondError(c, err)
	}

	prometheus.IncreaseActiveTokens()

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": result.Token,
		"user":         result.User,
	})
}

// Me handles GET /auth/me; it echoes the identity the guard resolved from
// the token, proving to the client what the server will trust.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}
	tenantID, err := middleware.TenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Authenticated user",
		"user": echo.Map{
			"id":        userID,
			"tenant_id": tenantID,
			"email":     c.Get(middleware.ContextEmail),
			"role":      middleware.Role(c),
		},
	})
}

// Logout handles POST /auth/logout. Tokens are self-contained and not stored
// server-side, so there is nothing to revoke; the client discards the token
// and it dies at expiry.
func (h *AuthHandler) Logout(c echo.Context) error {
	prometheus.DecreaseActiveTokens()
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logout performed successfully. Please discard your token.",
	})
}
