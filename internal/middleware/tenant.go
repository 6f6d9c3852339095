package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/suteetoe/helpdesk/pkg/logger"
)

// RequireTenantContext rejects requests whose token carries no tenant
// binding. It must run after Auth.
func RequireTenantContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tenantID, ok := c.Get(ContextTenantID).(uuid.UUID)
		if !ok || tenantID == uuid.Nil {
			logger.FromEcho(c).Debug("request without tenant context")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}
		return next(c)
	}
}
