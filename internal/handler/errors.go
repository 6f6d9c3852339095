package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suteetoe/helpdesk/internal/middleware"
	"github.com/suteetoe/helpdesk/internal/service"
	"github.com/suteetoe/helpdesk/internal/store"
	"github.com/suteetoe/helpdesk/pkg/logger"
)

// respondError maps service and store errors onto HTTP responses. Transient
// storage failures come back as 503 so the caller knows a retry is safe;
// nothing is retried here.
func respondError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	switch {
	case errors.Is(err, middleware.ErrNoIdentity):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrEmailRegistered):
		return c.JSON(http.StatusConflict, echo.Map{"error": service.ErrEmailRegistered.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already exists"})
	case errors.Is(err, store.ErrUnavailable):
		log.Error("storage unavailable", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, retry later"})
	default:
		log.Error("unhandled error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
