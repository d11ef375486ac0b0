package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "todo-api.com/todo-api/internal/data_models"
	"todo-api.com/todo-api/internal/http/validators"
	"todo-api.com/todo-api/internal/services"
)

type HealthHandler struct {
	healthService *services.HealthService
}

func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		healthService: healthService,
	}
}

func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, h.healthService.Basic())
}

// Detailed always answers 200; a failing dependency shows up as a
// degraded status in the payload instead of an error response.
func (h *HealthHandler) Detailed(c echo.Context) error {
	return c.JSON(http.StatusOK, h.healthService.Detailed(c.Request().Context()))
}

func (h *HealthHandler) Database(c echo.Context) error {
	report := h.healthService.Database(c.Request().Context())
	if report["status"] != "up" {
		return c.JSON(http.StatusServiceUnavailable, report)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *HealthHandler) Stats(c echo.Context) error {
	stats, err := h.healthService.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *HealthHandler) Cleanup(c echo.Context) error {
	var req dto.CleanupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCleanupRequest(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.healthService.Cleanup(c.Request().Context(), req.OlderThan)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
