package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/rueidis"

	middleware "todo-api.com/todo-api/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, hh *HealthHandler, redisClient rueidis.Client, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(redisClient, rateLimitPerMinute, time.Minute))

	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.POST("/tasks/bulk", h.BulkTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.PUT("/tasks/:id", h.UpdateTask)
	e.DELETE("/tasks/:id", h.DeleteTask)
	e.PATCH("/tasks/:id/toggle", h.ToggleTask)
	e.POST("/tasks/:id/restore", h.RestoreTask)

	e.GET("/health", hh.Health)
	e.GET("/health/detailed", hh.Detailed)
	e.GET("/health/database", hh.Database)
	e.GET("/health/stats", hh.Stats)
	e.POST("/health/maintenance/cleanup", hh.Cleanup)
}
