package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	dto "todo-api.com/todo-api/internal/data_models"
	apperrors "todo-api.com/todo-api/internal/errors"
	"todo-api.com/todo-api/internal/http/validators"
	"todo-api.com/todo-api/internal/query"
	"todo-api.com/todo-api/internal/services"
)

const defaultPageLimit = 10

// reserved query keys consumed by pagination/sorting; everything else is
// forwarded to the filter builder.
var reservedParams = map[string]bool{
	"page":           true,
	"limit":          true,
	"sortBy":         true,
	"sortOrder":      true,
	"includeDeleted": true,
}

type Handler struct {
	taskService *services.TaskService
}

func NewHandler(taskService *services.TaskService) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return respondError(c, err)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewTaskResponse(task, time.Now().UTC()))
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(
		c.Request().Context(),
		c.Param("id"),
		boolParam(c, "includeDeleted"),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task, time.Now().UTC()))
}

func (h *Handler) ListTasks(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit := defaultPageLimit
	if raw := c.QueryParam("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	p := query.ParsePagination(page, limit)
	sort := query.ParseSort(c.QueryParam("sortBy"), c.QueryParam("sortOrder"))

	params := map[string]interface{}{}
	for key, values := range c.QueryParams() {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		if len(values) == 1 {
			params[key] = values[0]
		} else {
			params[key] = values
		}
	}

	tasks, meta, err := h.taskService.ListTasks(
		c.Request().Context(),
		params,
		boolParam(c, "includeDeleted"),
		p,
		sort,
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ListTasksResponse{
		Data:       dto.NewTaskResponses(tasks, time.Now().UTC()),
		Pagination: meta,
	})
}

func (h *Handler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task, time.Now().UTC()))
}

func (h *Handler) ToggleTask(c echo.Context) error {
	task, err := h.taskService.ToggleCompletion(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task, time.Now().UTC()))
}

// DeleteTask soft-deletes by default; ?permanent=true hard-deletes where
// the deployment allows it.
func (h *Handler) DeleteTask(c echo.Context) error {
	task, err := h.taskService.DeleteTask(
		c.Request().Context(),
		c.Param("id"),
		boolParam(c, "permanent"),
	)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task, time.Now().UTC()))
}

func (h *Handler) RestoreTask(c echo.Context) error {
	task, err := h.taskService.RestoreTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewTaskResponse(task, time.Now().UTC()))
}

func (h *Handler) BulkTasks(c echo.Context) error {
	var req dto.BulkTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateBulkTaskRequest(&req); err != nil {
		return respondError(c, err)
	}

	result, err := h.taskService.BulkWrite(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func boolParam(c echo.Context, name string) bool {
	return strings.EqualFold(c.QueryParam(name), "true")
}

func respondError(c echo.Context, err error) error {
	ex := apperrors.Normalize(err)
	return c.JSON(ex.StatusCode, ex)
}
