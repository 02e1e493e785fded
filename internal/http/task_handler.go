package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/workspace"
)

// ListTasks returns the caller's view. The status, sort and q query
// parameters override the stored view settings for this request only.
func (h *Handler) ListTasks(c echo.Context) error {
	ws := middleware.Workspace(c)

	opts := ws.Tasks().ViewOptions()
	view := dto.ViewRequest{
		Status: constants.TaskStatus(c.QueryParam("status")),
		Sort:   constants.SortKey(c.QueryParam("sort")),
	}
	if err := validators.ValidateView(&view); err != nil {
		return err
	}
	if view.Status != "" {
		opts.Status = view.Status
	}
	if view.Sort != "" {
		opts.Sort = view.Sort
	}
	opts.Query = c.QueryParam("q")

	tasks, err := ws.View(opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskList(ws, tasks, opts.Status, opts.Sort))
}

func (h *Handler) TaskStats(c echo.Context) error {
	stats, err := middleware.Workspace(c).Stats()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// SetView stores the status filter and sort key for later listings.
func (h *Handler) SetView(c echo.Context) error {
	var req dto.ViewRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateView(&req); err != nil {
		return err
	}

	ws := middleware.Workspace(c)
	if req.Status != "" {
		ws.Tasks().SetFilterStatus(req.Status)
	}
	if req.Sort != "" {
		ws.Tasks().SetSortBy(req.Sort)
	}

	tasks, err := ws.CurrentView()
	if err != nil {
		return err
	}
	opts := ws.Tasks().ViewOptions()
	return c.JSON(http.StatusOK, taskList(ws, tasks, opts.Status, opts.Sort))
}

// RefreshTasks restarts the live subscription, e.g. after it failed.
func (h *Handler) RefreshTasks(c echo.Context) error {
	ws := middleware.Workspace(c)
	if _, err := ws.Identity(); err != nil {
		return err
	}
	ws.Tasks().Remount()
	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.TaskRequestData
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	admin, err := middleware.Workspace(c).Admin()
	if err != nil {
		return err
	}
	return toastResponse(c, admin.Create(c.Request().Context(), req.Fields()))
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	admin, err := middleware.Workspace(c).Admin()
	if err != nil {
		return err
	}
	return toastResponse(c, admin.Update(c.Request().Context(), id, req.Patch()))
}

// UpdateTaskStatus is the one mutation employees have, limited to their own
// tasks.
func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.StatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateStatus(req.Status); err != nil {
		return err
	}

	ws := middleware.Workspace(c)
	identity, err := ws.Identity()
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	if identity.IsAdmin() {
		admin, err := ws.Admin()
		if err != nil {
			return err
		}
		return toastResponse(c, admin.UpdateStatus(ctx, id, req.Status))
	}

	employee, err := ws.Employee()
	if err != nil {
		return err
	}
	t, err := employee.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return err
	}
	return toastResponse(c, t)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	admin, err := middleware.Workspace(c).Admin()
	if err != nil {
		return err
	}
	return toastResponse(c, admin.Delete(c.Request().Context(), id))
}

func taskList(ws *workspace.Workspace, tasks []model.Task, status constants.TaskStatus, sort constants.SortKey) dto.TaskListResponse {
	resp := dto.TaskListResponse{
		Count:    len(tasks),
		Tasks:    tasks,
		Loading:  ws.Tasks().Loading(),
		Status:   string(status),
		Sort:     string(sort),
		Selected: ws.Selection().IDs(),
	}
	if err := ws.Tasks().Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}
