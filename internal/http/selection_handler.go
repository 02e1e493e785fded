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

// ReplaceSelection sets the selection to the given ids, keeping only those in
// the caller's current view.
func (h *Handler) ReplaceSelection(c echo.Context) error {
	var req dto.SelectionRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}

	ws := middleware.Workspace(c)
	view, err := ws.CurrentView()
	if err != nil {
		return err
	}

	ws.Selection().Replace(req.IDs)
	ws.Selection().Prune(view)
	return selectionResponse(c, ws)
}

func (h *Handler) SelectAll(c echo.Context) error {
	ws := middleware.Workspace(c)
	view, err := ws.CurrentView()
	if err != nil {
		return err
	}

	ws.Selection().SelectAll(view)
	return selectionResponse(c, ws)
}

func (h *Handler) ClearSelection(c echo.Context) error {
	ws := middleware.Workspace(c)
	ws.Selection().Clear()
	return selectionResponse(c, ws)
}

func (h *Handler) BulkUpdateStatus(c echo.Context) error {
	var req dto.BulkStatusRequest
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
	ids, err := selectedIDs(ws)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	var t model.Toast
	if identity.IsAdmin() {
		admin, err := ws.Admin()
		if err != nil {
			return err
		}
		t = admin.BulkUpdateStatus(ctx, ids, req.Status)
	} else {
		employee, err := ws.Employee()
		if err != nil {
			return err
		}
		if t, err = employee.BulkUpdateStatus(ctx, ids, req.Status); err != nil {
			return err
		}
	}

	clearOnSuccess(ws, t)
	return toastResponse(c, t)
}

func (h *Handler) BulkDelete(c echo.Context) error {
	ws := middleware.Workspace(c)
	admin, err := ws.Admin()
	if err != nil {
		return err
	}
	ids, err := selectedIDs(ws)
	if err != nil {
		return err
	}

	t := admin.BulkDelete(c.Request().Context(), ids)
	clearOnSuccess(ws, t)
	return toastResponse(c, t)
}

// selectedIDs drops selected tasks that are no longer in the view before a
// bulk action runs.
func selectedIDs(ws *workspace.Workspace) ([]string, error) {
	view, err := ws.CurrentView()
	if err != nil {
		return nil, err
	}
	ws.Selection().Prune(view)
	return ws.Selection().IDs(), nil
}

func clearOnSuccess(ws *workspace.Workspace, t model.Toast) {
	if t.Severity == constants.SeveritySuccess {
		ws.Selection().Clear()
	}
}

func selectionResponse(c echo.Context, ws *workspace.Workspace) error {
	ids := ws.Selection().IDs()
	return c.JSON(http.StatusOK, dto.SelectionResponse{Count: len(ids), IDs: ids})
}
