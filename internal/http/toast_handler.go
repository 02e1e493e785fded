package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
)

func (h *Handler) ListToasts(c echo.Context) error {
	toasts := middleware.Workspace(c).Toasts().List()
	return c.JSON(http.StatusOK, dto.ToastListResponse{Count: len(toasts), Toasts: toasts})
}

func (h *Handler) DismissToast(c echo.Context) error {
	if !middleware.Workspace(c).Toasts().Dismiss(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "toast not found")
	}
	return c.NoContent(http.StatusNoContent)
}
