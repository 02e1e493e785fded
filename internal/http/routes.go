package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.HTTPErrorHandler = ErrorHandler(h.logger)
	e.Use(middleware.RequestLogger(h.logger))
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	auth := middleware.Auth(h.issuer, h.manager)

	e.POST("/auth/register", h.SignUp)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout, auth)
	e.GET("/auth/session", h.Session, auth)

	e.GET("/tasks", h.ListTasks, auth)
	e.GET("/tasks/stats", h.TaskStats, auth)
	e.PUT("/tasks/view", h.SetView, auth)
	e.POST("/tasks/refresh", h.RefreshTasks, auth)
	e.POST("/tasks", h.CreateTask, auth)
	e.PUT("/tasks/selection", h.ReplaceSelection, auth)
	e.POST("/tasks/selection/all", h.SelectAll, auth)
	e.DELETE("/tasks/selection", h.ClearSelection, auth)
	e.POST("/tasks/bulk/status", h.BulkUpdateStatus, auth)
	e.POST("/tasks/bulk/delete", h.BulkDelete, auth)
	e.PUT("/tasks/:id", h.UpdateTask, auth)
	e.PATCH("/tasks/:id/status", h.UpdateTaskStatus, auth)
	e.DELETE("/tasks/:id", h.DeleteTask, auth)

	e.GET("/toasts", h.ListToasts, auth)
	e.DELETE("/toasts/:id", h.DismissToast, auth)
}
