package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"task-tracker.com/task-tracker/internal/constants"
	dto "task-tracker.com/task-tracker/internal/data_models"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/tokens"
	"task-tracker.com/task-tracker/internal/workspace"
)

const defaultSessionTimeout = 5 * time.Second

type Handler struct {
	manager *workspace.Manager
	issuer  *tokens.Issuer
	logger  *zap.SugaredLogger

	// sessionTimeout bounds how long login waits for the session stream to
	// report the new identity.
	sessionTimeout time.Duration
}

func NewHandler(manager *workspace.Manager, issuer *tokens.Issuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		manager:        manager,
		issuer:         issuer,
		logger:         logger,
		sessionTimeout: defaultSessionTimeout,
	}
}

// ErrorHandler writes every error as a JSON message. Server-side failures are
// logged and their details kept out of the response.
func ErrorHandler(logger *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			code    int
			message string
		)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
		} else {
			code = apperrors.StatusCode(err)
			message = err.Error()
		}

		if code >= http.StatusInternalServerError {
			logger.Errorw("request failed", "path", c.Path(), "error", err)
			message = http.StatusText(code)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, dto.ErrorResponse{Message: message})
	}
}

// toastResponse reports a mutation outcome. The toast is the result either
// way; a failed mutation only changes the status code.
func toastResponse(c echo.Context, t model.Toast) error {
	if t.Severity == constants.SeverityError {
		return c.JSON(http.StatusInternalServerError, t)
	}
	return c.JSON(http.StatusAccepted, t)
}

func taskID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", apperrors.ErrTaskIDRequired
	}
	return id, nil
}
