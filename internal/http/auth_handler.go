package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	"task-tracker.com/task-tracker/internal/session"
	"task-tracker.com/task-tracker/internal/workspace"
)

func (h *Handler) SignUp(c echo.Context) error {
	return h.signIn(c, http.StatusCreated, func(ctx context.Context, s *session.Store, req dto.CredentialsRequest) error {
		return s.Register(ctx, req.Email, req.Password)
	})
}

func (h *Handler) Login(c echo.Context) error {
	return h.signIn(c, http.StatusOK, func(ctx context.Context, s *session.Store, req dto.CredentialsRequest) error {
		return s.Login(ctx, req.Email, req.Password)
	})
}

// signIn opens a workspace, runs authenticate on its session and waits for
// the session stream to confirm before handing out a token.
func (h *Handler) signIn(
	c echo.Context,
	status int,
	authenticate func(context.Context, *session.Store, dto.CredentialsRequest) error,
) error {
	var req dto.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidJSON
	}
	if err := validators.ValidateCredentials(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.sessionTimeout)
	defer cancel()

	ws := h.manager.Open()
	if err := authenticate(ctx, ws.Session(), req); err != nil {
		h.manager.Close(ws.ID())
		if authErr, ok := apperrors.AsAuthError(err); ok {
			return c.JSON(authErr.StatusCode(), dto.ErrorResponse{
				Message: authErr.UserMessage(),
				Code:    authErr.Code,
			})
		}
		return err
	}

	snap, err := ws.Session().Await(ctx, session.StateAuthenticated)
	if err != nil {
		h.manager.Close(ws.ID())
		return apperrors.ErrSessionNotReady
	}

	return h.issue(c, status, ws, snap)
}

func (h *Handler) issue(c echo.Context, status int, ws *workspace.Workspace, snap session.Snapshot) error {
	identity := *snap.Identity

	token, expiresAt, err := h.issuer.Issue(ws.ID(), identity.Email, identity.Role)
	if err != nil {
		h.manager.Close(ws.ID())
		return err
	}
	if !h.manager.SetExpiry(ws.ID(), expiresAt) {
		return apperrors.ErrSessionNotReady
	}

	h.logger.Infow("signed in", "workspace_id", ws.ID(), "email", identity.Email, "role", identity.Role)
	return c.JSON(status, dto.SessionResponse{Token: token, Identity: identity})
}

func (h *Handler) Logout(c echo.Context) error {
	ws := middleware.Workspace(c)
	if err := ws.Session().Logout(c.Request().Context()); err != nil {
		return err
	}
	h.manager.Close(ws.ID())
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Session(c echo.Context) error {
	identity, err := middleware.Workspace(c).Identity()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.SessionResponse{Identity: identity})
}
