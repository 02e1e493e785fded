package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "task-tracker.com/task-tracker/internal/errors"
	"task-tracker.com/task-tracker/internal/tokens"
	"task-tracker.com/task-tracker/internal/workspace"
)

const (
	workspaceKey = "workspace"
	claimsKey    = "claims"
)

// Auth resolves the bearer token to its open workspace. Requests whose
// workspace has been closed are rejected like any other bad token.
func Auth(issuer *tokens.Issuer, manager *workspace.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return apperrors.ErrUnauthorized
			}

			claims, err := issuer.Parse(raw)
			if err != nil {
				return apperrors.ErrUnauthorized
			}

			ws, ok := manager.Get(claims.WorkspaceID)
			if !ok {
				return apperrors.ErrUnauthorized
			}

			c.Set(claimsKey, claims)
			c.Set(workspaceKey, ws)
			return next(c)
		}
	}
}

// Workspace returns the workspace Auth attached to c.
func Workspace(c echo.Context) *workspace.Workspace {
	ws, _ := c.Get(workspaceKey).(*workspace.Workspace)
	return ws
}

func Claims(c echo.Context) *tokens.Claims {
	claims, _ := c.Get(claimsKey).(*tokens.Claims)
	return claims
}
