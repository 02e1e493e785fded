package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-tracker.com/task-tracker/internal/data_models"
)

// ValidateCredentials only checks presence; the auth provider owns the format
// and strength rules.
func ValidateCredentials(r *dto.CredentialsRequest) error {
	r.Email = strings.TrimSpace(r.Email)
	if r.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}
	if r.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	return nil
}
