package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-api/internal/api/metrics"
	"github.com/userhub/user-api/internal/core/domain"
)

// RequireAdmin gates a route on the admin role. It runs after Auth, so the
// role claim is already in context for authenticated requests.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != domain.RoleAdmin {
				metrics.AuthRejectionsTotal.WithLabelValues("not_admin").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized as an admin"})
			}
			return next(c)
		}
	}
}
