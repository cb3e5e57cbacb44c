package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/upslab/labportal/internal/api/metrics"
	"github.com/upslab/labportal/internal/core/domain"
)

// RequireSession lets the request through only when the caller's session
// passes the guard; otherwise it redirects to the route the guard names.
// It must run after AttachSession.
func RequireSession(requireAdmin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := domain.RedirectTo(domain.RouteLanding)
			if sess := CurrentSession(c); sess != nil {
				decision = sess.Guard(requireAdmin)
			}
			metrics.ObserveGuard(requireAdmin, decision)

			if !decision.Allowed {
				return c.Redirect(http.StatusFound, string(decision.Redirect))
			}
			return next(c)
		}
	}
}
