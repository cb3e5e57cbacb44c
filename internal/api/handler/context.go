package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/upslab/labportal/internal/api/middleware"
	"github.com/upslab/labportal/internal/core/service"
)

// ctxSession returns the caller's session bound by middleware.AttachSession.
// Its absence means the router was wired without that middleware.
func ctxSession(c echo.Context) (*service.Session, error) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sess, nil
}

// pathID parses the ":id" route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

type normalizer interface {
	normalize()
}

// bindForm binds the body into req, normalizes it and validates it.
func bindForm(c echo.Context, req normalizer) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	return c.Validate(req)
}
