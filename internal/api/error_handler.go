package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/infrastructure/apiclient"
	"github.com/upslab/labportal/pkg/datefmt"
)

// errorResponse is the canonical error envelope for all portal errors. The
// optional fields carry the remote API's validation hints.
type errorResponse struct {
	Error      string   `json:"error"`
	Faltantes  []string `json:"faltantes,omitempty"`
	Permitidos []string `json:"permitidos,omitempty"`
	Maximo     int      `json:"maximo,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Redirects to the landing route when the API rejected the session.
//   - Maps known domain and API errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrSessionRejected) {
			_ = c.Redirect(http.StatusFound, string(domain.RouteLanding))
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Errors relayed from the remote API keep its message and hints.
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
		return apiErr.StatusCode, errorResponse{
			Error:      apiErr.UserMessage(),
			Faltantes:  apiErr.Faltantes,
			Permitidos: apiErr.Permitidos,
			Maximo:     apiErr.Maximo,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, errorResponse{Error: "this reservation was already submitted"}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, datefmt.ErrFormat):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		log.Warn().Err(err).Str("path", c.Path()).Msg("upstream unavailable")
		return http.StatusBadGateway, errorResponse{Error: "laboratory service unavailable"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
