package apiclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/upslab/labportal/internal/core/domain"
)

// APIError is a non-2xx response from the remote API, decoded from its
// error envelope.
type APIError struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Detalle    string   `json:"detalle,omitempty"`
	Faltantes  []string `json:"faltantes,omitempty"`
	Permitidos []string `json:"permitidos,omitempty"`
	Maximo     int      `json:"maximo,omitempty"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api: HTTP %d", e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Detalle != "" {
		fmt.Fprintf(&b, " (%s)", e.Detalle)
	}
	if len(e.Faltantes) > 0 {
		fmt.Fprintf(&b, "; faltantes: %s", strings.Join(e.Faltantes, ", "))
	}
	if len(e.Permitidos) > 0 {
		fmt.Fprintf(&b, "; permitidos: %s", strings.Join(e.Permitidos, ", "))
	}
	if e.Maximo > 0 {
		fmt.Fprintf(&b, "; maximo: %d", e.Maximo)
	}
	return b.String()
}

// Unwrap maps the status onto the domain sentinels so callers can use
// errors.Is without knowing about HTTP.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return domain.ErrSessionRejected
	case e.StatusCode == http.StatusForbidden:
		return domain.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return domain.ErrConflict
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case e.StatusCode >= 500:
		return domain.ErrUpstreamUnavailable
	}
	return nil
}

// UserMessage is the text shown to the person who triggered the call: the
// detail when present, else the message.
func (e *APIError) UserMessage() string {
	if e.Detalle != "" {
		return e.Detalle
	}
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}
