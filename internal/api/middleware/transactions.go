package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
	"github.com/upslab/labportal/internal/core/service"
)

// handledErrorKey holds the error Transactions already rendered.
const handledErrorKey = "handled_error"

// HandledError returns the handler error Transactions rendered, if any.
// Outer middleware sees nil from the chain once the error is rendered.
func HandledError(c echo.Context) error {
	err, _ := c.Get(handledErrorKey).(error)
	return err
}

// TransactionSink accepts audit entries without blocking.
type TransactionSink interface {
	Enqueue(tx domain.Transaction) bool
}

// Transactions records one audit entry per request once the response status
// is known. Errors are rendered here so the entry carries the final status.
func Transactions(sink TransactionSink, clock ports.Clock) echo.MiddlewareFunc {
	if clock == nil {
		clock = service.SystemClock{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := clock.Now()

			var before string
			if sess := CurrentSession(c); sess != nil {
				before = sess.Identity()
			}

			if err := next(c); err != nil {
				c.Set(handledErrorKey, err)
				c.Error(err)
			}

			identity := before
			if sess := CurrentSession(c); sess != nil {
				if after := sess.Identity(); after != "" {
					identity = after
				}
			}

			req := c.Request()
			sink.Enqueue(domain.Transaction{
				Timestamp:  start,
				Method:     req.Method,
				Path:       req.URL.Path,
				Status:     c.Response().Status,
				Identity:   identity,
				RemoteAddr: c.RealIP(),
				Endpoint:   c.Path(),
			})
			return nil
		}
	}
}
