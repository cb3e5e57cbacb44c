package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
	"github.com/upslab/labportal/internal/core/service"
	sessionstore "github.com/upslab/labportal/internal/infrastructure/session"
)

// sessionKey is the echo context key the caller's session is stored under.
const sessionKey = "session"

// SessionConfig holds what is needed to build a caller's session.
type SessionConfig struct {
	Decoder     ports.TokenDecoder
	Clock       ports.Clock
	Auth        ports.AuthAPI
	Cookie      sessionstore.CookieOptions
	Logger      zerolog.Logger
	Subscribers []func(domain.SessionEvent)
}

// AttachSession builds the explicit session of the calling browser from its
// token cookie and binds it to both the echo context and the request context,
// so outbound API calls carry the caller's token.
func AttachSession(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store := sessionstore.NewCookieStore(c, cfg.Cookie)
			sess := service.NewSession(store, cfg.Decoder, cfg.Clock, cfg.Auth, cfg.Logger)
			for _, fn := range cfg.Subscribers {
				sess.Subscribe(fn)
			}

			c.Set(sessionKey, sess)
			req := c.Request()
			c.SetRequest(req.WithContext(ports.ContextWithSession(req.Context(), sess)))
			return next(c)
		}
	}
}

// CurrentSession returns the session bound by AttachSession, or nil.
func CurrentSession(c echo.Context) *service.Session {
	sess, _ := c.Get(sessionKey).(*service.Session)
	return sess
}
