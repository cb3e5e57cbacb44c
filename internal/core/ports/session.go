package ports

import (
	"context"
	"time"

	"github.com/upslab/labportal/internal/core/domain"
)

// TokenStore is the client-held slot for the session token. Implementations
// are scoped to one client instance.
type TokenStore interface {
	Get() (string, bool)
	Set(token string)
	Remove()
}

// TokenDecoder turns a raw token into claims. It never validates expiry.
type TokenDecoder interface {
	Decode(raw string) (*domain.Claims, error)
}

// Clock supplies the evaluation instant for expiry checks.
type Clock interface {
	Now() time.Time
}

// SessionHandle is the slice of a caller's session the transport needs: the
// bearer token to attach and the hook to drop it when the API rejects it.
type SessionHandle interface {
	Token() (string, bool)
	Invalidate()
}

type sessionCtxKey struct{}

// ContextWithSession binds a caller's session to ctx for outbound API calls.
func ContextWithSession(ctx context.Context, s SessionHandle) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// SessionFromContext returns the session bound by ContextWithSession.
func SessionFromContext(ctx context.Context) (SessionHandle, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(SessionHandle)
	return s, ok && s != nil
}

// SessionStarter is the slice of a caller's session the login flow needs.
type SessionStarter interface {
	Begin(token string)
	IsAdmin() bool
}
