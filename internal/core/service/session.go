package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Session is the explicit session context of one caller. It owns no token
// state of its own: every check re-reads the store, so evaluations are
// independent of each other.
type Session struct {
	store   ports.TokenStore
	decoder ports.TokenDecoder
	clock   ports.Clock
	auth    ports.AuthAPI
	log     zerolog.Logger

	mu          sync.Mutex
	subscribers []func(domain.SessionEvent)
}

// NewSession builds a session over store. auth may be nil, in which case
// Teardown skips the logout notification.
func NewSession(store ports.TokenStore, decoder ports.TokenDecoder, clock ports.Clock, auth ports.AuthAPI, log zerolog.Logger) *Session {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Session{
		store:   store,
		decoder: decoder,
		clock:   clock,
		auth:    auth,
		log:     log,
	}
}

// Claims decodes the persisted token. It reports false when the token is
// absent or malformed and never fails otherwise.
func (s *Session) Claims() (*domain.Claims, bool) {
	raw, ok := s.store.Get()
	if !ok || raw == "" {
		return nil, false
	}
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		s.log.Debug().Err(err).Msg("session token could not be decoded")
		return nil, false
	}
	return claims, true
}

// IsAuthenticated reports whether a decodable token exists and expires
// strictly after the current instant.
func (s *Session) IsAuthenticated() bool {
	claims, ok := s.Claims()
	return ok && claims.ActiveAt(s.clock.Now())
}

// IsAdmin reports whether the decoded token carries the admin flag. It does
// not check expiry.
func (s *Session) IsAdmin() bool {
	claims, ok := s.Claims()
	return ok && claims.IsAdmin
}

// Guard evaluates access to a protected view. An unauthenticated caller is
// always sent to the landing route, even for admin-only views.
func (s *Session) Guard(requireAdmin bool) domain.Decision {
	if !s.IsAuthenticated() {
		return domain.RedirectTo(domain.RouteLanding)
	}
	if requireAdmin && !s.IsAdmin() {
		return domain.RedirectTo(domain.RouteUser)
	}
	return domain.Allow()
}

// Token returns the raw persisted token for the bearer header.
func (s *Session) Token() (string, bool) {
	raw, ok := s.store.Get()
	return raw, ok && raw != ""
}

// Identity is the audit identity of the caller, or "" when unauthenticated.
func (s *Session) Identity() string {
	if !s.IsAuthenticated() {
		return ""
	}
	claims, _ := s.Claims()
	return claims.Identity()
}

// Begin persists a freshly issued token.
func (s *Session) Begin(token string) {
	s.store.Set(token)
	s.publish(domain.SessionBegan)
}

// Teardown notifies the auth API of the logout, then removes the token no
// matter how the notification went. It returns the landing route.
func (s *Session) Teardown(ctx context.Context) domain.Route {
	if s.auth != nil {
		if _, ok := s.Token(); ok {
			if err := s.auth.Logout(ports.ContextWithSession(ctx, s)); err != nil {
				s.log.Warn().Err(err).Msg("logout notification failed")
			}
		}
	}
	s.store.Remove()
	s.publish(domain.SessionEnded)
	return domain.RouteLanding
}

// Invalidate drops the token after the API rejected it.
func (s *Session) Invalidate() {
	s.store.Remove()
	s.publish(domain.SessionRejected)
}

// Subscribe registers fn for session transitions. Subscribers run
// synchronously on the goroutine that caused the transition.
func (s *Session) Subscribe(fn func(domain.SessionEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Session) publish(ev domain.SessionEvent) {
	s.mu.Lock()
	subs := make([]func(domain.SessionEvent), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
