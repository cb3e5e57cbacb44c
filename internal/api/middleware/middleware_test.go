package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
	sessionstore "github.com/upslab/labportal/internal/infrastructure/session"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var now = time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type tableDecoder map[string]*domain.Claims

func (d tableDecoder) Decode(raw string) (*domain.Claims, error) {
	if c, ok := d[raw]; ok {
		return c, nil
	}
	return nil, errors.New("malformed")
}

var decoder = tableDecoder{
	"user":    {ExpiresAt: now.Add(time.Hour), Subject: "7"},
	"admin":   {ExpiresAt: now.Add(time.Hour), IsAdmin: true, Subject: "admin:1"},
	"expired": {ExpiresAt: now.Add(-time.Hour), IsAdmin: true},
}

type sinkStub struct{ entries []domain.Transaction }

func (s *sinkStub) Enqueue(tx domain.Transaction) bool {
	s.entries = append(s.entries, tx)
	return true
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func sessionConfig() SessionConfig {
	return SessionConfig{Decoder: decoder, Clock: fixedClock{}, Logger: zerolog.Nop()}
}

// serve runs the request through AttachSession and the given chain.
func serve(token string, path string, chain ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionstore.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	h = AttachSession(sessionConfig())(h)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAttachSession_BindsBothContexts(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: sessionstore.CookieName, Value: "user"})
	c := e.NewContext(req, httptest.NewRecorder())

	var seen []domain.SessionEvent
	cfg := sessionConfig()
	cfg.Subscribers = []func(domain.SessionEvent){func(ev domain.SessionEvent) { seen = append(seen, ev) }}

	h := AttachSession(cfg)(func(c echo.Context) error {
		sess := CurrentSession(c)
		if sess == nil || !sess.IsAuthenticated() {
			t.Fatalf("expected an authenticated session")
		}
		handle, ok := ports.SessionFromContext(c.Request().Context())
		if !ok {
			t.Fatalf("session not bound to the request context")
		}
		if tok, _ := handle.Token(); tok != "user" {
			t.Fatalf("unexpected token %q", tok)
		}
		sess.Invalidate()
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(seen) != 1 || seen[0] != domain.SessionRejected {
		t.Fatalf("subscribers not attached, saw %v", seen)
	}
}

func TestRequireSession(t *testing.T) {
	cases := []struct {
		name         string
		token        string
		requireAdmin bool
		wantCalled   bool
		wantLocation string
	}{
		{"anonymous on user view", "", false, false, "/"},
		{"anonymous on admin view", "", true, false, "/"},
		{"garbage cookie", "garbage", false, false, "/"},
		{"expired admin", "expired", true, false, "/"},
		{"user on user view", "user", false, true, ""},
		{"user on admin view", "user", true, false, "/user"},
		{"admin on admin view", "admin", true, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := serve(tc.token, "/x", RequireSession(tc.requireAdmin))
			if called != tc.wantCalled {
				t.Fatalf("called = %v, want %v", called, tc.wantCalled)
			}
			if tc.wantCalled {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected 200, got %d", rec.Code)
				}
				return
			}
			if rec.Code != http.StatusFound {
				t.Fatalf("expected 302, got %d", rec.Code)
			}
			if loc := rec.Header().Get(echo.HeaderLocation); loc != tc.wantLocation {
				t.Fatalf("Location = %q, want %q", loc, tc.wantLocation)
			}
		})
	}
}

func TestRequireSession_WithoutAttach(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/user", nil), rec)

	h := RequireSession(false)(func(c echo.Context) error {
		t.Fatalf("next must not run")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to landing, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestTransactions_RecordsFinalStatusAndIdentity(t *testing.T) {
	sink := &sinkStub{}
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/user/reservations", nil)
	req.AddCookie(&http.Cookie{Name: sessionstore.CookieName, Value: "user"})
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.9")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/user/reservations")

	h := AttachSession(sessionConfig())(Transactions(sink, fixedClock{})(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "already booked")
	}))
	if err := h(c); err != nil {
		t.Fatalf("errors must be rendered by the middleware, got %v", err)
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(sink.entries))
	}
	tx := sink.entries[0]
	if tx.Status != http.StatusConflict || tx.Identity != "7" || tx.RemoteAddr != "10.0.0.9" {
		t.Fatalf("unexpected entry %+v", tx)
	}
	if !tx.Timestamp.Equal(now) || tx.Endpoint != "/user/reservations" {
		t.Fatalf("unexpected entry %+v", tx)
	}
}

func TestTransactions_KeepsIdentityAcrossLogout(t *testing.T) {
	sink := &sinkStub{}
	rec, _ := serve("user", "/logout", Transactions(sink, fixedClock{}), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			CurrentSession(c).Teardown(context.Background())
			return next(c)
		}
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sink.entries) != 1 || sink.entries[0].Identity != "7" {
		t.Fatalf("expected the pre-logout identity, got %+v", sink.entries)
	}
}

func TestTransactions_DefaultsToSystemClock(t *testing.T) {
	sink := &sinkStub{}
	before := time.Now()
	rec, called := serve("", "/", Transactions(sink, nil))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected the request to pass, got %d", rec.Code)
	}
	if len(sink.entries) != 1 || sink.entries[0].Timestamp.Before(before) {
		t.Fatalf("expected a wall-clock timestamp, got %+v", sink.entries)
	}
}

func TestTransactions_ExposesHandledError(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/user", nil), httptest.NewRecorder())

	h := AttachSession(sessionConfig())(Transactions(&sinkStub{}, fixedClock{})(func(c echo.Context) error {
		return domain.ErrNotFound
	}))
	if err := h(c); err != nil {
		t.Fatalf("expected the error to be rendered, got %v", err)
	}
	if !errors.Is(HandledError(c), domain.ErrNotFound) {
		t.Fatalf("HandledError = %v, want ErrNotFound", HandledError(c))
	}
}
