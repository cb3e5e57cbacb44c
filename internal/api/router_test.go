package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/api/middleware"
	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/service"
	"github.com/upslab/labportal/internal/infrastructure/apiclient"
	sessionstore "github.com/upslab/labportal/internal/infrastructure/session"
	"github.com/upslab/labportal/internal/infrastructure/token"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type sinkStub struct {
	mu      sync.Mutex
	entries []domain.Transaction
}

func (s *sinkStub) Enqueue(tx domain.Transaction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, tx)
	return true
}

func signToken(t *testing.T, admin bool) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp":      time.Now().Add(time.Hour).Unix(),
		"is_admin": admin,
		"nombre":   "Ana",
		"sub":      "7",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

// newTestRouter wires the router against a fake remote API.
func newTestRouter(t *testing.T, upstream http.HandlerFunc) (*echo.Echo, *sinkStub) {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Logger: zerolog.Nop()})
	sink := &sinkStub{}
	e := NewRouter(Deps{
		Accounts:     service.NewAccountService(client, client.Admin(), zerolog.Nop()),
		Reservations: service.NewReservationService(client, client.Admin(), nil, 0, zerolog.Nop()),
		Session: middleware.SessionConfig{
			Decoder: token.NewDecoder(""),
			Clock:   service.SystemClock{},
			Auth:    client,
			Logger:  zerolog.Nop(),
		},
		Transactions: sink,
		Registerer:   prometheus.NewRegistry(),
		Logger:       zerolog.Nop(),
	})
	return e, sink
}

func get(e *echo.Echo, path, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if tok != "" {
		req.AddCookie(&http.Cookie{Name: sessionstore.CookieName, Value: tok})
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func clearedCookie(rec *httptest.ResponseRecorder) bool {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == sessionstore.CookieName && ck.MaxAge < 0 {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Router
// ---------------------------------------------------------------------------

func TestRouter_GuardRedirects(t *testing.T) {
	e, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"usuarios":[],"reservas":[],"total":0}`))
	})

	cases := []struct {
		name     string
		path     string
		token    string
		code     int
		location string
	}{
		{"anonymous user view", "/user", "", http.StatusFound, "/"},
		{"garbage token", "/user", "garbage", http.StatusFound, "/"},
		{"anonymous admin view", "/admin/users", "", http.StatusFound, "/"},
		{"user on admin view", "/admin/users", signToken(t, false), http.StatusFound, "/user"},
		{"user view", "/user", signToken(t, false), http.StatusOK, ""},
		{"admin view", "/admin/users", signToken(t, true), http.StatusOK, ""},
		{"admin on user view", "/user", signToken(t, true), http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(e, tc.path, tc.token)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			if got := rec.Header().Get(echo.HeaderLocation); got != tc.location {
				t.Fatalf("location = %q, want %q", got, tc.location)
			}
		})
	}
}

func TestRouter_RejectedSessionRedirectsAndClears(t *testing.T) {
	e, sink := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token revocado"}`))
	})

	rec := get(e, "/user", signToken(t, false))
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to landing, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if !clearedCookie(rec) {
		t.Fatalf("rejected token must be removed from the browser")
	}

	if len(sink.entries) != 1 {
		t.Fatalf("expected one transaction, got %d", len(sink.entries))
	}
	if tx := sink.entries[0]; tx.Status != http.StatusFound || tx.Identity != "7" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
}

func TestRouter_ReservationErrorsKeepAPIHints(t *testing.T) {
	e, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Faltan campos","faltantes":["horario_uso"]}`))
	})

	body := `{"correo_institucional":"ana@est.ups.edu.ec","nombres_completos":"Ana","cargo":"ESTUDIANTE",
		"carrera":"COMPUTACION","nivel":"1RO","discapacidad":"NO","materia_motivo":"Redes","numero_estudiantes":5,
		"fecha_prestamo":"2024-03-07","horario_uso":"08:00 - 10:00","descripcion_actividades":"Práctica",
		"laboratorio":"LABORATORIO IHM","equipo":"NINGUNO"}`
	req := httptest.NewRequest(http.MethodPost, "/user/reservations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.AddCookie(&http.Cookie{Name: sessionstore.CookieName, Value: signToken(t, false)})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Error != "Faltan campos" || len(resp.Faltantes) != 1 {
		t.Fatalf("unexpected error body %+v", resp)
	}
}

func TestRouter_RequestLogCarriesRenderedErrors(t *testing.T) {
	var buf bytes.Buffer
	e := NewRouter(Deps{
		Accounts:     service.NewAccountService(nil, nil, zerolog.Nop()),
		Reservations: service.NewReservationService(nil, nil, nil, 0, zerolog.Nop()),
		Session: middleware.SessionConfig{
			Decoder: token.NewDecoder(""),
			Logger:  zerolog.Nop(),
		},
		Transactions: &sinkStub{},
		Logger:       zerolog.New(&buf),
	})

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"correo":"not-an-email"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	line := buf.String()
	if !strings.Contains(line, `"level":"warn"`) || !strings.Contains(line, "invalid input") {
		t.Fatalf("expected a warn request line with the error, got %s", line)
	}
}

func TestRouter_OpsRoutes(t *testing.T) {
	e, _ := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {})
	if rec := get(e, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// Error handler
// ---------------------------------------------------------------------------

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"duplicate", domain.ErrDuplicateSubmission, http.StatusConflict},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest},
		{"upstream down", domain.ErrUpstreamUnavailable, http.StatusBadGateway},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
		{"api conflict", &apiclient.APIError{StatusCode: http.StatusConflict, Message: "Ya existe"}, http.StatusConflict},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/x", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestErrorHandler_SessionRejected(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/user", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrSessionRejected, c)
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Fatalf("expected redirect to landing, got %d", rec.Code)
	}
}
