package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/upslab/labportal/internal/core/domain"
	"github.com/upslab/labportal/internal/core/ports"
)

type stubSession struct {
	token       string
	invalidated int
}

func (s *stubSession) Token() (string, bool) { return s.token, s.token != "" }
func (s *stubSession) Invalidate() {
	s.token = ""
	s.invalidated++
}

type recorded struct {
	method, path, auth, requestID string
	body                          []byte
}

// newServer answers every request with status and body, recording what it got.
func newServer(t *testing.T, status int, body string) (*httptest.Server, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var seen []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		seen = append(seen, recorded{
			method:    r.Method,
			path:      r.URL.Path,
			auth:      r.Header.Get("Authorization"),
			requestID: r.Header.Get(RequestIDHeader),
			body:      raw,
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{BaseURL: srv.URL + "/api/", Logger: zerolog.Nop()})
}

func TestClient_AttachesBearerAndRequestID(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"reservas":[{"id":1,"fecha_prestamo":"7/3/2024"}],"total":1}`)
	c := newTestClient(srv)

	ctx := ports.ContextWithSession(context.Background(), &stubSession{token: "tok"})
	list, err := c.ListReservations(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].FechaPrestamo != "7/3/2024" {
		t.Fatalf("unexpected list %+v", list)
	}

	got := (*seen)[0]
	if got.path != "/api/auth/laboratory/reservations" {
		t.Fatalf("unexpected path %q", got.path)
	}
	if got.auth != "Bearer tok" {
		t.Fatalf("expected bearer header, got %q", got.auth)
	}
	if got.requestID == "" {
		t.Fatalf("expected a request id")
	}
}

func TestClient_NoSessionNoBearer(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"token":"fresh"}`)
	c := newTestClient(srv)

	token, err := c.Login(context.Background(), domain.Credentials{Correo: "a@ups.edu.ec", Contrasena: "abc12345"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "fresh" {
		t.Fatalf("unexpected token %q", token)
	}
	if (*seen)[0].auth != "" {
		t.Fatalf("no bearer expected without a session")
	}

	var sent domain.Credentials
	if err := json.Unmarshal((*seen)[0].body, &sent); err != nil || sent.Correo != "a@ups.edu.ec" {
		t.Fatalf("unexpected body %s", (*seen)[0].body)
	}
}

func TestClient_UnauthorizedInvalidatesSession(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"msg":"Token has expired"}`)
	c := newTestClient(srv)

	sess := &stubSession{token: "stale"}
	ctx := ports.ContextWithSession(context.Background(), sess)

	_, err := c.ListReservations(ctx)
	if !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}
	if sess.invalidated != 1 {
		t.Fatalf("expected the session to be invalidated once, got %d", sess.invalidated)
	}
	if _, ok := sess.Token(); ok {
		t.Fatalf("token must be gone after rejection")
	}
}

func TestClient_AnyEndpointRejects(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, ``)
	c := newTestClient(srv)

	calls := map[string]func(context.Context) error{
		"admin users":  func(ctx context.Context) error { _, err := c.Admin().ListUsers(ctx); return err },
		"admin delete": func(ctx context.Context) error { return c.Admin().DeleteReservation(ctx, 4) },
		"logout":       func(ctx context.Context) error { return c.Logout(ctx) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			sess := &stubSession{token: "stale"}
			err := call(ports.ContextWithSession(context.Background(), sess))
			if !errors.Is(err, domain.ErrSessionRejected) || sess.invalidated != 1 {
				t.Fatalf("err=%v invalidated=%d", err, sess.invalidated)
			}
		})
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	cases := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusBadRequest, `{"message":"Campos requeridos faltantes","faltantes":["cargo","nivel"]}`, domain.ErrInvalidInput},
		{http.StatusForbidden, `{"message":"Acceso solo para administradores"}`, domain.ErrForbidden},
		{http.StatusNotFound, `{"message":"Reserva no encontrada"}`, domain.ErrNotFound},
		{http.StatusConflict, `{"message":"Horario ya reservado","detalle":"Existe una solicitud"}`, domain.ErrConflict},
		{http.StatusBadGateway, `upstream exploded`, domain.ErrUpstreamUnavailable},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv, _ := newServer(t, tc.status, tc.body)
			sess := &stubSession{token: "tok"}
			ctx := ports.ContextWithSession(context.Background(), sess)

			_, err := newTestClient(srv).CreateReservation(ctx, domain.ReservationRequest{FechaPrestamo: "7/3/2024"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tc.status {
				t.Fatalf("expected *APIError with status %d, got %v", tc.status, err)
			}
			if sess.invalidated != 0 {
				t.Fatalf("only 401 may invalidate the session")
			}
		})
	}
}

func TestAPIError_Fields(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"message":"Número de estudiantes excede la capacidad","maximo":35}`)
	_, err := newTestClient(srv).CreateReservation(context.Background(), domain.ReservationRequest{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Maximo != 35 {
		t.Fatalf("expected maximo 35, got %d", apiErr.Maximo)
	}
	if apiErr.UserMessage() != "Número de estudiantes excede la capacidad" {
		t.Fatalf("unexpected user message %q", apiErr.UserMessage())
	}
}

func TestClient_UnreachableUpstream(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	c := New(Config{BaseURL: url, Timeout: time.Second, Logger: zerolog.Nop()})
	err := c.Register(context.Background(), domain.Registration{})
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClient_AdminPaths(t *testing.T) {
	srv, seen := newServer(t, http.StatusOK, `{"usuario":{"id":3,"nombre":"Luis"}}`)
	c := newTestClient(srv)

	user, err := c.Admin().UpdateUser(context.Background(), 3, domain.UserUpdate{Nombre: "Luis"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 3 || user.Nombre != "Luis" {
		t.Fatalf("unexpected user %+v", user)
	}
	got := (*seen)[0]
	if got.method != http.MethodPatch || got.path != "/api/admin/users/3" {
		t.Fatalf("unexpected request %s %s", got.method, got.path)
	}
	if string(got.body) != `{"nombre":"Luis"}` {
		t.Fatalf("unchanged fields must be omitted, got %s", got.body)
	}
}

func TestClient_ObserverLabels(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, ``)
	var endpoints []string
	c := New(Config{
		BaseURL: srv.URL,
		Logger:  zerolog.Nop(),
		Observer: func(_, endpoint string, status int, _ time.Duration) {
			endpoints = append(endpoints, endpoint)
			if status != http.StatusOK {
				t.Errorf("unexpected status %d", status)
			}
		},
	})

	if err := c.Admin().DeleteUser(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(endpoints) != 1 || endpoints[0] != "/admin/users/:id" {
		t.Fatalf("unexpected endpoints %v", endpoints)
	}
}
