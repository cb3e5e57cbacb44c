// Package session holds the client-scoped slots the session token lives in.
package session

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// CookieName is the slot the token is kept under in the browser.
const CookieName = "access_token"

// CookieOptions controls the attributes of the token cookie.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
	Path     string
}

// CookieStore keeps the token in the caller's browser. It is confined to one
// request: writes are visible to later reads within the same request.
type CookieStore struct {
	c    echo.Context
	opts CookieOptions

	written bool
	pending string
}

func NewCookieStore(c echo.Context, opts CookieOptions) *CookieStore {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	return &CookieStore{c: c, opts: opts}
}

func (s *CookieStore) Get() (string, bool) {
	if s.written {
		return s.pending, s.pending != ""
	}
	ck, err := s.c.Cookie(CookieName)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

func (s *CookieStore) Set(token string) {
	s.written, s.pending = true, token
	ck := s.cookie(token)
	if s.opts.MaxAge > 0 {
		ck.MaxAge = int(s.opts.MaxAge / time.Second)
		ck.Expires = time.Now().Add(s.opts.MaxAge)
	}
	s.c.SetCookie(ck)
}

func (s *CookieStore) Remove() {
	s.written, s.pending = true, ""
	ck := s.cookie("")
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	s.c.SetCookie(ck)
}

func (s *CookieStore) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     s.opts.Path,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	}
}
