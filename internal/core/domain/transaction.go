package domain

import (
	"fmt"
	"strings"
	"time"
)

// AnonymousIdentity is recorded for callers without an active session.
const AnonymousIdentity = "anonymous"

// Transaction is one audited request handled by the portal.
type Transaction struct {
	Timestamp  time.Time
	Method     string
	Path       string
	Status     int
	Identity   string
	RemoteAddr string
	Endpoint   string
}

// Line renders the transaction in the pipe-separated audit format:
//
//	2026-01-02 15:04:05 | method=GET | path=/user | status=200 | identity=7 | ip=10.0.0.1 | endpoint=/user
func (t Transaction) Line() string {
	identity := t.Identity
	if identity == "" {
		identity = AnonymousIdentity
	}
	fragments := []string{
		t.Timestamp.Format(time.DateTime),
		"method=" + strings.ToUpper(t.Method),
		"path=" + t.Path,
		fmt.Sprintf("status=%d", t.Status),
		"identity=" + identity,
	}
	if t.RemoteAddr != "" {
		fragments = append(fragments, "ip="+t.RemoteAddr)
	}
	if t.Endpoint != "" {
		fragments = append(fragments, "endpoint="+t.Endpoint)
	}
	return strings.Join(fragments, " | ")
}
