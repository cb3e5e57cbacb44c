package domain

import "time"

// Route is an abstract navigation target for guard decisions.
type Route string

const (
	// RouteLanding is the public landing view.
	RouteLanding Route = "/"
	// RouteUser is the standard authenticated (non-admin) view.
	RouteUser Route = "/user"
	// RouteAdmin is the admin entry view reached after an admin login.
	RouteAdmin Route = "/admin/users"
)

// Claims is the decoded payload of a session token.
type Claims struct {
	ExpiresAt   time.Time
	IsAdmin     bool
	SubjectName string
	Subject     string
	Email       string
}

// ActiveAt reports whether the claims are still valid at now. Expiry is
// strict: a token expiring exactly at now is no longer active.
func (c *Claims) ActiveAt(now time.Time) bool {
	return c != nil && c.ExpiresAt.After(now)
}

// Identity returns the best audit identity available in the claims.
func (c *Claims) Identity() string {
	if c == nil {
		return ""
	}
	switch {
	case c.Subject != "":
		return c.Subject
	case c.Email != "":
		return c.Email
	default:
		return c.SubjectName
	}
}

// Decision is the outcome of evaluating access rules for a protected view.
type Decision struct {
	Allowed  bool
	Redirect Route
}

// Allow grants access.
func Allow() Decision { return Decision{Allowed: true} }

// RedirectTo denies access and names the fallback route.
func RedirectTo(r Route) Decision { return Decision{Redirect: r} }

// SessionEvent describes a session state transition delivered to subscribers.
type SessionEvent string

const (
	SessionBegan    SessionEvent = "began"
	SessionEnded    SessionEvent = "ended"
	SessionRejected SessionEvent = "rejected"
)
