package domain

import "errors"

var (
	// ErrSessionRejected is returned when the remote API rejected the
	// caller's credentials. The local token has already been removed.
	ErrSessionRejected = errors.New("session rejected by upstream")

	// ErrInvalidCredentials is returned by login when the auth API refused
	// the credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource conflict")
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateSubmission marks a reservation form submitted twice
	// within the de-duplication window.
	ErrDuplicateSubmission = errors.New("duplicate reservation submission")

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
