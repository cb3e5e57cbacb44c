// Package datefmt converts reservation dates between the two representations
// used at the portal boundary:
//
//	input form  YYYY-MM-DD   (date pickers, zero-padded)
//	wire form   D/M/YYYY     (remote API, no padding)
//
// All functions are pure: no I/O, no hidden state.
package datefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/es"
)

const (
	inputSep = "-"
	wireSep  = "/"
)

// ErrFormat is the sentinel wrapped by every FormatError.
var ErrFormat = errors.New("invalid date format")

// FormatError reports an input-form date that cannot be converted.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("datefmt: %q: %s", e.Input, e.Reason)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// defaultTranslator renders weekday names; the portal serves a Spanish-speaking campus.
var defaultTranslator = es.New()

// ToWireFormat converts "YYYY-MM-DD" into "D/M/YYYY". Day and month lose
// their leading zeros; the year is kept as written. Components beyond the
// third are ignored.
func ToWireFormat(input string) (string, error) {
	parts := strings.Split(input, inputSep)
	if len(parts) < 3 {
		return "", &FormatError{Input: input, Reason: "expected YYYY-MM-DD"}
	}

	year, month, day := parts[0], parts[1], parts[2]
	for _, p := range []string{year, month, day} {
		if !isDigits(p) {
			return "", &FormatError{Input: input, Reason: fmt.Sprintf("component %q is not numeric", p)}
		}
	}

	m, err := strconv.Atoi(month)
	if err != nil {
		return "", &FormatError{Input: input, Reason: "month out of range"}
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return "", &FormatError{Input: input, Reason: "day out of range"}
	}

	return fmt.Sprintf("%d/%d/%s", d, m, year), nil
}

// ToInputFormat converts "D/M/YYYY" into "YYYY-MM-DD", zero-padding day and
// month to two characters. Values that do not split into exactly three
// components are returned unchanged.
//
// The passthrough keeps legacy rows (stored in ISO form by the API) editable.
// It also hides malformed data; see DESIGN.md.
func ToInputFormat(wire string) string {
	parts := strings.Split(wire, wireSep)
	if len(parts) != 3 {
		return wire
	}
	day, month, year := parts[0], parts[1], parts[2]
	return year + inputSep + padLeft(month, 2) + inputSep + padLeft(day, 2)
}

// WeekdayLabel returns the Spanish weekday name for a wire-form date, or ""
// when any component is not a positive integer.
func WeekdayLabel(wire string) string {
	return WeekdayLabelIn(defaultTranslator, wire)
}

// WeekdayLabelIn is WeekdayLabel with an explicit locale.
func WeekdayLabelIn(tr locales.Translator, wire string) string {
	t, ok := calendarDate(wire)
	if !ok {
		return ""
	}
	return tr.WeekdayWide(t.Weekday())
}

// ParseWire parses a strict wire-form date. Unlike WeekdayLabel it rejects
// dates that do not exist on the calendar (31/2/2024).
func ParseWire(wire string) (time.Time, error) {
	t, err := time.Parse("2/1/2006", wire)
	if err != nil {
		return time.Time{}, &FormatError{Input: wire, Reason: "expected D/M/YYYY"}
	}
	return t, nil
}

// calendarDate builds a local calendar date from a wire value. Out-of-range
// days and months roll over into the following month or year.
func calendarDate(wire string) (time.Time, bool) {
	parts := strings.Split(wire, wireSep)
	if len(parts) < 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts[:3] {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return time.Time{}, false
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
