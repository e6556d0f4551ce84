// Package datefmt turns the human-entered report dates ("15 Jan 2024",
// "15-Jan-24", "2024-01-15", "15/01/2024") into comparable timestamps.
package datefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseable is wrapped by every ParseError.
var ErrUnparseable = errors.New("unparseable date")

// ParseError reports the input that could not be normalized.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date %q: %v", e.Input, ErrUnparseable)
}

func (e *ParseError) Unwrap() error { return ErrUnparseable }

const (
	// DisplayLayout is the format used by tables, exports and report text.
	DisplayLayout = "02 Jan 2006"
	// InputLayout is the format of date query parameters.
	InputLayout = "2006-01-02"
)

// Layouts tried before falling back to the day/month/year split. Slash dates
// are day-first: every writer of this data uses the en-GB locale.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	InputLayout,
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2/1/2006",
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Parse normalizes a report date. Date-only inputs resolve to midnight UTC.
// Timestamps keep the wall clock of their own offset, relabelled as UTC, so
// the calendar day never moves. Two-digit years are read as 20YY; this holds
// until 2099.
func Parse(value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &ParseError{Input: value}
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
		}
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ' ' })
	if len(parts) < 3 {
		return time.Time{}, &ParseError{Input: value}
	}

	day, ok := leadingInt(parts[0])
	if !ok {
		return time.Time{}, &ParseError{Input: value}
	}

	monthKey := strings.ToLower(parts[1])
	if len(monthKey) > 3 {
		monthKey = monthKey[:3]
	}
	month, ok := months[monthKey]
	if !ok {
		return time.Time{}, &ParseError{Input: value}
	}

	year, ok := leadingInt(parts[2])
	if !ok {
		return time.Time{}, &ParseError{Input: value}
	}
	if len(parts[2]) == 2 {
		year += 2000
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

// ParseOr returns fallback when value cannot be parsed.
func ParseOr(value string, fallback time.Time) time.Time {
	t, err := Parse(value)
	if err != nil {
		return fallback
	}
	return t
}

// Display renders value as "02 Jan 2006", or returns it untouched when it
// cannot be parsed.
func Display(value string) string {
	t, err := Parse(value)
	if err != nil {
		return value
	}
	return t.Format(DisplayLayout)
}

// RFTDisplay renders value as "02 JAN 2006" for the RFT registry.
func RFTDisplay(value string) string {
	t, err := Parse(value)
	if err != nil {
		return value
	}
	return strings.ToUpper(t.Format(DisplayLayout))
}

// StartOfDay truncates t to midnight in UTC, keeping t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 of t's calendar day in UTC.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// SameMonth reports whether a and b share month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func leadingInt(token string) (int, bool) {
	end := 0
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(token[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
