// Package dateutil parses and formats the calendar dates carried by a letter.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate indicates a date value that cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidDateFormat indicates an invalid date layout string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// ISOLayout is the storage layout of every letter date field.
const ISOLayout = "2006-01-02"

// LongLayout is the display layout ("September 1, 2025").
const LongLayout = "January 2, 2006"

// MaxDateFormatLength bounds user-supplied layouts.
const MaxDateFormatLength = 50

// tokens are ordered longest first for greedy matching.
var tokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named layouts accepted after "auto:".
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

// Parse reads a YYYY-MM-DD date, also accepting a full RFC 3339 timestamp.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if t, err := time.Parse(ISOLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return t, nil
}

// FormatLong renders value in LongLayout.
func FormatLong(value string) (string, error) {
	t, err := Parse(value)
	if err != nil {
		return "", err
	}
	return t.Format(LongLayout), nil
}

// ISO formats t as a stored date value.
func ISO(t time.Time) string {
	return t.Format(ISOLayout)
}

// ParseDateFormat converts a token layout (YYYY, MM, D, ...) to a Go layout.
// Text inside brackets is copied literally.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	b.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := writeToken(&b, format[i:])
		if n == 0 {
			b.WriteByte(format[i])
			n = 1
		}
		i += n
	}
	return b.String(), nil
}

func writeToken(b *strings.Builder, s string) int {
	for _, t := range tokens {
		if strings.HasPrefix(s, t.token) {
			b.WriteString(t.goFmt)
			return len(t.token)
		}
	}
	return 0
}

// ResolveDate expands "auto" to the ISO date of now and "auto:FORMAT" or
// "auto:preset" to now in that layout. Other values pass through.
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)
	switch {
	case !strings.HasPrefix(lower, "auto"):
		return value, nil
	case lower == "auto":
		return ISO(now), nil
	case !strings.HasPrefix(lower, "auto:"):
		return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	format := value[len("auto:"):]
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	goFmt, err := ParseDateFormat(format)
	if err != nil {
		return "", err
	}
	return now.Format(goFmt), nil
}
