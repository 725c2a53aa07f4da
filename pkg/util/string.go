package util

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

var ErrUnterminatedQuote = errors.New("unterminated quoted section")

// NormalizeHeaderValue strips all leading and trailing whitespace and replaces runs of
// inner whitespace in the string with single spaces. Double-quoted sections are passed
// through unmodified; an unterminated quoted section is an error.
func NormalizeHeaderValue(s string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(s))

	inQuotes := false
	pendingSpace := false

	for _, r := range s {
		if inQuotes {
			sb.WriteRune(r)
			if r == '"' {
				inQuotes = false
			}
			continue
		}

		if unicode.IsSpace(r) {
			pendingSpace = sb.Len() > 0
			continue
		}

		if pendingSpace {
			sb.WriteRune(' ')
			pendingSpace = false
		}

		sb.WriteRune(r)

		if r == '"' {
			inQuotes = true
		}
	}

	if inQuotes {
		return "", ErrUnterminatedQuote
	}

	return sb.String(), nil
}

// FormatDateTime formats the given time using the ISO 8601 date time format, in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(TimeFormatISO8601DateTime)
}

// FormatDate formats the given time using the ISO 8601 date format, in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(TimeFormatISO8601Date)
}

// ParseDateTime parses the provided string using the ISO 8601 date time format.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(TimeFormatISO8601DateTime, s)
}

// ParseDate parses the provided string using the ISO 8601 date format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(TimeFormatISO8601Date, s)
}
