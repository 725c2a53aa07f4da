package config

import (
	"fmt"
	"strings"
)

// Profiles maps a profile name to its key/value settings.
type Profiles map[string]map[string]string

// ParseError reports a malformed line in a profile-style configuration source.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config parse error on line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// Parse extracts profiles from profile-style configuration text.
//
// Sections are introduced by a bracketed name and hold "key = value" lines with
// surrounding whitespace trimmed from section names, keys and values. Blank lines
// and lines whose first non-blank character is '#' or ';' are ignored. Any other
// line outside a section, or a line without a separator, is a ParseError. Parse
// assigns no meaning to keys or values.
func Parse(src []byte) (Profiles, error) {
	profiles := make(Profiles)

	var current map[string]string

	for i, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimSpace(line)

		if len(trimmed) == 0 || trimmed[0] == '#' || trimmed[0] == ';' {
			continue
		}

		if trimmed[0] == '[' {
			if !strings.HasSuffix(trimmed, "]") {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: "unterminated section header"}
			}

			name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			if len(name) == 0 {
				return nil, &ParseError{Line: i + 1, Text: line, Reason: "empty section name"}
			}

			current = profiles[name]
			if current == nil {
				current = make(map[string]string)
				profiles[name] = current
			}

			continue
		}

		if current == nil {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "entry outside of any section"}
		}

		key, value, found := strings.Cut(trimmed, "=")
		if !found {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "missing separator"}
		}

		key = strings.TrimSpace(key)
		if len(key) == 0 {
			return nil, &ParseError{Line: i + 1, Text: line, Reason: "empty key"}
		}

		current[key] = strings.TrimSpace(value)
	}

	return profiles, nil
}
