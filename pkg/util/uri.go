package util

import (
	"net/url"
	"sort"
	"strings"
)

// noEscape marks the bytes that pass through path escaping unmodified, the
// RFC 3986 unreserved set.
var noEscape [256]bool

func init() {
	for i := 0; i < len(noEscape); i++ {
		noEscape[i] = (i >= 'A' && i <= 'Z') ||
			(i >= 'a' && i <= 'z') ||
			(i >= '0' && i <= '9') ||
			i == '-' ||
			i == '.' ||
			i == '_' ||
			i == '~'
	}
}

const upperhex = "0123456789ABCDEF"

// EscapePath percent-encodes a URI path for use in a canonical request. Unreserved
// bytes pass through unmodified, every other byte becomes %XX with upper-case hex
// digits. The path separator is kept as-is unless encodeSep is set.
func EscapePath(path string, encodeSep bool) string {
	var sb strings.Builder
	sb.Grow(len(path))

	for i := 0; i < len(path); i++ {
		c := path[i]
		if noEscape[c] || (c == '/' && !encodeSep) {
			sb.WriteByte(c)
			continue
		}

		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&0xf])
	}

	return sb.String()
}

// EncodeQuery builds a canonical query string from the given values. Each key and
// value is percent-encoded first, then the encoded pairs are sorted by key with ties
// broken by value, so the ordering is that of the encoded bytes rather than the raw ones.
func EncodeQuery(query url.Values) string {
	type pair struct {
		key   string
		value string
	}

	pairs := make([]pair, 0, len(query))
	for k, vv := range query {
		key := EscapePath(k, true)
		for _, v := range vv {
			pairs = append(pairs, pair{key: key, value: EscapePath(v, true)})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}

		return pairs[i].value < pairs[j].value
	})

	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}

		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}

	return sb.String()
}
