package util

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func SanitizeHost(req *http.Request) {
	host := GetHost(req)
	_, port := splitHostPort(host)

	if port != "" && isDefaultPort(req.URL.Scheme, port) {
		req.Host, _ = splitHostPort(host)
	}
}

func GetHost(req *http.Request) string {
	if len(req.Host) > 0 {
		return req.Host
	}

	if req.URL == nil {
		return ""
	}

	return req.URL.Host
}

// GetURLPath returns the canonical path of the URL. Each segment of the escaped path
// is decoded and escaped exactly once, so pre-encoded segments are not encoded twice
// and an encoded separator (%2F) inside a segment stays encoded.
func GetURLPath(u *url.URL) string {
	if len(u.Opaque) > 0 {
		return fmt.Sprintf("/%s", strings.Join(strings.Split(u.Opaque, "/")[3:], "/"))
	}

	path := u.EscapedPath()
	if len(path) == 0 {
		path = "/"
	}

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		decoded, err := url.PathUnescape(segment)
		if err != nil {
			// A segment that does not decode is kept as presented.
			continue
		}

		segments[i] = EscapePath(decoded, true)
	}

	return strings.Join(segments, "/")
}

func splitHostPort(hostport string) (host, port string) {
	host = hostport

	colon := strings.LastIndexByte(host, ':')
	if colon != -1 && validOptionalPort(host[colon:]) {
		host, port = host[:colon], host[colon+1:]
	}

	if strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[1 : len(host)-1]
	}

	return
}

func validOptionalPort(port string) bool {
	if port == "" {
		return true
	}
	if port[0] != ':' {
		return false
	}
	for _, b := range port[1:] {
		if b < '0' || b > '9' {
			return false
		}
	}
	return true
}

func isDefaultPort(scheme string, port string) bool {
	switch strings.ToLower(scheme) {
	case "http":
		return port == "80"
	case "https":
		return port == "443"
	default:
		return false
	}
}
