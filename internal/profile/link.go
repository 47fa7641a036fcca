package profile

import (
	"net/url"
	"strings"
)

// Link is a user-entered URL prepared for display.
type Link struct {
	Raw   string
	Href  string // absolute URL, empty when invalid
	Host  string // host without a leading "www."
	Path  string // path without the trailing slash
	Valid bool
}

// NormalizeLink turns what the user typed ("github.com/jane",
// "https://www.linkedin.com/in/jane") into a clickable link. Input without
// an http(s) scheme gets "https://" prefixed. Anything that still does not
// parse as a URL with a host comes back with Valid=false; it never panics.
func NormalizeLink(raw string) Link {
	s := strings.TrimSpace(raw)
	l := Link{Raw: s}
	if s == "" {
		return l
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" || strings.ContainsAny(u.Hostname(), " \t") {
		return l
	}

	l.Href = u.String()
	l.Host = strings.TrimPrefix(u.Hostname(), "www.")
	l.Path = strings.TrimSuffix(u.EscapedPath(), "/")
	l.Valid = true
	return l
}
