package utils

import (
	"net/url"
	"strings"
)

// Absolute resolves href against base so extracted links always land in the
// artifact as full addresses. Anything that does not parse comes back
// unchanged.
func Absolute(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return u.String()
	}
	bu, err := url.Parse(base)
	if err != nil || bu.Scheme == "" {
		return href
	}
	return bu.ResolveReference(u).String()
}
