package handler

import (
	"net/url"
	"strings"

	"connect-service/internal/session"
)

const stateSize = 32

// newState returns the OAuth state bound to the browser's pending client.
func newState() (string, error) {
	return session.RandomToken(stateSize)
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return raw
}
