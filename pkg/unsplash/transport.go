package unsplash

import (
	"net/http"
)

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip clones the request so the caller's headers are left untouched.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.RoundTripper
	if next == nil {
		next = http.DefaultTransport
	}
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return next.RoundTrip(clonedReq)
}
