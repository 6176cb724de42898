// Package guard validates incoming requests before a server-side-rendering
// engine dispatches them: forwarded-header sanity checks, hostname
// allow-listing, and a header-read interception wrapper for frameworks that
// read headers through their own abstractions.
package guard

import (
	"net/http"
	"strings"
)

// Header names inspected by the validator, in canonical MIME form.
const (
	HeaderHost             = "Host"
	HeaderXForwardedHost   = "X-Forwarded-Host"
	HeaderXForwardedPort   = "X-Forwarded-Port"
	HeaderXForwardedProto  = "X-Forwarded-Proto"
	HeaderXForwardedPrefix = "X-Forwarded-Prefix"
)

// sensitiveHeaders are the names whose reads trigger validation in the
// deferred path. Keys are canonical.
var sensitiveHeaders = map[string]struct{}{
	HeaderHost:           {},
	HeaderXForwardedHost: {},
}

// firstValue returns the first comma-separated token of a header value,
// trimmed of surrounding whitespace. Proxies append to forwarded headers as
// comma-separated lists; only the first entry is validated. Downstream
// consumers that honor later entries are not protected by these checks.
func firstValue(raw string) string {
	v, _, _ := strings.Cut(raw, ",")
	return strings.TrimSpace(v)
}

// lookupHeader returns the raw value for name on r, honoring the Go
// convention that the Host header is promoted to r.Host and absent from the
// header map. The boolean is false when the header is not present.
func lookupHeader(r *http.Request, name string) (string, bool) {
	if http.CanonicalHeaderKey(name) == HeaderHost {
		if r.Host != "" {
			return r.Host, true
		}
		// Clients occasionally leave Host in the map (e.g. hand-built
		// requests); fall through to the map lookup.
	}
	values := r.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}
