package guard

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gaborage/hostguard/allowlist"
)

var (
	// hostChars is the permitted character set for Host and X-Forwarded-Host
	// values: letters, digits, dots, colons (IPv6 literals, ports), and
	// hyphens.
	hostChars = regexp.MustCompile(`(?i)^[a-z0-9.:-]+$`)

	portDigits = regexp.MustCompile(`^\d+$`)

	// dotSegment matches a "." or ".." path segment bounded by slashes,
	// backslashes, or the ends of the string.
	dotSegment = regexp.MustCompile(`(^|[/\\])\.\.?([/\\]|$)`)
)

// checkHostValue applies the per-header check for host-like headers: the
// character class first, then the allow-list via a synthetic http:// parse.
// value must already be reduced to its first comma-separated token.
func checkHostValue(header, value string, hosts *allowlist.Set) error {
	if !hostChars.MatchString(value) {
		return newMalformed(header, value, "contains disallowed characters")
	}
	u, err := url.Parse("http://" + value)
	if err != nil || u.Hostname() == "" {
		return newUnparsable(header, value)
	}
	if !hosts.Contains(u.Hostname()) {
		return newDisallowedHeader(header, value)
	}
	return nil
}

func checkPort(header, value string, _ *allowlist.Set) error {
	if !portDigits.MatchString(value) {
		return newMalformed(header, value, "is not a valid port")
	}
	return nil
}

func checkProto(header, value string, _ *allowlist.Set) error {
	if strings.EqualFold(value, "http") || strings.EqualFold(value, "https") {
		return nil
	}
	return newMalformed(header, value, "is not a valid protocol")
}

func checkPrefix(header, value string, _ *allowlist.Set) error {
	if len(value) >= 2 && isSlash(value[0]) && isSlash(value[1]) {
		return newMalformed(header, value, "is not a valid path prefix")
	}
	if dotSegment.MatchString(value) {
		return newMalformed(header, value, "is not a valid path prefix")
	}
	return nil
}

func isSlash(b byte) bool {
	return b == '/' || b == '\\'
}

// orderedChecks fixes the fail-fast evaluation order of the upfront path.
var orderedChecks = []struct {
	header string
	check  func(header, value string, hosts *allowlist.Set) error
}{
	{HeaderHost, checkHostValue},
	{HeaderXForwardedHost, checkHostValue},
	{HeaderXForwardedPort, checkPort},
	{HeaderXForwardedProto, checkProto},
	{HeaderXForwardedPrefix, checkPrefix},
}

// ValidateRequest runs every header rule against r and checks the request
// URL's hostname against the allow-list. It returns nil when the request
// passes, or the first *ViolationError encountered; nothing on r is
// mutated. Absent headers are skipped, and only the first comma-separated
// token of a present header is evaluated.
func ValidateRequest(r *http.Request, hosts *allowlist.Set) error {
	for _, oc := range orderedChecks {
		raw, ok := lookupHeader(r, oc.header)
		if !ok {
			continue
		}
		if err := oc.check(oc.header, firstValue(raw), hosts); err != nil {
			return err
		}
	}
	if hostname := r.URL.Hostname(); hostname != "" && !hosts.Contains(hostname) {
		return newDisallowedHostname(hostname)
	}
	return nil
}
