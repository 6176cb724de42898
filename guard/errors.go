package guard

import (
	"fmt"
	"strings"
)

// ViolationKind classifies why a request was rejected.
type ViolationKind string

const (
	// KindMalformedHeader marks a header value containing characters outside
	// the permitted set for its kind (host-like, port, protocol, prefix).
	KindMalformedHeader ViolationKind = "MALFORMED_HEADER"

	// KindUnparsableHeader marks a host-like header value that cannot be
	// parsed even as a synthetic http:// URL.
	KindUnparsableHeader ViolationKind = "UNPARSABLE_HEADER"

	// KindDisallowedHost marks a syntactically valid hostname, from the URL
	// or a header, that the allow-list does not authorize.
	KindDisallowedHost ViolationKind = "DISALLOWED_HOST"
)

// ViolationError describes a single request-rejection condition. Validation
// is deterministic and idempotent, so none of these are retryable.
type ViolationError struct {
	Kind   ViolationKind
	Header string // offending header name, empty for URL violations
	Value  string // offending value as read from the request
	msg    string
}

func (e *ViolationError) Error() string {
	return e.msg
}

func newMalformed(header, value, detail string) *ViolationError {
	return &ViolationError{
		Kind:   KindMalformedHeader,
		Header: header,
		Value:  value,
		msg:    fmt.Sprintf("Header %q with value %q %s.", strings.ToLower(header), value, detail),
	}
}

func newUnparsable(header, value string) *ViolationError {
	return &ViolationError{
		Kind:   KindUnparsableHeader,
		Header: header,
		Value:  value,
		msg:    fmt.Sprintf("Header %q with value %q cannot be parsed as a hostname.", strings.ToLower(header), value),
	}
}

func newDisallowedHeader(header, value string) *ViolationError {
	return &ViolationError{
		Kind:   KindDisallowedHost,
		Header: header,
		Value:  value,
		msg:    fmt.Sprintf("Header %q with value %q is not allowed.", strings.ToLower(header), value),
	}
}

func newDisallowedHostname(hostname string) *ViolationError {
	return &ViolationError{
		Kind:  KindDisallowedHost,
		Value: hostname,
		msg:   fmt.Sprintf("Hostname %q is not allowed.", hostname),
	}
}
