// Package allowlist decides whether a hostname is an authorized target for
// server-side rendering. A Set is built once from configuration and is
// immutable afterwards, so it can be shared across in-flight requests
// without locking.
package allowlist

import "strings"

const wildcardPrefix = "*."

// Set holds hostname patterns: exact entries and wildcard entries of the
// form "*.domain". Entries are kept verbatim; no case folding, trailing-dot
// stripping, or punycode conversion is applied on either side of a match.
type Set struct {
	exact map[string]struct{}
	// wildcard suffixes with the leading "*" stripped, e.g. ".example.com"
	suffixes []string
}

// New builds a Set from the given patterns. Empty entries are skipped;
// everything else is stored as supplied.
func New(patterns []string) *Set {
	s := &Set{exact: make(map[string]struct{}, len(patterns))}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, wildcardPrefix) {
			s.suffixes = append(s.suffixes, p[1:])
			continue
		}
		s.exact[p] = struct{}{}
	}
	return s
}

// Contains reports whether hostname is authorized: an exact entry match, or
// a literal suffix match against any wildcard entry with its "*" stripped.
// The suffix keeps its leading dot, so "*.example.com" matches
// "api.example.com" but not the bare "example.com".
func (s *Set) Contains(hostname string) bool {
	if _, ok := s.exact[hostname]; ok {
		return true
	}
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(hostname, suffix) {
			return true
		}
	}
	return false
}

// Empty reports whether the Set has no entries at all. Callers typically
// treat an empty Set as "validation not configured" and fall back to an
// unvalidated response path rather than rejecting every request.
func (s *Set) Empty() bool {
	return len(s.exact) == 0 && len(s.suffixes) == 0
}

// Len returns the total number of stored patterns.
func (s *Set) Len() int {
	return len(s.exact) + len(s.suffixes)
}
