package guard

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gaborage/hostguard/allowlist"
)

// PatchedRequest is a clone of an incoming request whose header reads carry
// validation as a side effect. It exists for callers that hand the request
// to code reading headers through its own abstraction, deep inside
// third-party call stacks where a returned error may be swallowed.
//
// The clone shares the original's context, so cancelling the original
// cancels the clone; the body is shared by reference, not duplicated.
type PatchedRequest struct {
	req     *http.Request
	headers *CheckedHeaders
	signal  *Signal
	id      string
}

// Patch clones r and wraps its header collection so that every read of
// Host or X-Forwarded-Host re-runs the host-header check. The returned
// Signal resolves with the first violation detected; it never resolves for
// a clean request, and callers must not block on it unconditionally.
func Patch(r *http.Request, hosts *allowlist.Set) (*PatchedRequest, *Signal) {
	clone := r.Clone(r.Context())
	sig := newSignal()
	p := &PatchedRequest{
		req: clone,
		headers: &CheckedHeaders{
			inner:  clone.Header,
			host:   clone.Host,
			hosts:  hosts,
			signal: sig,
		},
		signal: sig,
		id:     uuid.NewString(),
	}
	return p, sig
}

// Request returns the underlying cloned request. Reads that go straight to
// its Header map bypass validation; use Headers for checked access.
func (p *PatchedRequest) Request() *http.Request {
	return p.req
}

// Headers returns the checked header collection for the clone.
func (p *PatchedRequest) Headers() *CheckedHeaders {
	return p.headers
}

// Outcome returns the one-shot violation signal paired with this request.
func (p *PatchedRequest) Outcome() *Signal {
	return p.signal
}

// ID returns an identifier for correlating violation logs with this
// patched request.
func (p *PatchedRequest) ID() string {
	return p.id
}

// CheckedHeaders decorates a header collection with read-time validation.
// Single-key lookup, value iteration, and entry iteration all run the
// host-header check whenever a security-sensitive name is touched, whether
// directly or incidentally during a full iteration. The first violation
// resolves the paired Signal and is also returned from the triggering call.
type CheckedHeaders struct {
	inner  http.Header
	host   string // promoted Host value of the clone
	hosts  *allowlist.Set
	signal *Signal
}

// Get performs a single-key lookup. The value is returned even on
// violation so the caller sees exactly what was read.
func (h *CheckedHeaders) Get(name string) (string, error) {
	values := h.values(name)
	if len(values) == 0 {
		return "", nil
	}
	return values[0], h.checkRead(name, values[0])
}

// Values returns all values stored under name, validating the read.
func (h *CheckedHeaders) Values(name string) ([]string, error) {
	values := h.values(name)
	if len(values) == 0 {
		return nil, nil
	}
	return values, h.checkRead(name, values[0])
}

// Entries iterates over every header entry, including the promoted Host
// value, calling yield with the canonical name and all values. Iteration
// stops early and the violation is returned when a sensitive read fails or
// when yield returns false. This is the only generic consumption path, so
// full iterations cannot bypass validation.
func (h *CheckedHeaders) Entries(yield func(name string, values []string) bool) error {
	if h.host != "" {
		if err := h.checkRead(HeaderHost, h.host); err != nil {
			return err
		}
		if !yield(HeaderHost, []string{h.host}) {
			return nil
		}
	}
	for name, values := range h.inner {
		if len(values) == 0 {
			continue
		}
		if err := h.checkRead(name, values[0]); err != nil {
			return err
		}
		if !yield(name, values) {
			return nil
		}
	}
	return nil
}

func (h *CheckedHeaders) values(name string) []string {
	if http.CanonicalHeaderKey(name) == HeaderHost && h.host != "" {
		return []string{h.host}
	}
	return h.inner.Values(name)
}

// checkRead runs the stored per-header check when name is sensitive. The
// first violation wins the signal; every violation is still returned to
// the caller.
func (h *CheckedHeaders) checkRead(name, value string) error {
	canonical := http.CanonicalHeaderKey(name)
	if _, ok := sensitiveHeaders[canonical]; !ok {
		return nil
	}
	if err := checkHostValue(canonical, firstValue(value), h.hosts); err != nil {
		h.signal.resolve(err)
		return err
	}
	return nil
}
