package guard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patchedExample(t *testing.T, mutate func(r *http.Request)) (*PatchedRequest, *Signal) {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "https://allowed.example.com/page", http.NoBody)
	if mutate != nil {
		mutate(r)
	}
	return Patch(r, exampleHosts())
}

func TestPatchCleanRequest(t *testing.T) {
	p, sig := patchedExample(t, nil)

	v, err := p.Headers().Get(HeaderHost)
	require.NoError(t, err)
	assert.Equal(t, "allowed.example.com", v)

	v, err = p.Headers().Get("Accept")
	require.NoError(t, err)
	assert.Empty(t, v)

	err = p.Headers().Entries(func(string, []string) bool { return true })
	require.NoError(t, err)

	assert.False(t, sig.Resolved())
	assert.NoError(t, sig.Err())
}

func TestPatchGetDetectsViolation(t *testing.T) {
	p, sig := patchedExample(t, func(r *http.Request) {
		r.Header.Set(HeaderXForwardedHost, "bad host")
	})

	// Reading the offending header fails synchronously and resolves the
	// signal.
	v, err := p.Headers().Get(HeaderXForwardedHost)
	assert.Equal(t, "bad host", v)
	var verr *ViolationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindMalformedHeader, verr.Kind)

	require.True(t, sig.Resolved())
	assert.Equal(t, err, sig.Err())

	select {
	case <-sig.Done():
	default:
		t.Fatal("Done channel should be closed after resolution")
	}
}

func TestPatchEntriesDetectsViolation(t *testing.T) {
	p, sig := patchedExample(t, func(r *http.Request) {
		r.Header.Set("Accept", "text/html")
		r.Header.Set(HeaderXForwardedHost, "attacker.com")
	})

	// An incidental full iteration must also trigger the check and stop at
	// the violation.
	err := p.Headers().Entries(func(string, []string) bool { return true })
	var verr *ViolationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDisallowedHost, verr.Kind)
	assert.Equal(t, HeaderXForwardedHost, verr.Header)
	assert.True(t, sig.Resolved())
}

func TestPatchEntriesEarlyStop(t *testing.T) {
	p, _ := patchedExample(t, func(r *http.Request) {
		r.Header.Set("Accept", "text/html")
	})

	var seen []string
	err := p.Headers().Entries(func(name string, _ []string) bool {
		seen = append(seen, name)
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, []string{HeaderHost}, seen)
}

func TestPatchValuesDetectsViolation(t *testing.T) {
	p, sig := patchedExample(t, func(r *http.Request) {
		r.Host = "attacker.com"
	})

	values, err := p.Headers().Values(HeaderHost)
	assert.Equal(t, []string{"attacker.com"}, values)
	require.Error(t, err)
	assert.True(t, sig.Resolved())
}

func TestPatchNonSensitiveReadsSkipValidation(t *testing.T) {
	p, sig := patchedExample(t, func(r *http.Request) {
		r.Header.Set(HeaderXForwardedPort, "80a")
	})

	// Only Host and X-Forwarded-Host are checked at read time.
	_, err := p.Headers().Get(HeaderXForwardedPort)
	require.NoError(t, err)
	assert.False(t, sig.Resolved())
}

func TestSignalFirstViolationWins(t *testing.T) {
	p, sig := patchedExample(t, func(r *http.Request) {
		r.Host = "bad host"
		r.Header.Set(HeaderXForwardedHost, "attacker.com")
	})

	_, first := p.Headers().Get(HeaderHost)
	require.Error(t, first)
	_, second := p.Headers().Get(HeaderXForwardedHost)
	require.Error(t, second)

	// Both reads fail at the call site, but the signal keeps the first.
	assert.Equal(t, first, sig.Err())
	assert.NotEqual(t, second, sig.Err())
}

func TestPatchSharesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := httptest.NewRequest(http.MethodGet, "https://allowed.example.com/page", http.NoBody)
	r = r.WithContext(ctx)

	p, _ := Patch(r, exampleHosts())
	cancel()

	select {
	case <-p.Request().Context().Done():
	default:
		t.Fatal("clone should observe the original's cancellation")
	}
}

func TestPatchDoesNotMutateOriginal(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "https://allowed.example.com/page", http.NoBody)
	r.Header.Set(HeaderXForwardedHost, "attacker.com")

	p, _ := Patch(r, exampleHosts())
	_, err := p.Headers().Get(HeaderXForwardedHost)
	require.Error(t, err)

	// The original request is only read, never written.
	assert.Equal(t, "attacker.com", r.Header.Get(HeaderXForwardedHost))
	assert.Equal(t, "allowed.example.com", r.Host)
}

func TestPatchedRequestID(t *testing.T) {
	p1, _ := patchedExample(t, nil)
	p2, _ := patchedExample(t, nil)

	assert.NotEmpty(t, p1.ID())
	assert.NotEqual(t, p1.ID(), p2.ID())
}
