// Package server provides Echo middleware wiring the guard package into an
// HTTP serving stack: upfront and deferred host validation, an IP
// rate-limit pre-guard, and request logging.
package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/hostguard/allowlist"
	"github.com/gaborage/hostguard/guard"
	"github.com/gaborage/hostguard/logger"
)

// PatchedHeadersContextKey is the echo context key under which
// DeferredHostGuard stores the checked header collection.
const PatchedHeadersContextKey = "hostguard.patched_headers"

// HostGuard returns middleware that validates each request upfront and
// rejects violations with a 400 before any handler runs. An empty
// allow-list disables the guard; the engine then serves its unvalidated
// fallback instead of rejecting everything.
func HostGuard(hosts *allowlist.Set, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if hosts.Empty() {
				return next(c)
			}

			if err := guard.ValidateRequest(c.Request(), hosts); err != nil {
				logViolation(log, c, err)
				return rejectionJSON(c, http.StatusBadRequest, err.Error())
			}

			return next(c)
		}
	}
}

// DeferredHostGuard returns middleware for handlers that read headers
// through framework abstractions the guard cannot wrap ahead of time. It
// swaps in a patched clone of the request, exposes its checked headers via
// PatchedHeaders, and after the chain returns rejects the request if the
// violation signal resolved, unless the response is already committed.
func DeferredHostGuard(hosts *allowlist.Set, log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if hosts.Empty() {
				return next(c)
			}

			patched, sig := guard.Patch(c.Request(), hosts)
			c.SetRequest(patched.Request())
			c.Set(PatchedHeadersContextKey, patched.Headers())

			err := next(c)

			if verr := sig.Err(); verr != nil {
				logViolation(log, c, verr)
				if c.Response().Committed {
					// Too late to replace the response; the rejection is
					// recorded in the log above.
					return err
				}
				return rejectionJSON(c, http.StatusBadRequest, verr.Error())
			}

			return err
		}
	}
}

// PatchedHeaders returns the checked header collection stored by
// DeferredHostGuard, if any.
func PatchedHeaders(c echo.Context) (*guard.CheckedHeaders, bool) {
	h, ok := c.Get(PatchedHeadersContextKey).(*guard.CheckedHeaders)
	return h, ok
}

func logViolation(log logger.Logger, c echo.Context, err error) {
	ev := log.Warn().
		Err(err).
		Str("remote_ip", c.RealIP()).
		Str("request_id", safeGetRequestID(c))

	var verr *guard.ViolationError
	if errors.As(err, &verr) {
		ev = ev.Str("kind", string(verr.Kind)).Str("header", verr.Header)
	}
	ev.Msg("Request rejected by host guard")
}
