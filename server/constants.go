package server

// HTTP header names used by the middleware chain. Validation-related
// header names live in the guard package; Echo's own constants
// (echo.HeaderXRequestID and friends) are used directly.
const (
	// HeaderXResponseTime reports request processing duration. Set by the
	// timing middleware on all responses.
	HeaderXResponseTime = "X-Response-Time"

	// HeaderXRealIP contains the client's real IP address when behind a
	// proxy. The pre-guard keys its buckets on echo's RealIP(), which
	// consults this header when X-Forwarded-For is absent.
	HeaderXRealIP = "X-Real-IP"
)
