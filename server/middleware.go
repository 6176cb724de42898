package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/gaborage/hostguard/allowlist"
	"github.com/gaborage/hostguard/config"
	"github.com/gaborage/hostguard/logger"
)

// SetupMiddlewares registers the full middleware chain for an engine
// embedding hostguard: request ID, recovery, request logging, security
// headers, body limit, timeout, the IP pre-guard, host validation, and
// response timing.
func SetupMiddlewares(e *echo.Echo, log logger.Logger, cfg *config.Config) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Error().
				Err(err).
				Str("request_id", safeGetRequestID(c)).
				Str("stack", string(stack)).
				Msg("Panic recovered")
			return err
		},
	}))

	e.Use(RequestLogger(log))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         3600,
	}))

	e.Use(middleware.BodyLimit("10M"))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: cfg.Server.Timeout.Handler,
	}))

	e.Use(PreGuard(cfg.Guard.PreGuard.RequestsPerSecond))

	hosts := allowlist.New(cfg.Guard.AllowedHosts)
	if cfg.Guard.Deferred {
		e.Use(DeferredHostGuard(hosts, log))
	} else {
		e.Use(HostGuard(hosts, log))
	}

	e.Use(Timing())
}

// Timing returns a middleware that reports request processing duration via
// the X-Response-Time header.
func Timing() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// Response may be nil after the timeout middleware fires.
			if resp := c.Response(); resp != nil {
				resp.Header().Set(HeaderXResponseTime, time.Since(start).String())
			}
			return err
		}
	}
}
