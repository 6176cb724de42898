package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	// PreGuardCleanup defines how long to keep IP buckets in memory after
	// last use.
	PreGuardCleanup = time.Minute * 5

	// PreGuardBurstMultiplier allows small bursts above the sustained rate.
	PreGuardBurstMultiplier = 2
)

// PreGuard returns an IP-based rate limiting middleware that runs before
// host validation, to shed obvious header-spray attacks cheaply. A
// threshold of 0 or less disables it.
func PreGuard(threshold int) echo.MiddlewareFunc {
	if threshold <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	config := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(threshold),
				Burst:     threshold * PreGuardBurstMultiplier,
				ExpiresIn: PreGuardCleanup,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return rejectionJSON(c, http.StatusTooManyRequests, "IP rate limit exceeded")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return rejectionJSON(c, http.StatusTooManyRequests, "Too many requests from this IP")
		},
	}

	return middleware.RateLimiterWithConfig(config)
}
