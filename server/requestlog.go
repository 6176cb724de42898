package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/hostguard/logger"
)

// RequestLogger returns a middleware that logs a summary line for every
// request: method, path, status, latency, and request ID. Rejections from
// the guard middlewares surface here as 4xx statuses.
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)
			status := c.Response().Status

			ev := log.Info()
			switch {
			case status >= 500:
				ev = log.Error()
			case status >= 400:
				ev = log.Warn()
			}
			if err != nil {
				ev = ev.Err(err)
			}

			ev.Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Str("host", c.Request().Host).
				Int("status", status).
				Dur("latency", latency).
				Str("request_id", safeGetRequestID(c)).
				Msg("Request completed")

			return err
		}
	}
}
