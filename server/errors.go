package server

import "github.com/labstack/echo/v4"

// rejectionJSON writes the standard error envelope used by every guard
// middleware rejection.
func rejectionJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"message":    message,
			"status":     status,
			"request_id": safeGetRequestID(c),
		},
	})
}

// safeGetRequestID extracts the request ID from the response or falls back
// to the request header. The response may be nil after a timeout.
func safeGetRequestID(c echo.Context) string {
	if resp := c.Response(); resp != nil {
		return resp.Header().Get(echo.HeaderXRequestID)
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
