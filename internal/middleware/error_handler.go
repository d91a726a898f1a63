package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pawScout/pkg/logger"
	jsonres "pawScout/pkg/response"
)

// ErrorHandler is the echo HTTPErrorHandler: known HTTP errors pass through,
// everything else becomes an opaque 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		_ = c.JSON(httpErr.Code, jsonres.Error("HTTP_ERROR", message, nil))
		return
	}

	logger.Error("Unhandled error", err)
	_ = c.JSON(http.StatusInternalServerError, jsonres.Error(
		"INTERNAL_ERROR", "Internal server error", nil,
	))
}
