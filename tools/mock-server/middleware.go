package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// Codes the Seller API puts in error bodies, keyed by HTTP status.
var errorCodes = map[int]int{
	http.StatusBadRequest:          3,
	http.StatusForbidden:           7,
	http.StatusNotFound:            5,
	http.StatusMethodNotAllowed:    12,
	http.StatusInternalServerError: 13,
	http.StatusUnauthorized:        16,
}

// requestLog logs each request with a request ID, generating one when the
// caller did not send X-Request-ID.
func requestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.Debug("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"client_id", c.Request().Header.Get("Client-Id"),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)
			return nil
		}
	}
}

// recovery turns handler panics into a 500 error body.
func recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)

					log.Error("panic recovered",
						"error", fmt.Sprint(r),
						"path", c.Request().URL.Path,
						"stack", string(buf[:n]),
					)
					err = echo.NewHTTPError(http.StatusInternalServerError, "internal error")
				}
			}()
			return next(c)
		}
	}
}

// requireCredentials rejects requests without Client-Id and Api-Key the way
// the real API does. Values are not checked.
func requireCredentials(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Request().Header
		if h.Get("Client-Id") == "" || h.Get("Api-Key") == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Client-Id and Api-Key headers are required")
		}
		return next(c)
	}
}

// errorHandler writes errors in the Seller API shape:
// {"code": ..., "message": ..., "details": []}.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := http.StatusInternalServerError, err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		}
		code, ok := errorCodes[status]
		if !ok {
			code = 2
		}

		if werr := c.JSON(status, map[string]any{"code": code, "message": msg, "details": []any{}}); werr != nil {
			log.Warn("writing error response", "error", werr)
		}
	}
}
