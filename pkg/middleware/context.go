// Package middleware provides echo middleware for request context,
// logging, and error responses.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	ycontext "github.com/Ramsey-B/yarrow/pkg/context"
)

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			// get request id from header
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = ycontext.SetRequestID(ctx, requestID)
			ctx = ycontext.SetMethod(ctx, req.Method)
			ctx = ycontext.SetRoute(ctx, req.URL.Path)
			ctx = ycontext.SetRemoteIP(ctx, c.RealIP())

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
