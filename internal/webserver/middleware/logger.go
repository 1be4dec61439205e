package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/logger"
)

// Logger is a middleware that logs the handled requests.
func Logger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			start := time.Now()

			if err = next(c); err != nil {
				c.Error(err)
			}

			log.WithPrefix("[http]").Infof("%s %s %d (%v)",
				c.Request().Method,
				c.Request().RequestURI,
				c.Response().Status,
				time.Since(start),
			)
			return nil
		}
	}
}
