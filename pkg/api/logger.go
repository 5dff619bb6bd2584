package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewLogger logs one line per request, at warn for client errors and error
// for server errors. Each request gets an X-Request-ID unless it brought one.
func NewLogger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, requestID)

		err := c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()

		ipAddress := c.IP()
		if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
			ipAddress = forwardedFor
		}

		requestLogger := logger.With().
			Str("request", requestID).
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("query", string(c.Request().URI().QueryString())).
			Str("ip", ipAddress).
			Dur("latency", time.Since(startTime)).
			Str("user-agent", c.Get(fiber.HeaderUserAgent)).
			Logger()

		switch {
		case code >= fiber.StatusInternalServerError:
			requestLogger.Error().Msg(msg)
		case code >= fiber.StatusBadRequest:
			requestLogger.Warn().Msg(msg)
		default:
			requestLogger.Info().Msg(msg)
		}

		return err
	}
}
