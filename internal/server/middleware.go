package server

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderPriceEstimate = "X-Price-Estimate"
)

type localsKey int

const loggerLocal localsKey = 0

// requestID tags each request with an ID, reusing the caller's when present,
// and attaches a logger carrying it.
func (s *Server) requestID(c fiber.Ctx) error {
	id := c.Get(HeaderRequestID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	c.Set(HeaderRequestID, id)
	c.Locals(loggerLocal, s.logger.With("request_id", id))
	return c.Next()
}

func (s *Server) accessLog(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		// the error handler has not run yet; report what it will send
		status = statusFor(err)
	}
	requestLogger(c, s.logger).Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start).Round(time.Microsecond))
	return err
}

func requestLogger(c fiber.Ctx, fallback *log.Logger) *log.Logger {
	if l, ok := c.Locals(loggerLocal).(*log.Logger); ok {
		return l
	}
	return fallback
}
