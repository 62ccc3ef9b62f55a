// Package server exposes the designer over HTTP.
//
// Routes:
//   - POST /render: multipart form with an "image" file and the request fields;
//     responds with the encoded design and the price text in X-Price-Estimate
//   - POST /price: form fields only; responds with the estimate as JSON
//   - GET /health/live, GET /health/ready
package server

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"

	patiodesigner "github.com/menta2k/patio-designer"
	"github.com/menta2k/patio-designer/pkg/errors"
)

// Options configures the HTTP shell
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int // bytes
	AllowOrigins []string
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    32 << 20,
		AllowOrigins: []string{"*"},
	}
}

// Server serves render and price requests
type Server struct {
	app      *fiber.App
	designer *patiodesigner.Designer
	logger   *log.Logger
}

// New creates a server around a designer. The designer is shared by all
// requests.
func New(d *patiodesigner.Designer, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{designer: d, logger: logger}
	s.app = fiber.New(fiber.Config{
		AppName:      "Patio Designer",
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestID)
	s.app.Use(s.accessLog)
	if len(opts.AllowOrigins) > 0 {
		s.app.Use(cors.New(cors.Config{
			AllowOrigins:  opts.AllowOrigins,
			AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost},
			ExposeHeaders: []string{HeaderPriceEstimate, HeaderRequestID},
		}))
	}

	s.app.Get("/health/live", liveness)
	s.app.Get("/health/ready", s.readiness)

	s.app.Post("/render", s.render)
	s.app.Post("/price", s.price)

	return s
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// handleError maps pipeline error codes to HTTP statuses. The JSON body
// carries the code so clients can tell validation failures apart.
func (s *Server) handleError(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	code := codeFor(err)
	status := errors.HTTPStatus(code)
	message := errors.UserMessage(err)
	if status >= fiber.StatusInternalServerError {
		requestLogger(c, s.logger).Error("request failed", "err", err)
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{
		"code":  code,
		"error": message,
	})
}

func codeFor(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

func statusFor(err error) int {
	var fe *fiber.Error
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return errors.HTTPStatus(codeFor(err))
}
