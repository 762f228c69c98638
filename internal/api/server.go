// Package api serves the calibration, diagnostics, challenge and admin
// endpoints as JSON over HTTP for the browser editor widget.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
)

// Deps are the services the handlers call into. Analytics may be nil, in
// which case /api/analytics answers 503.
type Deps struct {
	Profiles    *profile.Service
	Diagnostics *diagnostics.Service
	Analytics   *analytics.Service
}

// Options configures the underlying fiber app.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Version      string
}

// Server wraps the fiber app.
type Server struct {
	app  *fiber.App
	deps Deps
	opts Options
}

func New(deps Deps, opts Options) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "syncrate",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		IdleTimeout:           30 * time.Second,
		BodyLimit:             256 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))

	s := &Server{app: app, deps: deps, opts: opts}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Get("/health", s.health)

	api.Get("/calibration/questions", s.calibrationQuestions)
	api.Post("/calibration/score", s.calibrationScore)

	api.Post("/diagnose", s.diagnose)
	api.Post("/diagnose/syntax", s.diagnoseSyntax)

	api.Get("/challenges", s.listChallenges)
	api.Get("/challenges/:id", s.getChallenge)
	api.Post("/challenges/:id/submit", s.submitChallenge)

	api.Get("/students", s.listStudents)
	api.Get("/students/:id", s.getStudent)

	api.Get("/analytics", s.analytics)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Get().Info("starting API server", zap.String("addr", addr))
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Get().Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.app.ShutdownWithContext(shutdownCtx)
}

// requestLogger logs one line per request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// The error handler has not run yet; report what it will send.
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		logger.Get().Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}
