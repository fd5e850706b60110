// Package bridge exposes the engine over a local HTTP API with a websocket event stream.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/doeshing/phoenix-go/internal/domain"
	"github.com/doeshing/phoenix-go/internal/ports"
)

// Engine is the control surface the bridge drives.
type Engine interface {
	Start() domain.Status
	Stop() domain.Status
	Dispatch(ctx context.Context, text string, origin domain.Origin) domain.DispatchResult
	Status() domain.Status
	RecentCommands() []domain.RecentCommand
	Commands() []domain.CommandInfo
	CurrentSettings() domain.Settings
	UpdateSettings(ctx context.Context, partial map[string]interface{}) (domain.Settings, error)
	Microphones(ctx context.Context) ([]domain.Microphone, error)
}

// ServerOption configures a Server.
type ServerOption func(*Server) error

// Server owns the fiber app.
type Server struct {
	app       *fiber.App
	engine    Engine
	hub       *Hub
	logger    ports.Logger
	validator *validator.Validate
	limiter   *rateLimiter
	timeout   time.Duration
	version   string
}

// NewServer builds the app and registers every route.
func NewServer(engine Engine, logger ports.Logger, options ...ServerOption) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		validator: validator.New(),
		limiter:   newRateLimiter(rate.Limit(domain.DefaultBridgeRateLimit), domain.DefaultBridgeBurst),
		timeout:   domain.DefaultRequestTimeout,
		version:   "dev",
	}
	for _, option := range options {
		if err := option(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "Phoenix Bridge",
		BodyLimit:             64 * 1024,
		StrictRouting:         true,
		CaseSensitive:         true,
		DisableStartupMessage: true,
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
		ErrorHandler:          s.errorHandler,
	})
	s.routes()
	return s, nil
}

// WithHub streams dispatch events on /ws/events.
func WithHub(hub *Hub) ServerOption {
	return func(s *Server) error {
		s.hub = hub
		return nil
	}
}

// WithRateLimit limits /api/execute per client IP.
func WithRateLimit(perSecond float64, burst int) ServerOption {
	return func(s *Server) error {
		if perSecond <= 0 || burst <= 0 {
			return fmt.Errorf("rate limit must be positive, got %v/%d", perSecond, burst)
		}
		s.limiter = newRateLimiter(rate.Limit(perSecond), burst)
		return nil
	}
}

// WithRequestTimeout bounds how long one dispatch may run.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) error {
		if d > 0 {
			s.timeout = d
		}
		return nil
	}
}

// WithVersion sets the version reported by /api/test.
func WithVersion(v string) ServerOption {
	return func(s *Server) error {
		s.version = v
		return nil
	}
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(newRequestIDMiddleware())
	s.app.Use(newLoggingMiddleware(s.logger))

	api := s.app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/start", s.handleStart)
	api.Post("/stop", s.handleStop)
	api.Post("/execute", s.limiter.handler(s.logger), s.handleExecute)
	api.Get("/recent", s.handleRecent)
	api.Get("/settings", s.handleGetSettings)
	api.Post("/settings", s.handleUpdateSettings)
	api.Get("/microphones", s.handleMicrophones)
	api.Get("/commands", s.handleCommands)
	api.Get("/test", s.handleTest)

	if s.hub != nil {
		s.app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		s.app.Get("/ws/events", websocket.New(s.hub.serve))
	}
}

// Serve listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr)
	}()
	s.logger.Info("bridge listening", map[string]interface{}{"addr": addr})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		<-errCh
		return nil
	}
}
