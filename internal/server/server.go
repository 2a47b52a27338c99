package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/coursegate/coursegate/internal/apierror"
	"github.com/coursegate/coursegate/internal/config"
	"github.com/coursegate/coursegate/internal/routes"
)

// Server wraps the public Fiber application, the ops listener and shared dependencies.
type Server struct {
	app    *fiber.App
	ops    *fiber.App
	cfg    config.Config
	logger *slog.Logger
}

// New instantiates both HTTP listeners and delegates route wiring to the routes package.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          apierror.Handler(logger),
		DisableStartupMessage: !cfg.IsDev(),
	})
	ops := fiber.New(fiber.Config{
		AppName:               cfg.AppName + "-ops",
		ReadTimeout:           5 * time.Second,
		WriteTimeout:          5 * time.Second,
		ErrorHandler:          apierror.Handler(logger),
		DisableStartupMessage: true,
	})

	deps := routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}
	if err := routes.Setup(app, deps); err != nil {
		return nil, err
	}
	routes.SetupOps(ops, deps)

	return &Server{app: app, ops: ops, cfg: cfg, logger: logger}, nil
}

// Listen starts both listeners and blocks until one of them stops.
func (s *Server) Listen() error {
	errCh := make(chan error, 2)
	go func() {
		s.logger.Info("ops listener starting", slog.String("addr", s.cfg.OpsAddress()))
		errCh <- s.ops.Listen(s.cfg.OpsAddress())
	}()
	go func() {
		s.logger.Info("public listener starting", slog.String("addr", s.cfg.Address()))
		errCh <- s.app.Listen(s.cfg.Address())
	}()
	return <-errCh
}

// Shutdown gracefully stops both listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	return errors.Join(
		s.app.ShutdownWithContext(ctx),
		s.ops.ShutdownWithContext(ctx),
	)
}
