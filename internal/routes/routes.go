package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/auth"
	"github.com/coursegate/coursegate/internal/config"
	"github.com/coursegate/coursegate/internal/course"
	"github.com/coursegate/coursegate/internal/middleware"
	"github.com/coursegate/coursegate/internal/observability"
)

var corsAllowHeaders = strings.Join([]string{
	fiber.HeaderOrigin,
	fiber.HeaderXRequestedWith,
	fiber.HeaderContentType,
	fiber.HeaderAccept,
	fiber.HeaderAuthorization,
}, ", ")

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// Accounts and Courses override the stores derived from DB. Tests use them
	// to inject in-memory repositories.
	Accounts account.Repository
	Courses  course.Repository
}

// Setup configures middlewares and all public application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil && d.Accounts == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	hasher, err := account.NewHasher(d.Cfg.PasswordHash, d.Cfg.PasswordPepper, d.Cfg.PBKDF2Iterations)
	if err != nil {
		return err
	}

	accounts := d.Accounts
	if accounts == nil {
		if d.DB != nil {
			accounts = account.NewPostgresRepository(d.DB)
		} else {
			d.Logger.Warn("no database configured, using in-memory account store")
			accounts = account.NewMemoryRepository()
		}
	}
	courses := d.Courses
	if courses == nil {
		if d.DB != nil {
			courses = course.NewPostgresRepository(d.DB)
		} else {
			courses = course.NewMemoryRepository()
		}
	}

	store := account.NewRetryingStore(accounts, d.Cfg.RetryAttempts, d.Cfg.RetryBackoff)

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.CORSAllowOrigins,
		AllowHeaders: corsAllowHeaders,
	}))
	app.Use(middleware.Audit(d.Logger))
	app.Use(observability.Metrics())
	if d.Cfg.IsDev() {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.BearerGate(store, d.Logger))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{"message": "API is working"})
	})

	verifier := account.NewVerifier(store, hasher)
	RegisterAuthRoutes(app, auth.NewHandler(verifier, d.Logger), middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))

	var idem fiber.Handler
	if d.Cache != nil {
		idem = middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	}
	RegisterCourseRoutes(app, course.NewHandler(course.NewService(courses), d.Logger), idem)

	return nil
}
