package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/apierror"
	"github.com/coursegate/coursegate/internal/config"
	"github.com/coursegate/coursegate/internal/course"
	"github.com/coursegate/coursegate/internal/logging"
	"github.com/coursegate/coursegate/internal/middleware"
)

func testConfig() config.Config {
	return config.Config{
		AppName:          "coursegate-test",
		AppEnv:           "test",
		PasswordHash:     config.HashSHA256,
		LoginRateLimit:   3,
		RetryAttempts:    1,
		IdempotencyTTL:   time.Minute,
		CORSAllowOrigins: "*",
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	accounts := account.NewMemoryRepository()
	_, err = account.NewProvisioner(accounts, account.SHA256Hasher{}).
		Create(context.Background(), "alice", "pw", "tok-123")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler(logging.Discard())})
	require.NoError(t, Setup(app, Deps{
		Cfg:      testConfig(),
		Cache:    cache,
		Logger:   logging.Discard(),
		Accounts: accounts,
		Courses:  course.NewMemoryRepository(),
	}))
	return app
}

func send(t *testing.T, app *fiber.App, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestRootIsPublic(t *testing.T) {
	app := newTestApp(t)
	status, body := send(t, app, fiber.MethodGet, "/", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "API is working", body["message"])
}

func TestLoginThenAccessCourses(t *testing.T) {
	app := newTestApp(t)

	status, body := send(t, app, fiber.MethodPost, "/auth", "", `{"username":"Alice","password":"pw"}`)
	require.Equal(t, fiber.StatusOK, status)
	token, _ := body["apiToken"].(string)
	require.Equal(t, "tok-123", token)

	status, body = send(t, app, fiber.MethodPost, "/courses", token, `{"code":"cs101","name":"Intro","description":"Basics","scu":3}`)
	require.Equal(t, fiber.StatusCreated, status, body)

	status, body = send(t, app, fiber.MethodGet, "/courses/cs101", token, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "CS101", body["code"])
}

func TestCoursesRequireBearerToken(t *testing.T) {
	app := newTestApp(t)

	for _, token := range []string{"", "wrong"} {
		status, body := send(t, app, fiber.MethodGet, "/courses", token, "")
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, middleware.UnauthorizedMessage, body["message"])
	}
}

func TestUnknownRouteIsGated(t *testing.T) {
	app := newTestApp(t)
	status, _ := send(t, app, fiber.MethodGet, "/nowhere", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = send(t, app, fiber.MethodGet, "/nowhere", "tok-123", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApp(t)
	var status int
	for i := 0; i < 4; i++ {
		status, _ = send(t, app, fiber.MethodPost, "/auth", "", `{"username":"bob","password":"nope"}`)
	}
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

func TestCORSHeaders(t *testing.T) {
	app := newTestApp(t)
	req := httptest.NewRequest(fiber.MethodOptions, "/courses", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:4200")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, fiber.MethodGet)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowHeaders), fiber.HeaderAuthorization)
}

func TestSetupRequiresStoresOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"
	err := Setup(fiber.New(), Deps{Cfg: cfg, Logger: logging.Discard()})
	assert.Error(t, err)
}

func TestOpsHealthWithoutBackends(t *testing.T) {
	ops := fiber.New()
	SetupOps(ops, Deps{Cfg: testConfig(), Logger: logging.Discard()})

	resp, err := ops.Test(httptest.NewRequest(fiber.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = ops.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "coursegate_ratelimit_rejected_total")
}
