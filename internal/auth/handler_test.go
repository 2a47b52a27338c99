package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coursegate/coursegate/internal/account"
	"github.com/coursegate/coursegate/internal/apierror"
	"github.com/coursegate/coursegate/internal/logging"
)

func newLoginApp(t *testing.T, verifier CredentialVerifier) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apierror.Handler(logging.Discard())})
	app.Post("/auth", NewHandler(verifier, logging.Discard()).Login)
	return app
}

func aliceVerifier(t *testing.T) CredentialVerifier {
	t.Helper()
	repo := account.NewMemoryRepository()
	err := repo.Create(context.Background(), account.Account{
		ID:           "00000000-0000-0000-0000-000000000001",
		Username:     "ALICE",
		PasswordHash: account.SHA256Hasher{}.Hash("pw"),
		APIToken:     "tok-123",
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return account.NewVerifier(repo, account.SHA256Hasher{})
}

func postJSON(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/auth", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func TestLoginSuccess(t *testing.T) {
	app := newLoginApp(t, aliceVerifier(t))

	status, raw := postJSON(t, app, `{"username":"alice","password":"pw"}`)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, raw)
	}
	var body loginResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.APIToken != "tok-123" || body.Message != authenticatedMessage {
		t.Fatalf("unexpected response %+v", body)
	}
}

func TestLoginFormEncoded(t *testing.T) {
	app := newLoginApp(t, aliceVerifier(t))

	form := url.Values{"username": {"ALICE"}, "password": {"pw"}}
	req := httptest.NewRequest(fiber.MethodPost, "/auth", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestLoginInvalidCredentialsAreIndistinguishable(t *testing.T) {
	app := newLoginApp(t, aliceVerifier(t))

	wrongStatus, wrongBody := postJSON(t, app, `{"username":"alice","password":"wrong"}`)
	unknownStatus, unknownBody := postJSON(t, app, `{"username":"bob","password":"pw"}`)

	if wrongStatus != fiber.StatusUnauthorized || unknownStatus != fiber.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongStatus, unknownStatus)
	}
	if string(wrongBody) != string(unknownBody) {
		t.Fatalf("responses differ: %s vs %s", wrongBody, unknownBody)
	}
	if !strings.Contains(string(wrongBody), invalidCredentialsMsg) {
		t.Fatalf("unexpected body %s", wrongBody)
	}
}

func TestLoginMissingPasswordIsRedacted(t *testing.T) {
	app := newLoginApp(t, aliceVerifier(t))

	cases := []string{
		`{"username":"alice"}`,
		`{"password":"hunter2-secret"}`,
		`{"username":"","password":"hunter2-secret"}`,
		`{"PASSWORD":"hunter2-secret"}`,
	}
	for _, body := range cases {
		status, raw := postJSON(t, app, body)
		if status != fiber.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", body, status)
		}
		if strings.Contains(string(raw), "hunter2-secret") {
			t.Fatalf("%s: password leaked in %s", body, raw)
		}

		var decoded struct {
			Message  string         `json:"message"`
			Received map[string]any `json:"received"`
		}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if decoded.Message != missingParamsMessage {
			t.Fatalf("unexpected message %q", decoded.Message)
		}
	}
}

func TestLoginMissingFieldsEchoesReceived(t *testing.T) {
	app := newLoginApp(t, aliceVerifier(t))

	_, raw := postJSON(t, app, `{"username":"alice","password":"","extra":1}`)
	var decoded struct {
		Received map[string]any `json:"received"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Received["username"] != "alice" || decoded.Received["password"] != redacted {
		t.Fatalf("unexpected echo %v", decoded.Received)
	}
}

func TestLoginEmptyBody(t *testing.T) {
	app := newLoginApp(t, aliceVerifier(t))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/auth", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

type brokenVerifier struct{}

func (brokenVerifier) Verify(context.Context, string, string) (string, error) {
	return "", &account.StoreError{Op: "find by credentials", Err: errors.New("server selection timeout")}
}

func TestLoginStoreFailureIsGeneric(t *testing.T) {
	app := newLoginApp(t, brokenVerifier{})

	status, raw := postJSON(t, app, `{"username":"alice","password":"pw"}`)
	if status != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if strings.Contains(string(raw), "timeout") {
		t.Fatalf("store detail leaked: %s", raw)
	}
}
