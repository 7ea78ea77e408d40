package admins

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"fedbox/internal/env"
	"fedbox/internal/models"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T) *fiber.App {
	env.JWT_SECRET = []byte("test-secret")
	env.ADMIN_USERNAME = "operator"

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	env.ADMIN_PASSWORD_HASH = string(hash)

	app := fiber.New()
	Routes(app, &Handler{})

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (*http.Response, []byte) {
	sendBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(sendBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	defer res.Body.Close()

	return res, body
}

func TestPing(t *testing.T) {
	app := newTestApp(t)

	req, err := http.NewRequest("GET", "/admins/ping", nil)
	require.NoError(t, err)

	res, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Equal(t, "PONG", string(body))
}

func TestLoginIssuesToken(t *testing.T) {
	app := newTestApp(t)

	res, body := postJSON(t, app, "/admins/login", fiber.Map{
		"username": "operator",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var result struct {
		Token string       `json:"token"`
		Admin models.Admin `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	require.NotEmpty(t, result.Token)
	require.Equal(t, "operator", result.Admin.Username)

	var parsed models.Admin
	require.NoError(t, parsed.ParseToken(result.Token))
	require.Equal(t, "operator", parsed.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)

	res, _ := postJSON(t, app, "/admins/login", fiber.Map{
		"username": "operator",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLoginUnknownUsername(t *testing.T) {
	app := newTestApp(t)

	res, _ := postJSON(t, app, "/admins/login", fiber.Map{
		"username": "somebody",
		"password": "hunter2",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestLoginMissingFields(t *testing.T) {
	app := newTestApp(t)

	res, _ := postJSON(t, app, "/admins/login", fiber.Map{
		"username": "operator",
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateActorRequiresToken(t *testing.T) {
	app := newTestApp(t)

	res, _ := postJSON(t, app, "/admins/actors", fiber.Map{
		"preferredUsername": "alice",
	})
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestCreateActorRejectsMalformedToken(t *testing.T) {
	app := newTestApp(t)

	sendBytes, err := json.Marshal(fiber.Map{"preferredUsername": "alice"})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/admins/actors", bytes.NewBuffer(sendBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer not-a-real-token")

	res, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestParseTokenRejectsForgery(t *testing.T) {
	env.JWT_SECRET = []byte("test-secret")

	admin := models.Admin{Username: "operator"}
	token := admin.GenToken()

	env.JWT_SECRET = []byte("different-secret")

	var parsed models.Admin
	require.Error(t, parsed.ParseToken(token))
}
