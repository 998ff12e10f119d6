package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/handler"
	"github.com/icetlab/assettrack/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var testSecret = []byte("handler-test-signing-key-0123456789")

type testEnv struct {
	app *fiber.App
	db  *bun.DB

	admin       *store.User
	viewer      *store.User
	adminToken  string
	viewerToken string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := store.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, store.Migrate(context.Background(), db))

	users := store.NewUsers(db)
	auditLogs := store.NewAuditLogs(db)

	admin := createUser(t, users, "alice", auth.RoleAdmin)
	viewer := createUser(t, users, "bob", auth.RoleViewer)

	codec := auth.NewTokenCodec(testSecret, time.Hour, nil)
	gate := auth.NewGate(codec)
	authenticator := auth.NewAuthenticator(users, codec).WithAuditRecorder(auditLogs)

	app := fiber.New()
	handler.Register(app, handler.Deps{
		Authenticator: authenticator,
		Gate:          gate,
		Logger:        nil,
		Devices:       store.NewDevices(db),
		Installations: store.NewInstallations(db),
		Metadata:      store.NewMetadata(db),
		Rooms:         store.NewRooms(db),
		GatePasses:    store.NewGatePasses(db),
		Support:       store.NewSupport(db),
		Blog:          store.NewBlog(db),
		AuditLogs:     auditLogs,
	})

	return &testEnv{
		app:         app,
		db:          db,
		admin:       admin,
		viewer:      viewer,
		adminToken:  signToken(t, codec, admin),
		viewerToken: signToken(t, codec, viewer),
	}
}

func createUser(t *testing.T, users *store.Users, username string, role auth.UserRole) *store.User {
	t.Helper()

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)

	user, err := users.Create(context.Background(), &store.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     "User " + username,
		Role:         role,
		Active:       true,
	})
	require.NoError(t, err)
	return user
}

func signToken(t *testing.T, codec *auth.TokenCodec, user *store.User) string {
	t.Helper()

	token, err := codec.Encode(auth.NewClaims(&auth.UserRecord{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		Active:   true,
	}))
	require.NoError(t, err)
	return token
}

// request performs one API call and decodes the envelope.
func (e *testEnv) request(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	envelope := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	return res.StatusCode, envelope
}

func dataMap(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", envelope["data"])
	return data
}

func dataList(t *testing.T, envelope map[string]any) []any {
	t.Helper()
	data, ok := envelope["data"].([]any)
	require.True(t, ok, "data is not an array: %v", envelope["data"])
	return data
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("login with valid credentials", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"username": "alice",
			"password": "s3cret",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, envelope["success"])

		data := dataMap(t, envelope)
		assert.NotEmpty(t, data["token"])

		user, ok := data["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "admin", user["role"])
	})

	t.Run("login with wrong password", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"username": "alice",
			"password": "nope",
		})
		require.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, false, envelope["success"])
		assert.Equal(t, "Invalid username or password", envelope["message"])
	})

	t.Run("login with missing fields", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
			"username": "alice",
		})
		require.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "Validation failed", envelope["message"])

		fields, ok := envelope["errors"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, fields, "password")
	})

	t.Run("me with a valid token", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/auth/me", env.viewerToken, nil)
		require.Equal(t, http.StatusOK, status)

		data := dataMap(t, envelope)
		assert.Equal(t, "bob", data["username"])
	})

	t.Run("me without a token", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Not authenticated", envelope["message"])
	})

	t.Run("logout always succeeds", func(t *testing.T) {
		status, _ := env.request(t, http.MethodDelete, "/api/auth/logout", "", nil)
		require.Equal(t, http.StatusOK, status)

		status, _ = env.request(t, http.MethodDelete, "/api/auth/logout", env.viewerToken, nil)
		require.Equal(t, http.StatusOK, status)
	})
}

func TestGuards(t *testing.T) {
	env := newTestEnv(t)

	t.Run("reads need a login", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodGet, "/api/devices", "", nil)
		require.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Authentication required", envelope["message"])
	})

	t.Run("writes need admin", func(t *testing.T) {
		status, envelope := env.request(t, http.MethodPost, "/api/devices", env.viewerToken, fiber.Map{
			"device_unique_id": "PRJ-001",
			"type_id":          1,
			"brand_id":         1,
		})
		require.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "Admin access required", envelope["message"])
	})

	t.Run("garbage token reads as anonymous", func(t *testing.T) {
		status, _ := env.request(t, http.MethodGet, "/api/devices", "not.a.token", nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("audit log is admin only", func(t *testing.T) {
		status, _ := env.request(t, http.MethodGet, "/api/audit-log", env.viewerToken, nil)
		require.Equal(t, http.StatusForbidden, status)

		status, _ = env.request(t, http.MethodGet, "/api/audit-log", env.adminToken, nil)
		require.Equal(t, http.StatusOK, status)
	})
}
