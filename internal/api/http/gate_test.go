package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/observability"
)

const gateTestSecret = "gate-test-secret"

// fakeRevocationRepo is an in-memory RevocationRepository.
type fakeRevocationRepo struct {
	mu      sync.Mutex
	entries map[string]time.Time
	failErr error
}

func newFakeRevocationRepo() *fakeRevocationRepo {
	return &fakeRevocationRepo{entries: map[string]time.Time{}}
}

func (f *fakeRevocationRepo) Add(_ context.Context, token string, expiresAt time.Time, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.entries[token]; !exists {
		f.entries[token] = expiresAt
	}
	return nil
}

func (f *fakeRevocationRepo) Contains(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return false, f.failErr
	}
	_, ok := f.entries[token]
	return ok, nil
}

func (f *fakeRevocationRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for token, expiresAt := range f.entries {
		if expiresAt.Before(before) {
			delete(f.entries, token)
			deleted++
		}
	}
	return deleted, nil
}

func newGateApp(t *testing.T, revocations *fakeRevocationRepo) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager(gateTestSecret, time.Hour)
	gate := auth.NewAuthMiddleware(tm, revocations)

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/protected", gate.Handle, func(c *fiber.Ctx) error {
		claims, ok := auth.ClaimsFromContext(c)
		require.True(t, ok, "claims must be attached on continue")
		return c.JSON(fiber.Map{"sub": claims.SubjectID, "role": claims.Role})
	})
	return app, tm
}

func doGet(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGate_NoHeader(t *testing.T) {
	app, _ := newGateApp(t, newFakeRevocationRepo())

	status, body := doGet(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "No token provided.")
	assert.Contains(t, body, "MISSING_CREDENTIAL")
}

func TestGate_HeaderWithoutToken(t *testing.T) {
	app, _ := newGateApp(t, newFakeRevocationRepo())

	for _, header := range []string{"Bearer", "Bearer ", "Bearer   "} {
		status, body := doGet(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, status, "header %q", header)
		assert.Contains(t, body, "No token provided.")
	}
}

func TestGate_RevokedBeforeVerification(t *testing.T) {
	revocations := newFakeRevocationRepo()
	app, tm := newGateApp(t, revocations)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)
	require.NoError(t, revocations.Add(context.Background(), token, expiresAt, "logout"))

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Token invalidated.")
	assert.Contains(t, body, "TOKEN_REVOKED")
}

func TestGate_RevokedWinsEvenWhenTokenIsGarbage(t *testing.T) {
	// Revocation is recorded by exact string, so even a token that would
	// fail verification is rejected as revoked, not invalid.
	revocations := newFakeRevocationRepo()
	app, _ := newGateApp(t, revocations)

	require.NoError(t, revocations.Add(context.Background(), "garbage-token", time.Now().Add(time.Hour), "test"))

	status, body := doGet(t, app, "Bearer garbage-token")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Contains(t, body, "Token invalidated.")
}

func TestGate_ExpiredToken(t *testing.T) {
	app, _ := newGateApp(t, newFakeRevocationRepo())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		SubjectID: "user-1",
		Role:      domain.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	tokenStr, err := expired.SignedString([]byte(gateTestSecret))
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+tokenStr)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Invalid token.")
	assert.Contains(t, body, "TOKEN_INVALID")
}

func TestGate_MalformedToken(t *testing.T) {
	app, _ := newGateApp(t, newFakeRevocationRepo())

	status, body := doGet(t, app, "Bearer not-a-token")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "Invalid token.")
}

func TestGate_ValidTokenContinues(t *testing.T) {
	app, tm := newGateApp(t, newFakeRevocationRepo())

	token, _, err := tm.GenerateToken("user-42", domain.RoleVendor)
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "user-42", payload["sub"])
	assert.Equal(t, string(domain.RoleVendor), payload["role"])
}

func TestGate_StoreFailureIsInternal(t *testing.T) {
	revocations := newFakeRevocationRepo()
	revocations.failErr = errors.New("store down")
	app, tm := newGateApp(t, revocations)

	token, _, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)

	status, body := doGet(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, "internal server error")
	assert.NotContains(t, body, "store down")
}
