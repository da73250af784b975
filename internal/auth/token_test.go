package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-gateway/internal/domain"
)

const testSecret = "test-secret"

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.SubjectID)
	assert.Equal(t, domain.RoleClient, claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time)
}

func TestTokenManager_Expired(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	// Sign an already-expired claim set with the same secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "user-1",
		Role:      domain.RoleClient,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	tokenStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ParseToken(tokenStr)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_TamperedPayload(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, _, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var claimMap map[string]any
	require.NoError(t, json.Unmarshal(payload, &claimMap))
	claimMap["role"] = string(domain.RoleAdmin)
	tampered, err := json.Marshal(claimMap)
	require.NoError(t, err)

	parts[1] = base64.RawURLEncoding.EncodeToString(tampered)
	_, err = tm.ParseToken(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, time.Hour)
	verifier := NewTokenManager("other-secret", time.Hour)

	token, _, err := issuer.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

func TestTokenManager_Malformed(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := tm.ParseToken(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenManager_ExpiryOf(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, expiresAt, err := tm.GenerateToken("user-1", domain.RoleClient)
	require.NoError(t, err)

	got, err := tm.ExpiryOf(token)
	require.NoError(t, err)
	assert.WithinDuration(t, expiresAt, got, time.Second)

	// Works for expired tokens too, so logout can still record them.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredStr, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	got, err = tm.ExpiryOf(expiredStr)
	require.NoError(t, err)
	assert.True(t, got.Before(time.Now()))

	_, err = tm.ExpiryOf("garbage")
	assert.Error(t, err)
}
