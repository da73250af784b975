package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/repository"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware is the gate run before protected operations. Checks run in
// a fixed order and each rejection short-circuits: header presence, token
// presence, revocation lookup, then cryptographic verification. The
// revocation lookup deliberately precedes verification so a revoked token is
// rejected the same way whether or not it still verifies.
type AuthMiddleware struct {
	tokens      *TokenManager
	revocations repository.RevocationRepository
}

// NewAuthMiddleware constructs the gate.
func NewAuthMiddleware(tokens *TokenManager, revocations repository.RevocationRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations}
}

// Handle enforces authentication for protected routes. On success the
// verified claims are attached to the request locals; that is the only side
// effect.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewMissingCredential("Access denied. No token provided.")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewMissingCredential("Access denied. No token provided.")
	}
	token := strings.TrimSpace(parts[1])

	revoked, err := m.revocations.Contains(c.Context(), token)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if revoked {
		return apperrors.NewTokenRevoked("Access denied. Token invalidated.")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewTokenInvalid("Invalid token.")
	}

	c.Locals(principalKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated claim set.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// RawTokenFromHeader returns the bearer token carried by the request, if any.
func RawTokenFromHeader(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
