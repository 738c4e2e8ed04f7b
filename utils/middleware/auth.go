package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/identity"
	"github.com/studyabroad-hub/api/utils/response"
)

const verifyTimeout = 10 * time.Second

// AuthMiddleware gates mutating endpoints behind identity-token verification.
// A missing or malformed credential is 401; a credential the provider
// rejects is 403. The two stay distinguishable end to end.
type AuthMiddleware struct {
	verifier identity.Verifier
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier identity.Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Required is middleware that requires a verified bearer ID token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "Missing authorization token")
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return response.Unauthorized(c, "Invalid authorization format")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), verifyTimeout)
		defer cancel()

		claims, err := m.verifier.Verify(ctx, parts[1])
		if err != nil {
			return response.Forbidden(c, "Invalid token")
		}

		c.Locals("uid", claims.UID)
		c.Locals("claims", claims)

		return c.Next()
	}
}

// GetClaims returns the verified identity claims attached by Required.
func GetClaims(c *fiber.Ctx) (*identity.Claims, bool) {
	claims, ok := c.Locals("claims").(*identity.Claims)
	return claims, ok
}
