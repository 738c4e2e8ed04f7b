package auth

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/studyabroad-hub/api/identity"
	"github.com/studyabroad-hub/api/model"
	"github.com/studyabroad-hub/api/utils/middleware"
	"github.com/studyabroad-hub/api/utils/response"
	"gorm.io/gorm"
)

const verifyTimeout = 10 * time.Second

// AuthHandler exchanges a provider ID token for a portal user record.
type AuthHandler struct {
	db       *gorm.DB
	verifier identity.Verifier
	guard    *middleware.BruteForceProtection // nil when redis is absent
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, verifier identity.Verifier, guard *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:       db,
		verifier: verifier,
		guard:    guard,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	IDToken string `json:"idToken"`
}

// LoginResponse matches the wire shape the SPA expects.
type LoginResponse struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
}

type LoginUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login handles POST /api/auth/login. The identity provider does the actual
// authentication; this endpoint verifies the token and finds or creates the
// matching user row.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.IDToken == "" {
		return response.Unauthorized(c, "Authentication token is required")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), verifyTimeout)
	defer cancel()

	claims, err := h.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		if h.guard != nil {
			h.guard.RecordFailedAttempt(c)
		}
		return response.Forbidden(c, "Authentication failed")
	}

	var user model.User
	err = h.db.WithContext(c.UserContext()).Where("provider_uid = ?", claims.UID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = model.User{
			ProviderUID: claims.UID,
			Email:       claims.Email,
			Name:        claims.Name,
			Picture:     claims.Picture,
		}
		if err := h.db.WithContext(c.UserContext()).Create(&user).Error; err != nil {
			log.Printf("login: failed to create user %s: %v", claims.UID, err)
			return response.InternalServerError(c, "Failed to create user")
		}
	} else if err != nil {
		log.Printf("login: failed to load user %s: %v", claims.UID, err)
		return response.InternalServerError(c, "Failed to load user")
	}

	if h.guard != nil {
		h.guard.ClearAttempts(c)
	}

	return c.Status(fiber.StatusOK).JSON(LoginResponse{
		Message: "Authentication successful.",
		User: LoginUser{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	})
}
