package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/dto"
	"github.com/spec-kit/auth-gateway/internal/auth"
	"github.com/spec-kit/auth-gateway/internal/service"
	apperrors "github.com/spec-kit/auth-gateway/pkg/util"
)

// UsersHandler exposes the registration and session endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, err := h.auth.Register(c.Context(), c.IP(), service.RegisterInput{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(user, token))
}

// Login handles POST /auth/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewAuthResponse(user, token))
}

// Logout handles POST /auth/users/logout. The gate has already verified the
// presented token; logout records it as revoked.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	token := auth.RawTokenFromHeader(c)
	if err := h.auth.Logout(c.Context(), claims.SubjectID, token); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user, err := h.auth.GetUser(c.Context(), claims.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

// List handles GET /auth/users, admin only.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, dto.NewUserResponse(user))
	}
	return c.JSON(out)
}
