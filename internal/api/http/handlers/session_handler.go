package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-booking/internal/api/dto"
	"github.com/spec-kit/campus-booking/internal/service"
)

// SessionHandler exposes login and logout.
type SessionHandler struct {
	auth *service.AuthService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authService *service.AuthService) *SessionHandler {
	return &SessionHandler{auth: authService}
}

// Login handles POST /login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message: "Login successful",
		User:    userResponse(user),
	})
}

// Logout handles POST /logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.auth.Logout(c.UserContext(), req.UserID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logout successful"})
}
