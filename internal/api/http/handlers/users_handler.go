package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-booking/internal/api/dto"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/repository"
	"github.com/spec-kit/campus-booking/internal/service"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

// UsersHandler exposes user CRUD.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	filter := repository.UserFilter{ListOptions: listOptions(c)}
	if status := c.Query("status"); status != "" {
		s := domain.UserStatus(status)
		filter.Status = &s
	}
	if role := c.Query("role"); role != "" {
		r := domain.UserRole(role)
		filter.Role = &r
	}
	users, err := h.users.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(userResponses(users))
}

// ByStatus GET /users/by_status?status=.
func (h *UsersHandler) ByStatus(c *fiber.Ctx) error {
	status := c.Query("status")
	if status == "" {
		return apperrors.NewFieldError("status", "Status parameter required")
	}
	users, err := h.users.ByStatus(c.UserContext(), domain.UserStatus(status), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(userResponses(users))
}

// Create POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.UserRole(req.Role),
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		input.Status = &status
	}
	user, err := h.users.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(userResponse(user))
}

// Get GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// Update PUT|PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}
	if req.Role != nil {
		role := domain.UserRole(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		input.Status = &status
	}
	user, err := h.users.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// Delete DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return items
}
