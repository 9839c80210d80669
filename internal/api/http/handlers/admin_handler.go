package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-booking/internal/service"
)

// AdminHandler serves the dashboard statistics.
type AdminHandler struct {
	stats *service.StatsService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(statsService *service.StatsService) *AdminHandler {
	return &AdminHandler{stats: statsService}
}

// Stats GET /admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
