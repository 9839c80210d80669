package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-booking/internal/api/dto"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/repository"
	"github.com/spec-kit/campus-booking/internal/service"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

// BookingsHandler exposes booking requests and admin decisions.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService}
}

// List GET /bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	filter := repository.BookingFilter{ListOptions: listOptions(c)}
	if status := c.Query("status"); status != "" {
		s := domain.BookingStatus(status)
		filter.Status = &s
	}
	var err error
	if filter.UserID, err = queryID(c, "user"); err != nil {
		return err
	}
	if filter.ResourceID, err = queryID(c, "resource"); err != nil {
		return err
	}
	if filter.BookingDate, err = queryDate(c, "booking_date"); err != nil {
		return err
	}

	list, err := h.bookings.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(bookingResponses(list))
}

// Upcoming GET /bookings/upcoming.
func (h *BookingsHandler) Upcoming(c *fiber.Ctx) error {
	list, err := h.bookings.Upcoming(c.UserContext(), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(bookingResponses(list))
}

// Create POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	day, err := time.Parse(domain.DateLayout, req.BookingDate)
	if err != nil {
		return apperrors.NewFieldError("booking_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}

	booking, err := h.bookings.Create(c.UserContext(), service.CreateBookingInput{
		UserID:      req.User,
		ResourceID:  req.Resource,
		BookingDate: day,
		TimeSlot:    req.TimeSlot,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(bookingResponse(booking))
}

// Get GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(bookingResponse(booking))
}

// Approve POST /bookings/:id/approve.
func (h *BookingsHandler) Approve(c *fiber.Ctx) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Approve(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(bookingResponse(booking))
}

// Reject POST /bookings/:id/reject.
func (h *BookingsHandler) Reject(c *fiber.Ctx) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	booking, err := h.bookings.Reject(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(bookingResponse(booking))
}

// Delete DELETE /bookings/:id.
func (h *BookingsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "booking")
	if err != nil {
		return err
	}
	if err := h.bookings.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func bookingResponse(b *domain.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:           b.ID,
		User:         b.UserID,
		UserName:     b.UserName,
		Resource:     b.ResourceID,
		ResourceName: b.ResourceName,
		ResourceType: string(b.ResourceType),
		BookingDate:  b.BookingDate.Format(domain.DateLayout),
		TimeSlot:     b.TimeSlot,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

func bookingResponses(list []domain.Booking) []dto.BookingResponse {
	items := make([]dto.BookingResponse, 0, len(list))
	for i := range list {
		items = append(items, bookingResponse(&list[i]))
	}
	return items
}
