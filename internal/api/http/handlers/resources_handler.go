package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/campus-booking/internal/api/dto"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/repository"
	"github.com/spec-kit/campus-booking/internal/service"
)

// ResourcesHandler exposes resource CRUD.
type ResourcesHandler struct {
	resources *service.ResourceService
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(resourceService *service.ResourceService) *ResourcesHandler {
	return &ResourcesHandler{resources: resourceService}
}

// List GET /resources.
func (h *ResourcesHandler) List(c *fiber.Ctx) error {
	filter := repository.ResourceFilter{ListOptions: listOptions(c)}
	if typ := c.Query("type"); typ != "" {
		t := domain.ResourceType(typ)
		filter.Type = &t
	}
	if status := c.Query("status"); status != "" {
		s := domain.ResourceStatus(status)
		filter.Status = &s
	}
	list, err := h.resources.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(resourceResponses(list))
}

// Available GET /resources/available.
func (h *ResourcesHandler) Available(c *fiber.Ctx) error {
	list, err := h.resources.Available(c.UserContext(), listOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(resourceResponses(list))
}

// Create POST /resources.
func (h *ResourcesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateResourceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	res := &domain.Resource{
		Name:     req.Name,
		Type:     domain.ResourceType(req.Type),
		Capacity: req.Capacity,
		Location: req.Location,
	}
	if req.Status != nil {
		res.Status = domain.ResourceStatus(*req.Status)
	}
	created, err := h.resources.Create(c.UserContext(), res)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(resourceResponse(created))
}

// Get GET /resources/:id.
func (h *ResourcesHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "resource")
	if err != nil {
		return err
	}
	res, err := h.resources.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(resourceResponse(res))
}

// Update PUT|PATCH /resources/:id.
func (h *ResourcesHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "resource")
	if err != nil {
		return err
	}
	var req dto.UpdateResourceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	input := service.UpdateResourceInput{
		Name:     req.Name,
		Capacity: req.Capacity,
		Location: req.Location,
	}
	if req.Type != nil {
		t := domain.ResourceType(*req.Type)
		input.Type = &t
	}
	if req.Status != nil {
		s := domain.ResourceStatus(*req.Status)
		input.Status = &s
	}
	res, err := h.resources.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(resourceResponse(res))
}

// Delete DELETE /resources/:id.
func (h *ResourcesHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "resource")
	if err != nil {
		return err
	}
	if err := h.resources.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func resourceResponse(res *domain.Resource) dto.ResourceResponse {
	return dto.ResourceResponse{
		ID:       res.ID,
		Name:     res.Name,
		Type:     string(res.Type),
		Capacity: res.Capacity,
		Status:   string(res.Status),
		Location: res.Location,
	}
}

func resourceResponses(list []domain.Resource) []dto.ResourceResponse {
	items := make([]dto.ResourceResponse, 0, len(list))
	for i := range list {
		items = append(items, resourceResponse(&list[i]))
	}
	return items
}
