package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/campus-booking/internal/api/validate"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/repository"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

const invalidChoiceMessage = "Select a valid choice. That choice is not one of the available choices."

// bind parses the JSON body into req and validates it.
func bind(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return validate.Struct(req)
}

// pathID returns the :id parameter; ids that are not UUIDs cannot exist.
func pathID(c *fiber.Ctx, entity string) (string, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewNotFound(entity, map[string]any{"id": raw})
	}
	return id.String(), nil
}

// queryID parses an optional id filter.
func queryID(c *fiber.Ctx, key string) (*string, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.NewFieldError(key, invalidChoiceMessage)
	}
	s := id.String()
	return &s, nil
}

// queryDate parses an optional YYYY-MM-DD filter.
func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return nil, apperrors.NewFieldError(key, "Enter a valid date.")
	}
	return &day, nil
}

// listOptions reads search, ordering and page/page_size. Defaults and the page
// size cap are applied by the repository.
func listOptions(c *fiber.Ctx) repository.ListOptions {
	return repository.ListOptions{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 0),
	}
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
