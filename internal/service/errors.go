package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/repository"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

const (
	NameTakenMessage  = "A user with this name already exists."
	EmailTakenMessage = "A user with this email already exists."
	PhoneTakenMessage = "A user with this phone already exists."
)

type fieldMessage struct {
	field   string
	message string
}

// constraintFields maps storage constraints onto the request field they guard.
var constraintFields = map[string]fieldMessage{
	"users_name_lower_key":              {"name", NameTakenMessage},
	"users_email_lower_key":             {"email", EmailTakenMessage},
	"users_phone_key":                   {"phone", PhoneTakenMessage},
	"bookings_resource_slot_active_key": {"resource", domain.ResourceConflictMessage},
	"bookings_user_slot_active_key":     {"user", domain.UserConflictMessage},
}

// storeError converts repository failures into DomainErrors.
func storeError(entity, id string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(entity, map[string]any{"id": id})
	}
	var constraintErr *repository.ConstraintError
	if errors.As(err, &constraintErr) {
		if fm, ok := constraintFields[constraintErr.Constraint]; ok {
			return apperrors.NewFieldError(fm.field, fm.message)
		}
	}
	return apperrors.NewInternalError(err)
}

func invalidPK(id string) string {
	return fmt.Sprintf("Invalid pk %q - object does not exist.", id)
}

// fieldErrors accumulates per-field validation messages.
type fieldErrors map[string]any

func (f fieldErrors) add(field, message string) {
	if _, exists := f[field]; !exists {
		f[field] = message
	}
}

func (f fieldErrors) err() error {
	switch len(f) {
	case 0:
		return nil
	case 1:
		for _, msg := range f {
			return apperrors.NewValidationError(msg.(string), f)
		}
	}
	return apperrors.NewValidationError("invalid input", f)
}

// publish delivers an event; handler failures are logged, never returned.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, event events.Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Publish(ctx, event); err != nil {
		logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err))
	}
}
