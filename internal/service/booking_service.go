package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/campus-booking/internal/config"
	"github.com/spec-kit/campus-booking/internal/domain"
	"github.com/spec-kit/campus-booking/internal/events"
	"github.com/spec-kit/campus-booking/internal/observability"
	"github.com/spec-kit/campus-booking/internal/repository"
	apperrors "github.com/spec-kit/campus-booking/pkg/util"
)

// Booking creation outcomes reported to metrics.
const (
	bookingCreated          = "created"
	bookingResourceConflict = "resource_conflict"
	bookingUserConflict     = "user_conflict"
)

// BookingService validates, stores and decides on booking requests.
type BookingService struct {
	bookings   repository.BookingRepository
	users      repository.UserRepository
	resources  repository.ResourceRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	location   *time.Location
	now        func() time.Time
}

// BookingDependencies encapsulates collaborators of the booking service.
type BookingDependencies struct {
	BookingRepo  repository.BookingRepository
	UserRepo     repository.UserRepository
	ResourceRepo repository.ResourceRepository
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	// Now overrides the clock used for upcoming bookings.
	Now func() time.Time
}

// CreateBookingInput carries a booking request.
type CreateBookingInput struct {
	UserID      string
	ResourceID  string
	BookingDate time.Time
	TimeSlot    string
}

// NewBookingService constructs the service.
func NewBookingService(cfg config.Config, deps BookingDependencies) *BookingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Booking.Location
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		bookings:   deps.BookingRepo,
		users:      deps.UserRepo,
		resources:  deps.ResourceRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		location:   loc,
		now:        now,
	}
}

// Create stores a PENDING booking unless it double books the resource or
// the user for its date and slot.
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	errs := fieldErrors{}
	if err := s.exists(ctx, errs, "user", input.UserID, func(ctx context.Context, id string) error {
		_, err := s.users.GetByID(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	if err := s.exists(ctx, errs, "resource", input.ResourceID, func(ctx context.Context, id string) error {
		_, err := s.resources.GetByID(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		UserID:      input.UserID,
		ResourceID:  input.ResourceID,
		BookingDate: input.BookingDate,
		TimeSlot:    input.TimeSlot,
		Status:      domain.BookingStatusPending,
	}
	candidate := *booking
	err := s.bookings.CreateChecked(ctx, booking, func(existing []domain.Booking) error {
		return domain.CheckBookingConflicts(candidate, existing)
	})
	if err != nil {
		return nil, s.createError(err)
	}

	s.metrics.RecordBooking(bookingCreated)
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventBookingCreated,
		EntityID: booking.ID,
		Payload: events.BookingCreatedPayload{
			UserID:      booking.UserID,
			ResourceID:  booking.ResourceID,
			BookingDate: booking.BookingDate.Format(domain.DateLayout),
			TimeSlot:    booking.TimeSlot,
		},
	})
	return booking, nil
}

func (s *BookingService) exists(ctx context.Context, errs fieldErrors, field, id string, get func(context.Context, string) error) error {
	err := get(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		errs.add(field, invalidPK(id))
		return nil
	default:
		return storeError(field, id, err)
	}
}

func (s *BookingService) createError(err error) error {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		s.recordConflict(conflict.Kind)
		return apperrors.NewFieldError(conflict.Field(), conflict.Message())
	}
	var constraintErr *repository.ConstraintError
	if errors.As(err, &constraintErr) {
		switch constraintErr.Constraint {
		case "bookings_resource_slot_active_key":
			s.recordConflict(domain.ConflictResource)
		case "bookings_user_slot_active_key":
			s.recordConflict(domain.ConflictUser)
		}
	}
	return storeError("booking", "", err)
}

func (s *BookingService) recordConflict(kind domain.ConflictKind) {
	if kind == domain.ConflictUser {
		s.metrics.RecordBooking(bookingUserConflict)
		return
	}
	s.metrics.RecordBooking(bookingResourceConflict)
}

// Approve marks a booking APPROVED.
func (s *BookingService) Approve(ctx context.Context, id string) (*domain.Booking, error) {
	return s.decide(ctx, id, domain.BookingActionApprove)
}

// Reject marks a booking REJECTED.
func (s *BookingService) Reject(ctx context.Context, id string) (*domain.Booking, error) {
	return s.decide(ctx, id, domain.BookingActionReject)
}

// decide applies action whatever the booking's current status.
func (s *BookingService) decide(ctx context.Context, id string, action domain.BookingAction) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("booking", id, err)
	}

	next, overwrote, err := domain.ApplyBookingAction(booking.Status, action)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if overwrote {
		s.logger.Warn("booking decision overwrites a settled status",
			zap.String("booking_id", id),
			zap.String("from", string(booking.Status)),
			zap.String("to", string(next)))
	}

	if err := s.bookings.UpdateStatus(ctx, id, next); err != nil {
		return nil, storeError("booking", id, err)
	}
	previous := booking.Status
	booking.Status = next

	s.metrics.RecordTransition(string(next))
	s.logger.Info("booking status changed",
		zap.String("booking_id", id),
		zap.String("status", string(next)))
	publish(ctx, s.dispatcher, s.logger, events.Event{
		Type:     events.EventBookingStatusChanged,
		EntityID: id,
		Payload:  events.BookingStatusChangedPayload{OldStatus: previous, NewStatus: next},
	})
	return booking, nil
}

// Delete removes a booking.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return storeError("booking", id, err)
	}
	publish(ctx, s.dispatcher, s.logger, events.Event{Type: events.EventBookingDeleted, EntityID: id})
	return nil
}

// Get fetches a booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("booking", id, err)
	}
	return booking, nil
}

// List returns bookings matching filter.
func (s *BookingService) List(ctx context.Context, filter repository.BookingFilter) ([]domain.Booking, error) {
	list, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, storeError("booking", "", err)
	}
	return list, nil
}

// Upcoming lists non-rejected bookings dated today or later in the
// configured booking timezone.
func (s *BookingService) Upcoming(ctx context.Context, opts repository.ListOptions) ([]domain.Booking, error) {
	today := s.Today()
	return s.List(ctx, repository.BookingFilter{
		DateFrom:        &today,
		ExcludeRejected: true,
		ListOptions:     opts,
	})
}

// Today returns the current calendar date as midnight UTC.
func (s *BookingService) Today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
