package events

import (
	"time"

	"github.com/spec-kit/campus-booking/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn         EventType = "user_logged_in"
	EventUserLoggedOut        EventType = "user_logged_out"
	EventUserChanged          EventType = "user_changed"
	EventResourceChanged      EventType = "resource_changed"
	EventBookingCreated       EventType = "booking_created"
	EventBookingStatusChanged EventType = "booking_status_changed"
	EventBookingDeleted       EventType = "booking_deleted"
)

// AllEventTypes lists every event the services publish.
var AllEventTypes = []EventType{
	EventUserLoggedIn,
	EventUserLoggedOut,
	EventUserChanged,
	EventResourceChanged,
	EventBookingCreated,
	EventBookingStatusChanged,
	EventBookingDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ChangeAction names the CRUD operation behind a *_changed event.
type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// EntityChangedPayload payload for user and resource changes.
type EntityChangedPayload struct {
	Action ChangeAction `json:"action"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	UserID      string `json:"user_id"`
	ResourceID  string `json:"resource_id"`
	BookingDate string `json:"booking_date"`
	TimeSlot    string `json:"time_slot"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}
