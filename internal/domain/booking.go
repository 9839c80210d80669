package domain

import (
	"fmt"
	"time"
)

// BookingStatus enumerates approval states.
type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "PENDING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// Holds reports whether a booking in status s occupies its slot.
func (s BookingStatus) Holds() bool {
	return s != BookingStatusRejected
}

// DateLayout is the wire and storage format of booking dates.
const DateLayout = "2006-01-02"

// Booking reserves a resource for a user on a date and time slot.
type Booking struct {
	ID           string
	UserID       string
	UserName     string
	ResourceID   string
	ResourceName string
	ResourceType ResourceType
	BookingDate  time.Time
	TimeSlot     string
	Status       BookingStatus
	CreatedAt    time.Time
}

// SameSlot reports whether b and other fall on the same date and slot label.
func (b Booking) SameSlot(other Booking) bool {
	return b.TimeSlot == other.TimeSlot && SameDate(b.BookingDate, other.BookingDate)
}

// SameDate compares calendar dates ignoring clock and location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

const (
	ResourceConflictMessage = "This resource is already booked for the selected date and time slot."
	UserConflictMessage     = "You already have a booking at this time slot. One user cannot make two bookings at the same time."
)

// ConflictKind tells which slot rule a candidate booking broke.
type ConflictKind string

const (
	ConflictResource ConflictKind = "resource"
	ConflictUser     ConflictKind = "user"
)

// ConflictError reports a double booking. Field names the offending input.
type ConflictError struct {
	Kind      ConflictKind
	BookingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict with booking %s", e.Kind, e.BookingID)
}

// Field returns the request field the conflict is reported under.
func (e *ConflictError) Field() string {
	return string(e.Kind)
}

// Message returns the user facing explanation.
func (e *ConflictError) Message() string {
	if e.Kind == ConflictUser {
		return UserConflictMessage
	}
	return ResourceConflictMessage
}

// CheckBookingConflicts decides whether candidate may be created given the
// existing bookings. Resource conflicts are reported before user conflicts and
// rejected bookings never conflict.
func CheckBookingConflicts(candidate Booking, existing []Booking) error {
	var userClash *Booking
	for i := range existing {
		b := &existing[i]
		if !b.Status.Holds() || !candidate.SameSlot(*b) {
			continue
		}
		if b.ResourceID == candidate.ResourceID {
			return &ConflictError{Kind: ConflictResource, BookingID: b.ID}
		}
		if userClash == nil && b.UserID == candidate.UserID {
			userClash = b
		}
	}
	if userClash != nil {
		return &ConflictError{Kind: ConflictUser, BookingID: userClash.ID}
	}
	return nil
}

// BookingAction is an admin decision on a booking.
type BookingAction string

const (
	BookingActionApprove BookingAction = "approve"
	BookingActionReject  BookingAction = "reject"
)

// ApplyBookingAction returns the status produced by action. Transitions are
// not guarded: any current status is overwritten. overwrote is true when the
// booking was not PENDING beforehand.
func ApplyBookingAction(current BookingStatus, action BookingAction) (next BookingStatus, overwrote bool, err error) {
	switch action {
	case BookingActionApprove:
		next = BookingStatusApproved
	case BookingActionReject:
		next = BookingStatusRejected
	default:
		return current, false, fmt.Errorf("unknown booking action %q", action)
	}
	return next, current != BookingStatusPending, nil
}
