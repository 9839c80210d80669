package dto

import "time"

// CreateBookingRequest payload for new bookings.
type CreateBookingRequest struct {
	User        string `json:"user" validate:"required"`
	Resource    string `json:"resource" validate:"required"`
	BookingDate string `json:"booking_date" validate:"required,datetime=2006-01-02"`
	TimeSlot    string `json:"time_slot" validate:"required,max=50"`
}

// BookingResponse serializes a booking with denormalized names.
type BookingResponse struct {
	ID           string    `json:"id"`
	User         string    `json:"user"`
	UserName     string    `json:"user_name"`
	Resource     string    `json:"resource"`
	ResourceName string    `json:"resource_name"`
	ResourceType string    `json:"resource_type"`
	BookingDate  string    `json:"booking_date"`
	TimeSlot     string    `json:"time_slot"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
