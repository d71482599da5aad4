package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Terminal reports whether the status accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// HoldsSeats reports whether a booking in this status counts against the
// ride's available seats.
func (s BookingStatus) HoldsSeats() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// Booking represents a passenger's reservation of seats on a ride.
// TotalPrice is computed once at creation and never recomputed; Status is the
// only field mutated after creation.
type Booking struct {
	ID          string
	PassengerID string
	RideID      string
	SeatsBooked int
	TotalPrice  float64
	Status      BookingStatus
	CreatedAt   time.Time
}
