package service

import "carshare/internal/domain"

// Routing keys for published booking events.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCompleted = "booking.completed"
)

// EventPublisher publishes domain events after a mutation commits. Publish
// failures never fail the originating operation.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// BookingEvent is the payload published for booking lifecycle events.
type BookingEvent struct {
	BookingID   string  `json:"booking_id"`
	RideID      string  `json:"ride_id"`
	PassengerID string  `json:"passenger_id"`
	SeatsBooked int     `json:"seats_booked"`
	TotalPrice  float64 `json:"total_price"`
	Status      string  `json:"status"`
}

func bookingEvent(b *domain.Booking) BookingEvent {
	return BookingEvent{
		BookingID:   b.ID,
		RideID:      b.RideID,
		PassengerID: b.PassengerID,
		SeatsBooked: b.SeatsBooked,
		TotalPrice:  b.TotalPrice,
		Status:      string(b.Status),
	}
}
