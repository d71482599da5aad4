package repository

import (
	"context"

	"carshare/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves all bookings.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// ListByRide retrieves all bookings against a ride.
	ListByRide(ctx context.Context, rideID string) ([]*domain.Booking, error)

	// ListByPassenger retrieves all bookings made by a passenger.
	ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error)

	// DeleteByRide removes all bookings against a ride.
	DeleteByRide(ctx context.Context, rideID string) error

	// DeleteByPassenger removes all bookings made by a passenger.
	DeleteByPassenger(ctx context.Context, passengerID string) error
}
