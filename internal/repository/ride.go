package repository

import (
	"context"
	"time"

	"carshare/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetAll retrieves all rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// Update updates an existing ride.
	Update(ctx context.Context, ride *domain.Ride) error

	// ListByDriver retrieves all rides offered by a driver.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// Search retrieves rides matching a start and end location.
	Search(ctx context.Context, from, to string) ([]*domain.Ride, error)

	// ListDepartingAfter retrieves rides departing after the given time.
	ListDepartingAfter(ctx context.Context, t time.Time) ([]*domain.Ride, error)

	// Delete removes a ride by ID.
	Delete(ctx context.Context, id string) error

	// DeleteByDriver removes all rides offered by a driver.
	DeleteByDriver(ctx context.Context, driverID string) error
}
