package domain

import "time"

// RideStatus represents the current status of a ride offer.
type RideStatus string

const (
	RideStatusActive    RideStatus = "ACTIVE"
	RideStatusFull      RideStatus = "FULL"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// Terminal reports whether the status is absorbing: no new bookings are
// accepted and seat counts no longer drive status flips.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Ride represents a driver's offered trip with a fixed seat capacity.
// AvailableSeats and Status are mutated only by the booking coordinator and
// the ride lifecycle operations. The invariant maintained by the coordinator:
// AvailableSeats == TotalSeats - sum of seats on PENDING/CONFIRMED bookings.
type Ride struct {
	ID             string
	DriverID       string
	StartLocation  string
	EndLocation    string
	DepartureTime  time.Time
	TotalSeats     int
	AvailableSeats int
	PricePerSeat   float64
	Status         RideStatus
	CarModel       string
	CarColor       string
	Description    string
	CreatedAt      time.Time
}
