package service

import "errors"

var (
	// ErrRideNotFound is returned when the referenced ride does not exist.
	ErrRideNotFound = errors.New("ride not found")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidUserID is returned when a user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidBookingID is returned when a booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrSelfBooking is returned when a driver tries to book their own ride.
	ErrSelfBooking = errors.New("cannot book your own ride")

	// ErrRideNotBookable is returned when the ride is not in ACTIVE state.
	ErrRideNotBookable = errors.New("ride is not bookable")

	// ErrRideDeparted is returned when the ride's departure time has passed.
	ErrRideDeparted = errors.New("ride has already departed")

	// ErrInvalidSeatCount is returned when the requested seat count is not positive.
	ErrInvalidSeatCount = errors.New("invalid number of seats")

	// ErrInsufficientSeats is returned when fewer seats are available than requested.
	ErrInsufficientSeats = errors.New("not enough available seats")

	// ErrBookingAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")

	// ErrBookingAlreadyCompleted is returned when mutating a completed booking.
	ErrBookingAlreadyCompleted = errors.New("booking already completed")

	// ErrBookingNotPending is returned when confirming a booking that is not PENDING.
	ErrBookingNotPending = errors.New("booking is not pending")

	// ErrBookingNotConfirmed is returned when completing a booking that is not CONFIRMED.
	ErrBookingNotConfirmed = errors.New("booking is not confirmed")

	// ErrNotRideDriver is returned when someone other than the ride's driver
	// attempts a driver-only operation.
	ErrNotRideDriver = errors.New("only the ride's driver may perform this operation")

	// ErrRideBusy is returned when the ride's lock is held by a concurrent
	// operation. Callers may retry the whole operation.
	ErrRideBusy = errors.New("ride is being modified concurrently, retry")

	// ErrBookingBusy is returned when the booking's lock is held by a
	// concurrent operation. Callers may retry the whole operation.
	ErrBookingBusy = errors.New("booking is being modified concurrently, retry")

	// ErrInvalidTotalSeats is returned when a ride is created without a positive seat count.
	ErrInvalidTotalSeats = errors.New("total seats must be positive")

	// ErrInvalidPrice is returned when a ride is created with a negative price.
	ErrInvalidPrice = errors.New("price per seat must not be negative")

	// ErrInvalidRoute is returned when a ride is missing a start or end location.
	ErrInvalidRoute = errors.New("start and end locations are required")

	// ErrDepartureInPast is returned when a ride is created with a past departure time.
	ErrDepartureInPast = errors.New("departure time must be in the future")

	// ErrRideAlreadyCompleted is returned when completing a completed ride.
	ErrRideAlreadyCompleted = errors.New("ride already completed")

	// ErrRideTerminal is returned when a lifecycle transition is attempted on
	// a cancelled or completed ride.
	ErrRideTerminal = errors.New("ride is in a terminal state")

	// ErrEmailRegistered is returned when registering with an email already in use.
	ErrEmailRegistered = errors.New("email already registered")

	// ErrInvalidEmail is returned when the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword is returned when the password is shorter than 6 characters.
	ErrWeakPassword = errors.New("password must be at least 6 characters long")

	// ErrFullNameRequired is returned when the full name is missing.
	ErrFullNameRequired = errors.New("full name is required")

	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
