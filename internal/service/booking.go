package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carshare/internal/domain"
	"carshare/internal/redis"
	"carshare/internal/repository"
)

// Lock TTLs bound the critical sections if a holder dies before releasing.
// Both are far above the expected duration of a coordinator call, which does
// no external I/O beyond its own reads and one transaction.
const (
	rideLockTTL    = 10 * time.Second
	bookingLockTTL = 10 * time.Second
)

// BookingService coordinates booking mutations with ride seat inventory.
// Every operation that touches a ride's seat count runs under that ride's
// exclusive lock, and its writes commit in a single transaction, so the
// inventory invariant holds at every commit point. Operations on a specific
// booking additionally hold that booking's lock; booking locks are always
// acquired before ride locks.
type BookingService struct {
	transactor  repository.Transactor
	bookingRepo repository.BookingRepository
	rideRepo    repository.RideRepository
	userRepo    repository.UserRepository
	locks       redis.LockStoreInterface
	cache       redis.CacheStoreInterface
	publisher   EventPublisher
	clock       Clock
}

// NewBookingService creates a new BookingService. cache and publisher may be
// nil; clock defaults to the system clock when nil.
func NewBookingService(
	transactor repository.Transactor,
	bookingRepo repository.BookingRepository,
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	locks redis.LockStoreInterface,
	cache redis.CacheStoreInterface,
	publisher EventPublisher,
	clock Clock,
) *BookingService {
	if clock == nil {
		clock = SystemClock()
	}
	return &BookingService{
		transactor:  transactor,
		bookingRepo: bookingRepo,
		rideRepo:    rideRepo,
		userRepo:    userRepo,
		locks:       locks,
		cache:       cache,
		publisher:   publisher,
		clock:       clock,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	PassengerID string
	RideID      string
	Seats       int
}

// CreateBooking reserves seats on a ride for a passenger. The new booking and
// the decremented seat count commit as one transaction; no partial state is
// ever observable. Returns ErrRideBusy if a concurrent operation holds the
// ride's lock.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.PassengerID == "" {
		return nil, ErrInvalidUserID
	}

	locked, err := s.locks.AcquireRideLock(ctx, req.RideID, rideLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRideBusy
	}
	defer func() { _ = s.locks.ReleaseRideLock(ctx, req.RideID) }()

	ride, err := s.getRide(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getUser(ctx, req.PassengerID); err != nil {
		return nil, err
	}

	if req.PassengerID == ride.DriverID {
		return nil, ErrSelfBooking
	}

	if ride.Status != domain.RideStatusActive {
		return nil, fmt.Errorf("%w: ride is %s", ErrRideNotBookable, ride.Status)
	}

	if !ride.DepartureTime.After(s.clock.Now()) {
		return nil, ErrRideDeparted
	}

	if req.Seats <= 0 {
		return nil, ErrInvalidSeatCount
	}

	if req.Seats > ride.AvailableSeats {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrInsufficientSeats, req.Seats, ride.AvailableSeats)
	}

	booking := &domain.Booking{
		ID:          uuid.New().String(),
		PassengerID: req.PassengerID,
		RideID:      req.RideID,
		SeatsBooked: req.Seats,
		TotalPrice:  ride.PricePerSeat * float64(req.Seats),
		Status:      domain.BookingStatusPending,
		CreatedAt:   s.clock.Now(),
	}

	ride.AvailableSeats -= req.Seats
	if ride.AvailableSeats == 0 {
		ride.Status = domain.RideStatusFull
	}

	err = s.transactor.InTx(ctx, func(r repository.TxRepos) error {
		if err := r.Bookings.Create(ctx, booking); err != nil {
			return err
		}
		return r.Rides.Update(ctx, ride)
	})
	if err != nil {
		return nil, err
	}

	s.afterRideMutation(ctx, ride.ID)
	s.publish(EventBookingCreated, booking)

	return booking, nil
}

// CancelBooking cancels a booking and credits its seats back to the ride.
// Seats are credited even when the ride has already been cancelled or
// completed; only a FULL ride flips back to ACTIVE. Cancelled and completed
// bookings are rejected without touching seat counts.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, release, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	switch booking.Status {
	case domain.BookingStatusCancelled:
		return nil, ErrBookingAlreadyCancelled
	case domain.BookingStatusCompleted:
		return nil, ErrBookingAlreadyCompleted
	}

	locked, err := s.locks.AcquireRideLock(ctx, booking.RideID, rideLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrRideBusy
	}
	defer func() { _ = s.locks.ReleaseRideLock(ctx, booking.RideID) }()

	ride, err := s.getRide(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled
	ride.AvailableSeats += booking.SeatsBooked
	if ride.Status == domain.RideStatusFull {
		ride.Status = domain.RideStatusActive
	}

	err = s.transactor.InTx(ctx, func(r repository.TxRepos) error {
		if err := r.Bookings.Update(ctx, booking); err != nil {
			return err
		}
		return r.Rides.Update(ctx, ride)
	})
	if err != nil {
		return nil, err
	}

	s.afterRideMutation(ctx, ride.ID)
	s.publish(EventBookingCancelled, booking)

	return booking, nil
}

// ConfirmBooking marks a PENDING booking as CONFIRMED. Only the driver of the
// booked ride may confirm. No seat inventory changes: the seats were reserved
// at creation.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, actingDriverID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	if actingDriverID == "" {
		return nil, ErrInvalidUserID
	}

	booking, release, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	ride, err := s.getRide(ctx, booking.RideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != actingDriverID {
		return nil, ErrNotRideDriver
	}

	if booking.Status != domain.BookingStatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrBookingNotPending, booking.Status)
	}

	booking.Status = domain.BookingStatusConfirmed
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(EventBookingConfirmed, booking)

	return booking, nil
}

// CompleteBooking marks a CONFIRMED booking as COMPLETED. The transition is
// triggered externally (a scheduler after the ride has run); the coordinator
// only validates and records it.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, release, err := s.lockBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	defer release()

	if booking.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrBookingNotConfirmed, booking.Status)
	}

	booking.Status = domain.BookingStatusCompleted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(EventBookingCompleted, booking)

	return booking, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}
	return s.getBooking(ctx, bookingID)
}

// ListByPassenger retrieves all bookings made by a passenger.
func (s *BookingService) ListByPassenger(ctx context.Context, passengerID string) ([]*domain.Booking, error) {
	if passengerID == "" {
		return nil, ErrInvalidUserID
	}
	return s.bookingRepo.ListByPassenger(ctx, passengerID)
}

// ListByRide retrieves all bookings against a ride.
func (s *BookingService) ListByRide(ctx context.Context, rideID string) ([]*domain.Booking, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.bookingRepo.ListByRide(ctx, rideID)
}

// lockBooking acquires the booking's lock and loads it. The returned release
// function must be called on every exit path.
func (s *BookingService) lockBooking(ctx context.Context, bookingID string) (*domain.Booking, func(), error) {
	locked, err := s.locks.AcquireBookingLock(ctx, bookingID, bookingLockTTL)
	if err != nil {
		return nil, nil, err
	}
	if !locked {
		return nil, nil, ErrBookingBusy
	}

	release := func() { _ = s.locks.ReleaseBookingLock(ctx, bookingID) }

	booking, err := s.getBooking(ctx, bookingID)
	if err != nil {
		release()
		return nil, nil, err
	}

	return booking, release, nil
}

func (s *BookingService) getBooking(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) getRide(ctx context.Context, id string) (*domain.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

func (s *BookingService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *BookingService) afterRideMutation(ctx context.Context, rideID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateRide(ctx, rideID)
	}
}

func (s *BookingService) publish(routingKey string, booking *domain.Booking) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(routingKey, bookingEvent(booking))
}
