package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"carshare/internal/domain"
	"carshare/internal/redis"
	"carshare/internal/repository"
)

// RideService handles ride offers and their lifecycle. Seat counts are never
// mutated here; that is the booking coordinator's job. Lifecycle transitions
// still take the ride lock so they serialize with in-flight bookings.
type RideService struct {
	transactor repository.Transactor
	rideRepo   repository.RideRepository
	userRepo   repository.UserRepository
	locks      redis.LockStoreInterface
	cache      redis.CacheStoreInterface
	clock      Clock
}

// NewRideService creates a new RideService. cache may be nil; clock defaults
// to the system clock when nil.
func NewRideService(
	transactor repository.Transactor,
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	locks redis.LockStoreInterface,
	cache redis.CacheStoreInterface,
	clock Clock,
) *RideService {
	if clock == nil {
		clock = SystemClock()
	}
	return &RideService{
		transactor: transactor,
		rideRepo:   rideRepo,
		userRepo:   userRepo,
		locks:      locks,
		cache:      cache,
		clock:      clock,
	}
}

// CreateRideRequest contains the parameters for offering a ride.
type CreateRideRequest struct {
	DriverID      string
	StartLocation string
	EndLocation   string
	DepartureTime time.Time
	TotalSeats    int
	PricePerSeat  float64
	CarModel      string
	CarColor      string
	Description   string
}

// CreateRide offers a new ride. All seats start available and the ride is
// ACTIVE.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if req.DriverID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(req.StartLocation) == "" || strings.TrimSpace(req.EndLocation) == "" {
		return nil, ErrInvalidRoute
	}
	if req.TotalSeats <= 0 {
		return nil, ErrInvalidTotalSeats
	}
	if req.PricePerSeat < 0 {
		return nil, ErrInvalidPrice
	}
	if !req.DepartureTime.After(s.clock.Now()) {
		return nil, ErrDepartureInPast
	}

	if _, err := s.userRepo.GetByID(ctx, req.DriverID); err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		DriverID:       req.DriverID,
		StartLocation:  strings.TrimSpace(req.StartLocation),
		EndLocation:    strings.TrimSpace(req.EndLocation),
		DepartureTime:  req.DepartureTime,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		PricePerSeat:   req.PricePerSeat,
		Status:         domain.RideStatusActive,
		CarModel:       req.CarModel,
		CarColor:       req.CarColor,
		Description:    req.Description,
		CreatedAt:      s.clock.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	return ride, nil
}

// GetRide retrieves a ride by ID. Lookups go through the cache; misses load
// from the repository and populate it.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	if s.cache != nil {
		if cached, err := s.cache.GetRide(ctx, rideID); err == nil && cached != nil {
			return cached, nil
		}
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetRide(ctx, ride)
	}

	return ride, nil
}

// GetAll retrieves all rides.
func (s *RideService) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}

// SearchRides retrieves rides between two locations.
func (s *RideService) SearchRides(ctx context.Context, from, to string) ([]*domain.Ride, error) {
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return nil, ErrInvalidRoute
	}
	return s.rideRepo.Search(ctx, strings.TrimSpace(from), strings.TrimSpace(to))
}

// ListByDriver retrieves all rides offered by a driver.
func (s *RideService) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidUserID
	}
	return s.rideRepo.ListByDriver(ctx, driverID)
}

// ListUpcoming retrieves rides that have not yet departed.
func (s *RideService) ListUpcoming(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.ListDepartingAfter(ctx, s.clock.Now())
}

// UpdateRideRequest contains the updatable descriptive fields of a ride.
// Seat counts and status are deliberately absent.
type UpdateRideRequest struct {
	RideID         string
	ActingDriverID string
	StartLocation  string
	EndLocation    string
	DepartureTime  time.Time
	PricePerSeat   float64
	CarModel       string
	CarColor       string
	Description    string
}

// UpdateRide updates a ride's descriptive fields. Existing bookings keep the
// price they were created with. The ride lock is held because the departure
// time participates in the booking preconditions.
func (s *RideService) UpdateRide(ctx context.Context, req UpdateRideRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if strings.TrimSpace(req.StartLocation) == "" || strings.TrimSpace(req.EndLocation) == "" {
		return nil, ErrInvalidRoute
	}
	if req.PricePerSeat < 0 {
		return nil, ErrInvalidPrice
	}

	ride, release, err := s.lockRide(ctx, req.RideID)
	if err != nil {
		return nil, err
	}
	defer release()

	if ride.DriverID != req.ActingDriverID {
		return nil, ErrNotRideDriver
	}

	ride.StartLocation = strings.TrimSpace(req.StartLocation)
	ride.EndLocation = strings.TrimSpace(req.EndLocation)
	ride.DepartureTime = req.DepartureTime
	ride.PricePerSeat = req.PricePerSeat
	ride.CarModel = req.CarModel
	ride.CarColor = req.CarColor
	ride.Description = req.Description

	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ride.ID)

	return ride, nil
}

// CancelRide cancels a ride. Only its driver may cancel; CANCELLED is
// terminal, so no further bookings are accepted. Existing bookings stay as
// they are; cancelling them remains the passengers' call.
func (s *RideService) CancelRide(ctx context.Context, rideID, actingDriverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, release, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer release()

	if ride.DriverID != actingDriverID {
		return nil, ErrNotRideDriver
	}

	if ride.Status.Terminal() {
		return nil, fmt.Errorf("%w: ride is %s", ErrRideTerminal, ride.Status)
	}

	ride.Status = domain.RideStatusCancelled
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ride.ID)

	return ride, nil
}

// CompleteRide marks a ride COMPLETED once its departure has passed. The
// transition is triggered externally (a scheduler); the service only
// validates and records it.
func (s *RideService) CompleteRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, release, err := s.lockRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	defer release()

	if ride.Status == domain.RideStatusCompleted {
		return nil, ErrRideAlreadyCompleted
	}
	if ride.Status == domain.RideStatusCancelled {
		return nil, fmt.Errorf("%w: ride is %s", ErrRideTerminal, ride.Status)
	}

	ride.Status = domain.RideStatusCompleted
	if err := s.rideRepo.Update(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ride.ID)

	return ride, nil
}

// DeleteRide removes a ride and every booking against it in one transaction.
// Seats are not credited anywhere: the inventory disappears with the ride.
func (s *RideService) DeleteRide(ctx context.Context, rideID, actingDriverID string) error {
	if rideID == "" {
		return ErrInvalidRideID
	}

	ride, release, err := s.lockRide(ctx, rideID)
	if err != nil {
		return err
	}
	defer release()

	if ride.DriverID != actingDriverID {
		return ErrNotRideDriver
	}

	err = s.transactor.InTx(ctx, func(r repository.TxRepos) error {
		if err := r.Bookings.DeleteByRide(ctx, rideID); err != nil {
			return err
		}
		return r.Rides.Delete(ctx, rideID)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, rideID)

	return nil
}

// lockRide acquires the ride's lock and loads it. The returned release
// function must be called on every exit path.
func (s *RideService) lockRide(ctx context.Context, rideID string) (*domain.Ride, func(), error) {
	locked, err := s.locks.AcquireRideLock(ctx, rideID, rideLockTTL)
	if err != nil {
		return nil, nil, err
	}
	if !locked {
		return nil, nil, ErrRideBusy
	}

	release := func() { _ = s.locks.ReleaseRideLock(ctx, rideID) }

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		release()
		if err == repository.ErrNotFound {
			return nil, nil, ErrRideNotFound
		}
		return nil, nil, err
	}

	return ride, release, nil
}

func (s *RideService) invalidate(ctx context.Context, rideID string) {
	if s.cache != nil {
		_ = s.cache.InvalidateRide(ctx, rideID)
	}
}
