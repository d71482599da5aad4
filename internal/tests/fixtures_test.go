package tests

import (
	"testing"
	"time"

	"carshare/internal/domain"
	"carshare/internal/service"
)

// All tests run against a frozen clock so the departure checks are
// deterministic.
var testNow = time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

// fixture bundles the mocks and services under test.
type fixture struct {
	users     *MockUserRepository
	rides     *MockRideRepository
	bookings  *MockBookingRepository
	locks     *MockLockStore
	cache     *MockCacheStore
	publisher *MockPublisher
	clock     *MockClock
	tx        *MockTransactor

	bookingService *service.BookingService
	rideService    *service.RideService
	userService    *service.UserService
}

func newFixture() *fixture {
	f := &fixture{
		users:     NewMockUserRepository(),
		rides:     NewMockRideRepository(),
		bookings:  NewMockBookingRepository(),
		locks:     NewMockLockStore(),
		cache:     NewMockCacheStore(),
		publisher: NewMockPublisher(),
		clock:     NewMockClock(testNow),
	}
	f.tx = NewMockTransactor(f.users, f.rides, f.bookings)
	f.bookingService = service.NewBookingService(f.tx, f.bookings, f.rides, f.users, f.locks, f.cache, f.publisher, f.clock)
	f.rideService = service.NewRideService(f.tx, f.rides, f.users, f.locks, f.cache, f.clock)
	f.userService = service.NewUserService(f.tx, f.users, f.rides, f.bookings, f.cache, &MockTokenIssuer{}, f.clock)
	return f
}

func (f *fixture) addUser(id string) *domain.User {
	user := &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		FullName:     "User " + id,
		Role:         domain.UserRoleUser,
		CreatedAt:    testNow,
	}
	f.users.AddUser(user)
	return user
}

func (f *fixture) addActiveRide(id, driverID string, totalSeats, availableSeats int, price float64) *domain.Ride {
	status := domain.RideStatusActive
	if availableSeats == 0 {
		status = domain.RideStatusFull
	}
	ride := &domain.Ride{
		ID:             id,
		DriverID:       driverID,
		StartLocation:  "Berlin",
		EndLocation:    "Hamburg",
		DepartureTime:  testNow.Add(24 * time.Hour),
		TotalSeats:     totalSeats,
		AvailableSeats: availableSeats,
		PricePerSeat:   price,
		Status:         status,
		CreatedAt:      testNow,
	}
	f.rides.AddRide(ride)
	return ride
}

func (f *fixture) addBooking(id, passengerID, rideID string, seats int, status domain.BookingStatus) *domain.Booking {
	booking := &domain.Booking{
		ID:          id,
		PassengerID: passengerID,
		RideID:      rideID,
		SeatsBooked: seats,
		TotalPrice:  float64(seats) * 10,
		Status:      status,
		CreatedAt:   testNow,
	}
	f.bookings.AddBooking(booking)
	return booking
}

// assertSeatInvariant checks that available seats equal total seats minus the
// seats held by PENDING and CONFIRMED bookings.
func assertSeatInvariant(t *testing.T, f *fixture, rideID string) {
	t.Helper()
	ride := f.rides.GetRide(rideID)
	if ride == nil {
		t.Fatalf("ride %s not found", rideID)
	}
	held := f.bookings.SeatsHeldOnRide(rideID)
	if ride.AvailableSeats != ride.TotalSeats-held {
		t.Errorf("seat invariant violated: available=%d, total=%d, held=%d",
			ride.AvailableSeats, ride.TotalSeats, held)
	}
}
