package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"carshare/internal/domain"
	"carshare/internal/service"
)

func TestCreateBooking_Success(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 10, 10, 10.0)

	booking, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected PENDING, got %s", booking.Status)
	}
	if booking.SeatsBooked != 4 {
		t.Errorf("expected 4 seats, got %d", booking.SeatsBooked)
	}
	if booking.TotalPrice != 40.0 {
		t.Errorf("expected total price 40.0, got %f", booking.TotalPrice)
	}

	ride := f.rides.GetRide("ride-1")
	if ride.AvailableSeats != 6 {
		t.Errorf("expected 6 available seats, got %d", ride.AvailableSeats)
	}
	if ride.Status != domain.RideStatusActive {
		t.Errorf("expected ride to stay ACTIVE, got %s", ride.Status)
	}

	assertSeatInvariant(t, f, "ride-1")
}

func TestCreateBooking_ExactCapacityFlipsRideToFull(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 4, 12.5)

	booking, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.TotalPrice != 50.0 {
		t.Errorf("expected total price 50.0, got %f", booking.TotalPrice)
	}

	ride := f.rides.GetRide("ride-1")
	if ride.AvailableSeats != 0 {
		t.Errorf("expected 0 available seats, got %d", ride.AvailableSeats)
	}
	if ride.Status != domain.RideStatusFull {
		t.Errorf("expected FULL, got %s", ride.Status)
	}

	assertSeatInvariant(t, f, "ride-1")
}

func TestCreateBooking_RideNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("passenger-1")

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "no-such-ride",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound, got %v", err)
	}
}

func TestCreateBooking_PassengerNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "no-such-user",
		RideID:      "ride-1",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateBooking_RejectsSelfBooking(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "driver-1",
		RideID:      "ride-1",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrSelfBooking) {
		t.Errorf("expected ErrSelfBooking, got %v", err)
	}
	if f.bookings.CountBookings() != 0 {
		t.Error("no booking should have been created")
	}
}

func TestCreateBooking_RejectsNonActiveRide(t *testing.T) {
	t.Parallel()
	statuses := []domain.RideStatus{
		domain.RideStatusFull,
		domain.RideStatusCompleted,
		domain.RideStatusCancelled,
	}

	for _, status := range statuses {
		status := status
		t.Run(string(status), func(t *testing.T) {
			t.Parallel()
			f := newFixture()
			f.addUser("driver-1")
			f.addUser("passenger-1")
			ride := f.addActiveRide("ride-1", "driver-1", 4, 1, 10.0)
			ride.Status = status

			_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
				PassengerID: "passenger-1",
				RideID:      "ride-1",
				Seats:       1,
			})
			if !errors.Is(err, service.ErrRideNotBookable) {
				t.Errorf("expected ErrRideNotBookable for %s, got %v", status, err)
			}
		})
	}
}

func TestCreateBooking_RejectsDepartedRide(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	ride := f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)
	ride.DepartureTime = testNow.Add(-time.Hour)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrRideDeparted) {
		t.Errorf("expected ErrRideDeparted, got %v", err)
	}
}

func TestCreateBooking_RejectsDepartureExactlyNow(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	ride := f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)
	ride.DepartureTime = testNow

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrRideDeparted) {
		t.Errorf("expected ErrRideDeparted, got %v", err)
	}
}

func TestCreateBooking_RejectsNonPositiveSeats(t *testing.T) {
	t.Parallel()
	for _, seats := range []int{0, -1} {
		seats := seats
		f := newFixture()
		f.addUser("driver-1")
		f.addUser("passenger-1")
		f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)

		_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
			PassengerID: "passenger-1",
			RideID:      "ride-1",
			Seats:       seats,
		})
		if !errors.Is(err, service.ErrInvalidSeatCount) {
			t.Errorf("expected ErrInvalidSeatCount for seats=%d, got %v", seats, err)
		}
	}
}

func TestCreateBooking_RejectsInsufficientSeats(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 2, 10.0)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       3,
	})
	if !errors.Is(err, service.ErrInsufficientSeats) {
		t.Fatalf("expected ErrInsufficientSeats, got %v", err)
	}
	if !strings.Contains(err.Error(), "requested 3") || !strings.Contains(err.Error(), "available 2") {
		t.Errorf("expected counts in error message, got %q", err.Error())
	}

	ride := f.rides.GetRide("ride-1")
	if ride.AvailableSeats != 2 {
		t.Errorf("seat count must be untouched, got %d", ride.AvailableSeats)
	}
}

func TestCreateBooking_SelfBookingCheckedBeforeState(t *testing.T) {
	t.Parallel()
	// A driver booking their own cancelled ride must hit the self-booking
	// check first.
	f := newFixture()
	f.addUser("driver-1")
	ride := f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)
	ride.Status = domain.RideStatusCancelled

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "driver-1",
		RideID:      "ride-1",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrSelfBooking) {
		t.Errorf("expected ErrSelfBooking, got %v", err)
	}
}

func TestCreateBooking_ReturnsBusyWhenRideLocked(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)
	f.locks.HoldRideLock("ride-1", time.Minute)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       1,
	})
	if !errors.Is(err, service.ErrRideBusy) {
		t.Errorf("expected ErrRideBusy, got %v", err)
	}
}

func TestCreateBooking_ReleasesLockOnFailure(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 2, 10.0)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       3,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if f.locks.IsRideLocked("ride-1") {
		t.Error("ride lock must be released after a failed booking")
	}
}

func TestCreateBooking_ReleasesLockOnSuccess(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)

	if _, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       1,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.locks.IsRideLocked("ride-1") {
		t.Error("ride lock must be released after a successful booking")
	}
}

func TestCreateBooking_RollsBackOnRideUpdateFailure(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)
	f.rides.UpdateError = ErrMockDBConstraint

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       2,
	})
	if !errors.Is(err, ErrMockDBConstraint) {
		t.Fatalf("expected the injected error, got %v", err)
	}

	// The booking write in the same transaction must have been rolled back.
	if f.bookings.CountBookings() != 0 {
		t.Errorf("expected no bookings after rollback, got %d", f.bookings.CountBookings())
	}
	ride := f.rides.GetRide("ride-1")
	if ride.AvailableSeats != 4 {
		t.Errorf("expected seat count restored to 4, got %d", ride.AvailableSeats)
	}
	assertSeatInvariant(t, f, "ride-1")
}

func TestCreateBooking_InvalidatesCacheAndPublishes(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	ride := f.addActiveRide("ride-1", "driver-1", 4, 4, 10.0)
	_ = f.cache.SetRide(context.Background(), ride)

	booking, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.cache.HasRide("ride-1") {
		t.Error("ride cache entry must be invalidated after booking")
	}

	events := f.publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].RoutingKey != service.EventBookingCreated {
		t.Errorf("expected %s, got %s", service.EventBookingCreated, events[0].RoutingKey)
	}
	payload, ok := events[0].Payload.(service.BookingEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", events[0].Payload)
	}
	if payload.BookingID != booking.ID {
		t.Errorf("expected event for booking %s, got %s", booking.ID, payload.BookingID)
	}
}

func TestCreateBooking_NoEventOnFailure(t *testing.T) {
	t.Parallel()
	f := newFixture()
	f.addUser("driver-1")
	f.addUser("passenger-1")
	f.addActiveRide("ride-1", "driver-1", 4, 1, 10.0)

	_, err := f.bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		Seats:       2,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(f.publisher.Events()) != 0 {
		t.Error("no event must be published for a failed booking")
	}
}
