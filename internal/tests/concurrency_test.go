package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"carshare/internal/domain"
	"carshare/internal/service"
)

// TestConcurrentBookings_NoOverbooking fires more booking attempts than there
// are seats. Attempts that lose the ride lock retry; attempts that find the
// ride full fail for good. Exactly TotalSeats seats must end up booked.
func TestConcurrentBookings_NoOverbooking(t *testing.T) {
	t.Parallel()
	const (
		totalSeats = 5
		passengers = 20
	)

	f := newFixture()
	f.addUser("driver-1")
	f.addActiveRide("ride-1", "driver-1", totalSeats, totalSeats, 10.0)
	for i := 0; i < passengers; i++ {
		f.addUser(fmt.Sprintf("passenger-%d", i))
	}

	var (
		wg        sync.WaitGroup
		succeeded int32
	)
	wg.Add(passengers)

	for i := 0; i < passengers; i++ {
		go func(i int) {
			defer wg.Done()
			req := service.CreateBookingRequest{
				PassengerID: fmt.Sprintf("passenger-%d", i),
				RideID:      "ride-1",
				Seats:       1,
			}
			for {
				_, err := f.bookingService.CreateBooking(context.Background(), req)
				if errors.Is(err, service.ErrRideBusy) {
					continue // Lock contention, retry.
				}
				if err == nil {
					atomic.AddInt32(&succeeded, 1)
				}
				return
			}
		}(i)
	}

	wg.Wait()

	if succeeded != totalSeats {
		t.Errorf("expected exactly %d successful bookings, got %d", totalSeats, succeeded)
	}

	ride := f.rides.GetRide("ride-1")
	if ride.AvailableSeats != 0 {
		t.Errorf("expected 0 available seats, got %d", ride.AvailableSeats)
	}
	if ride.Status != domain.RideStatusFull {
		t.Errorf("expected FULL, got %s", ride.Status)
	}
	if held := f.bookings.SeatsHeldOnRide("ride-1"); held != totalSeats {
		t.Errorf("expected %d seats held, got %d", totalSeats, held)
	}
	assertSeatInvariant(t, f, "ride-1")
}

// TestConcurrentBookAndCancel interleaves bookings and cancellations on the
// same ride. Whatever the interleaving, the seat invariant must hold at the
// end.
func TestConcurrentBookAndCancel(t *testing.T) {
	t.Parallel()
	const workers = 10

	f := newFixture()
	f.addUser("driver-1")
	f.addActiveRide("ride-1", "driver-1", 10, 10, 10.0)
	for i := 0; i < workers; i++ {
		f.addUser(fmt.Sprintf("passenger-%d", i))
	}

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			req := service.CreateBookingRequest{
				PassengerID: fmt.Sprintf("passenger-%d", i),
				RideID:      "ride-1",
				Seats:       2,
			}

			var booking *domain.Booking
			for {
				b, err := f.bookingService.CreateBooking(context.Background(), req)
				if errors.Is(err, service.ErrRideBusy) {
					continue
				}
				booking = b
				break
			}
			if booking == nil {
				return
			}

			// Half the successful bookers cancel again.
			if i%2 == 0 {
				for {
					_, err := f.bookingService.CancelBooking(context.Background(), booking.ID)
					if errors.Is(err, service.ErrRideBusy) || errors.Is(err, service.ErrBookingBusy) {
						continue
					}
					return
				}
			}
		}(i)
	}

	wg.Wait()

	assertSeatInvariant(t, f, "ride-1")

	ride := f.rides.GetRide("ride-1")
	if ride.AvailableSeats < 0 || ride.AvailableSeats > ride.TotalSeats {
		t.Errorf("available seats out of range: %d", ride.AvailableSeats)
	}
	if ride.AvailableSeats == 0 && ride.Status != domain.RideStatusFull {
		t.Errorf("ride with 0 seats must be FULL, got %s", ride.Status)
	}
	if ride.AvailableSeats > 0 && ride.Status != domain.RideStatusActive {
		t.Errorf("ride with free seats must be ACTIVE, got %s", ride.Status)
	}
}
