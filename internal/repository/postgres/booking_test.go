package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"carshare/internal/domain"
	"carshare/internal/repository"
)

func newMockDB(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBookingRepository(db), mock
}

func TestBookingRepository_Create(t *testing.T) {
	repo, mock := newMockDB(t)

	createdAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID:          "booking-1",
		PassengerID: "passenger-1",
		RideID:      "ride-1",
		SeatsBooked: 2,
		TotalPrice:  25.0,
		Status:      domain.BookingStatusPending,
		CreatedAt:   createdAt,
	}

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("booking-1", "passenger-1", "ride-1", 2, 25.0, domain.BookingStatusPending, createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_GetByID(t *testing.T) {
	repo, mock := newMockDB(t)

	createdAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "passenger_id", "ride_id", "seats_booked", "total_price", "status", "created_at"}).
		AddRow("booking-1", "passenger-1", "ride-1", 2, 25.0, "PENDING", createdAt)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("booking-1").
		WillReturnRows(rows)

	booking, err := repo.GetByID(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.SeatsBooked != 2 || booking.TotalPrice != 25.0 {
		t.Errorf("unexpected booking: %+v", booking)
	}
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected PENDING, got %s", booking.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "passenger_id", "ride_id", "seats_booked", "total_price", "status", "created_at"}))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs(domain.BookingStatusCancelled, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Booking{
		ID:     "missing",
		Status: domain.BookingStatusCancelled,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBookingRepository_DeleteByRide(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec("DELETE FROM bookings WHERE ride_id").
		WithArgs("ride-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteByRide(context.Background(), "ride-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingRepository_ListByRide(t *testing.T) {
	repo, mock := newMockDB(t)

	createdAt := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "passenger_id", "ride_id", "seats_booked", "total_price", "status", "created_at"}).
		AddRow("booking-1", "passenger-1", "ride-1", 2, 25.0, "PENDING", createdAt).
		AddRow("booking-2", "passenger-2", "ride-1", 1, 12.5, "CONFIRMED", createdAt)

	mock.ExpectQuery("SELECT (.+) FROM bookings WHERE ride_id").
		WithArgs("ride-1").
		WillReturnRows(rows)

	bookings, err := repo.ListByRide(context.Background(), "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(bookings))
	}
	if bookings[1].Status != domain.BookingStatusConfirmed {
		t.Errorf("expected CONFIRMED, got %s", bookings[1].Status)
	}
}
