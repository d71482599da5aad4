package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carshare/internal/domain"
	"carshare/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, driver_id, start_location, end_location, departure_time, total_seats, available_seats, price_per_seat, status, car_model, car_color, description, created_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.StartLocation,
		ride.EndLocation,
		ride.DepartureTime,
		ride.TotalSeats,
		ride.AvailableSeats,
		ride.PricePerSeat,
		ride.Status,
		nullString(ride.CarModel),
		nullString(ride.CarColor),
		nullString(ride.Description),
		ride.CreatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// GetAll retrieves all rides, newest first.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at DESC LIMIT 100`
	return r.list(ctx, query)
}

// Update updates an existing ride.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET start_location = $1, end_location = $2, departure_time = $3, total_seats = $4, available_seats = $5, price_per_seat = $6, status = $7, car_model = $8, car_color = $9, description = $10
		WHERE id = $11
	`

	result, err := r.q.ExecContext(ctx, query,
		ride.StartLocation,
		ride.EndLocation,
		ride.DepartureTime,
		ride.TotalSeats,
		ride.AvailableSeats,
		ride.PricePerSeat,
		ride.Status,
		nullString(ride.CarModel),
		nullString(ride.CarColor),
		nullString(ride.Description),
		ride.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByDriver retrieves all rides offered by a driver.
func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY departure_time`
	return r.list(ctx, query, driverID)
}

// Search retrieves rides matching a start and end location.
func (r *RideRepository) Search(ctx context.Context, from, to string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE start_location = $1 AND end_location = $2 ORDER BY departure_time`
	return r.list(ctx, query, from, to)
}

// ListDepartingAfter retrieves rides departing after the given time.
func (r *RideRepository) ListDepartingAfter(ctx context.Context, t time.Time) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE departure_time > $1 ORDER BY departure_time`
	return r.list(ctx, query, t)
}

// Delete removes a ride by ID.
func (r *RideRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM rides WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByDriver removes all rides offered by a driver.
func (r *RideRepository) DeleteByDriver(ctx context.Context, driverID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM rides WHERE driver_id = $1`, driverID)
	return err
}

func (r *RideRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var carModel, carColor, description sql.NullString

	err := row.Scan(
		&ride.ID,
		&ride.DriverID,
		&ride.StartLocation,
		&ride.EndLocation,
		&ride.DepartureTime,
		&ride.TotalSeats,
		&ride.AvailableSeats,
		&ride.PricePerSeat,
		&ride.Status,
		&carModel,
		&carColor,
		&description,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.CarModel = carModel.String
	ride.CarColor = carColor.String
	ride.Description = description.String

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
