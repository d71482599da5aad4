package postgres

import (
	"context"
	"database/sql"

	"carshare/internal/repository"
)

// Transactor implements repository.Transactor on top of *sql.DB.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

var _ repository.Transactor = (*Transactor)(nil)

// InTx runs fn with repositories bound to a single transaction. The
// transaction is rolled back if fn returns an error or commit fails.
func (t *Transactor) InTx(ctx context.Context, fn func(repository.TxRepos) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	repos := repository.TxRepos{
		Users:    NewUserRepositoryWithTx(tx),
		Rides:    NewRideRepositoryWithTx(tx),
		Bookings: NewBookingRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
