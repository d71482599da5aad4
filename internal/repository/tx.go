package repository

import "context"

// TxRepos bundles repositories scoped to a single transaction. Writes made
// through them commit or roll back together.
type TxRepos struct {
	Users    UserRepository
	Rides    RideRepository
	Bookings BookingRepository
}

// Transactor runs a function inside one atomic transaction. If fn returns an
// error the transaction is rolled back and the error is returned unchanged;
// otherwise the transaction is committed.
type Transactor interface {
	InTx(ctx context.Context, fn func(TxRepos) error) error
}
