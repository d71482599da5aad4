package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore provides per-entity mutual exclusion in Redis. Locks are
// acquired with SET NX so two service instances sharing the store serialize
// on the same keys. The TTL bounds lock lifetime if a holder dies before
// releasing.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRideLock attempts to acquire the exclusive lock for a ride.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (bool, error) {
	return s.acquire(ctx, rideLockKey(rideID), ttl)
}

// ReleaseRideLock releases the lock for a ride.
func (s *LockStore) ReleaseRideLock(ctx context.Context, rideID string) error {
	return s.client.Del(ctx, rideLockKey(rideID)).Err()
}

// AcquireBookingLock attempts to acquire the exclusive lock for a booking.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	return s.acquire(ctx, bookingLockKey(bookingID), ttl)
}

// ReleaseBookingLock releases the lock for a booking.
func (s *LockStore) ReleaseBookingLock(ctx context.Context, bookingID string) error {
	return s.client.Del(ctx, bookingLockKey(bookingID)).Err()
}

func (s *LockStore) acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func rideLockKey(rideID string) string {
	return fmt.Sprintf("lock:ride:%s", rideID)
}

func bookingLockKey(bookingID string) string {
	return fmt.Sprintf("lock:booking:%s", bookingID)
}
