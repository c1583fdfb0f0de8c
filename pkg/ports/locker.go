package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// Locker serializes generation runs that target the same volume.
// The Volume Access Guard performs no locking, so callers sharing a volume must hold one of these.
type Locker interface {
	// Lock blocks until the lock for key is acquired or ctx is done.
	// The TTL bounds how long a crashed holder can keep the lock (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
