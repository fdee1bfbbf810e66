package ports

import (
	"context"
	"errors"
	"time"
)

// IdempotencyRetention is how long a checkout key replays the order it created.
// Older keys are forgotten and may be reused for a new order.
const IdempotencyRetention = 24 * time.Hour

var (
	// ErrIdempotencyConflict means the key was already used for a different basket.
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrIdempotencyInProgress means the key is reserved but its order is not stored yet.
	ErrIdempotencyInProgress = errors.New("order placement with this idempotency key is in progress")
)

// IdempotencyRecord ties an Idempotency-Key header to the order it produced.
// RequestHash fingerprints the customer, items and total of the request.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the record is past the retention window at now.
func (r IdempotencyRecord) Expired(now time.Time, retention time.Duration) bool {
	return retention > 0 && !r.CreatedAt.IsZero() && now.Sub(r.CreatedAt) >= retention
}

// IdempotencyStore remembers checkout keys so a retried submission returns
// the original order instead of creating a second one.
type IdempotencyStore interface {
	// Get returns the live record for key, or nil.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save reserves the key. A live key with the same hash returns the stored
	// record; a different hash returns the stored record and ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
	// Release drops a reservation whose order was never written.
	Release(ctx context.Context, key string) error
}
