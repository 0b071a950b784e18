package paymatch

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrPaymentNotFound indicates that no recent payment matched the
	// verification request. A normal negative result for the caller.
	ErrPaymentNotFound = errors.New("no matching payment found")

	// ErrCacheMiss is returned by PaymentCache when no recent candidate
	// set is cached.
	ErrCacheMiss = errors.New("recent payments not cached")
)

// Identity carries the customer fields used to disambiguate between
// payments that match on amount and time alone. Comparison is exact string
// equality on all three fields.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PaymentRecord is one externally sourced payment, as reported by the
// payment provider. AmountCents is the provider's integer smallest-unit
// amount; Created is the provider's creation timestamp in Unix seconds.
type PaymentRecord struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	AmountCents int64    `json:"amount"`
	Created     int64    `json:"created"`
	Identity    Identity `json:"identity"`
}

// VerificationRequest asks whether a payment with the expected amount was
// created inside the inclusive [WindowStart, WindowEnd] Unix-second window.
// A zero window bound leaves that side unbounded.
type VerificationRequest struct {
	AmountCents int64 `validate:"required"`
	WindowStart int64
	WindowEnd   int64
	Identity    Identity
}

// PaymentSource lists recently created payments from the provider,
// newest-first, hydrated with customer identity fields.
type PaymentSource interface {
	ListRecentPayments(ctx context.Context, limit int) ([]PaymentRecord, error)
}

// PaymentCache is a short-lived read-through cache in front of
// PaymentSource, so bursts of verification requests do not hammer the
// provider API.
type PaymentCache interface {
	// GetRecentPayments returns the cached candidate set, or ErrCacheMiss.
	GetRecentPayments(ctx context.Context) ([]PaymentRecord, error)

	// StoreRecentPayments caches the candidate set for the given TTL.
	StoreRecentPayments(ctx context.Context, payments []PaymentRecord, ttl time.Duration) error
}

// nopPaymentCache disables caching: every lookup goes to the source.
type nopPaymentCache struct{}

var _ PaymentCache = nopPaymentCache{}

func (nopPaymentCache) GetRecentPayments(ctx context.Context) ([]PaymentRecord, error) {
	return nil, ErrCacheMiss
}

func (nopPaymentCache) StoreRecentPayments(ctx context.Context, payments []PaymentRecord, ttl time.Duration) error {
	return nil
}
