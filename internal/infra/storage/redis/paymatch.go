package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gabapcia/chainledger/internal/paymatch"

	"github.com/redis/go-redis/v9"
)

// recentPaymentsKey holds the JSON-encoded candidate set of recently
// observed payment records. A single key is enough: the set is small and
// global, not per user.
const recentPaymentsKey = "paymatch:payments:recent"

// GetRecentPayments implements the paymatch.PaymentCache interface.
//
// A missing key is reported as paymatch.ErrCacheMiss so the service can
// fall through to the payment provider.
func (c *client) GetRecentPayments(ctx context.Context) ([]paymatch.PaymentRecord, error) {
	data, err := c.conn.Get(ctx, recentPaymentsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, paymatch.ErrCacheMiss
		}
		return nil, err
	}

	var payments []paymatch.PaymentRecord
	return payments, json.Unmarshal(data, &payments)
}

// StoreRecentPayments implements the paymatch.PaymentCache interface.
func (c *client) StoreRecentPayments(ctx context.Context, payments []paymatch.PaymentRecord, ttl time.Duration) error {
	data, err := json.Marshal(payments)
	if err != nil {
		return err
	}

	return c.conn.Set(ctx, recentPaymentsKey, data, ttl).Err()
}

var _ paymatch.PaymentCache = new(client)
