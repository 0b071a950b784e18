// Package paymatch verifies fiat payments: given an expected amount, a
// creation-time window, and the payer's identity, it searches the
// provider's recent payments for the one the caller is entitled to claim.
package paymatch

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/chainledger/internal/pkg/logger"
	"github.com/gabapcia/chainledger/internal/pkg/validator"
)

const (
	defaultCandidateLimit = 20
	defaultCacheTTL       = time.Minute
)

// Service performs amount-and-window payment verification.
type Service interface {
	// VerifyPayment searches recent payments for one whose creation time
	// falls inside the request's inclusive window and whose amount equals
	// the expected amount exactly. A single survivor is the match; among
	// several survivors, the first whose identity fields all equal the
	// request's identity wins. No survivor means ErrPaymentNotFound.
	VerifyPayment(ctx context.Context, req VerificationRequest) (PaymentRecord, error)
}

type service struct {
	paymentSource PaymentSource
	paymentCache  PaymentCache

	candidateLimit int
	cacheTTL       time.Duration
}

var _ Service = (*service)(nil)

type config struct {
	paymentCache   PaymentCache
	candidateLimit int
	cacheTTL       time.Duration
}

type Option func(*config)

// New creates a payment verification service backed by the given provider.
func New(ps PaymentSource, opts ...Option) *service {
	cfg := config{
		paymentCache:   nopPaymentCache{},
		candidateLimit: defaultCandidateLimit,
		cacheTTL:       defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		paymentSource:  ps,
		paymentCache:   cfg.paymentCache,
		candidateLimit: cfg.candidateLimit,
		cacheTTL:       cfg.cacheTTL,
	}
}

// WithPaymentCache adds a read-through cache in front of the provider.
func WithPaymentCache(pc PaymentCache) Option {
	return func(c *config) {
		c.paymentCache = pc
	}
}

// WithCandidateLimit sets how many recent payments form the candidate set.
// Default: 20.
func WithCandidateLimit(n int) Option {
	return func(c *config) {
		c.candidateLimit = n
	}
}

// WithCacheTTL sets how long a fetched candidate set stays cached.
// Default: one minute.
func WithCacheTTL(d time.Duration) Option {
	return func(c *config) {
		c.cacheTTL = d
	}
}

// VerifyPayment implements Service.
func (s *service) VerifyPayment(ctx context.Context, req VerificationRequest) (PaymentRecord, error) {
	if err := validator.Validate(req); err != nil {
		return PaymentRecord{}, err
	}

	candidates, err := s.recentPayments(ctx)
	if err != nil {
		return PaymentRecord{}, err
	}

	return matchPayment(req, candidates)
}

// recentPayments returns the candidate set, preferring the cache and
// falling back to the provider. Cache failures other than a miss are
// logged and treated as a miss; a failed write-back is logged and ignored.
func (s *service) recentPayments(ctx context.Context) ([]PaymentRecord, error) {
	cached, err := s.paymentCache.GetRecentPayments(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn(ctx, "recent payments cache read failed", "error", err)
	}

	payments, err := s.paymentSource.ListRecentPayments(ctx, s.candidateLimit)
	if err != nil {
		return nil, err
	}

	if err := s.paymentCache.StoreRecentPayments(ctx, payments, s.cacheTTL); err != nil {
		logger.Warn(ctx, "recent payments cache write failed", "error", err)
	}

	return payments, nil
}

// matchPayment applies the amount/time filter and, when needed, identity
// disambiguation, preserving the candidate list's original order.
func matchPayment(req VerificationRequest, candidates []PaymentRecord) (PaymentRecord, error) {
	survivors := make([]PaymentRecord, 0, len(candidates))
	for _, payment := range candidates {
		if req.WindowStart != 0 && payment.Created < req.WindowStart {
			continue
		}
		if req.WindowEnd != 0 && payment.Created > req.WindowEnd {
			continue
		}
		if payment.AmountCents != req.AmountCents {
			continue
		}

		survivors = append(survivors, payment)
	}

	switch len(survivors) {
	case 0:
		return PaymentRecord{}, ErrPaymentNotFound
	case 1:
		// A single amount/window survivor is accepted without comparing
		// identity fields.
		return survivors[0], nil
	}

	for _, payment := range survivors {
		if payment.Identity == req.Identity {
			return payment, nil
		}
	}

	return PaymentRecord{}, ErrPaymentNotFound
}
