// Package txpoll schedules the reconciliation loop: on a fixed period (and
// on demand) it walks the monitored wallet registry, fetches each address's
// recent history through the matching chain adapter, and appends what it
// finds to the ledger.
package txpoll

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/resilience/retry"
)

// ErrServiceAlreadyStarted is returned if Start is called more than once.
var ErrServiceAlreadyStarted = errors.New("service already started")

const (
	defaultPollInterval = 30 * time.Minute
	defaultFetchLimit   = 100

	// triggerChannelBufferSize bounds pending on-demand poll requests.
	// A single buffered slot coalesces bursts into one extra pass.
	triggerChannelBufferSize = 1
)

// TransactionRecorder is the slice of the ledger service the scheduler
// needs: append-if-absent persistence of normalized transactions.
type TransactionRecorder interface {
	RecordTransaction(ctx context.Context, chain ledger.Chain, tx ledger.Transaction) (bool, error)
}

// Service drives the periodic and on-demand polling of all registered
// wallet addresses.
type Service interface {
	// Start launches the background polling loop. It returns
	// ErrServiceAlreadyStarted when called twice without a Close between.
	Start(ctx context.Context) error

	// Poll runs one synchronous pass over every registered (chain,
	// address) pair. Failures are isolated per pair and logged; Poll only
	// returns an error when the context is canceled. Concurrent passes
	// are allowed: persistence is insert-after-check, so overlap degrades
	// to duplicate work, not duplicate rows.
	Poll(ctx context.Context) error

	// TriggerPoll asks the background loop for an immediate pass without
	// waiting for it. It is a no-op if a trigger is already pending or
	// the loop is not running.
	TriggerPoll()

	// Close stops the background loop. Safe to call without Start.
	Close()
}

type closeFunc func()

type service struct {
	mu        sync.Mutex
	isStarted bool
	closeFunc closeFunc

	triggerCh chan struct{}

	registry WalletRegistry
	clients  map[ledger.Chain]ChainClient
	recorder TransactionRecorder

	pollInterval time.Duration
	fetchLimit   int
	retry        retry.Retry
	notifier     TransactionNotifier
}

var _ Service = (*service)(nil)

type config struct {
	pollInterval time.Duration
	fetchLimit   int
	retry        retry.Retry
	notifier     TransactionNotifier
}

type Option func(*config)

// New creates the poll scheduler for the given wallet registry, chain
// adapters, and ledger recorder.
func New(registry WalletRegistry, clients map[ledger.Chain]ChainClient, recorder TransactionRecorder, opts ...Option) *service {
	cfg := config{
		pollInterval: defaultPollInterval,
		fetchLimit:   defaultFetchLimit,
		retry:        nil,
		notifier:     nopTransactionNotifier{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		triggerCh:    make(chan struct{}, triggerChannelBufferSize),
		registry:     registry,
		clients:      clients,
		recorder:     recorder,
		pollInterval: cfg.pollInterval,
		fetchLimit:   cfg.fetchLimit,
		retry:        cfg.retry,
		notifier:     cfg.notifier,
	}
}

// WithPollInterval overrides the fixed period between scheduled passes.
// Default: 30 minutes.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithFetchLimit caps how many transactions each adapter call may return.
// Default: 100.
func WithFetchLimit(n int) Option {
	return func(c *config) {
		c.fetchLimit = n
	}
}

// WithRetry wraps each per-pair fetch in the given retry policy. Persisting
// is safe to retry, so re-fetching after a transient upstream failure is too.
func WithRetry(r retry.Retry) Option {
	return func(c *config) {
		c.retry = r
	}
}

// WithTransactionNotifier registers a sink for newly recorded incoming
// transactions.
func WithTransactionNotifier(n TransactionNotifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// Start launches the polling loop: one pass every pollInterval, plus one
// pass per TriggerPoll request. Scheduled and triggered passes run on the
// same goroutine; only direct Poll calls can overlap them.
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isStarted {
		return ErrServiceAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	s.closeFunc = closeFunc(cancel)

	go func() {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			case <-s.triggerCh:
			}

			_ = s.Poll(ctx)
		}
	}()

	s.isStarted = true
	return nil
}

// TriggerPoll requests an immediate pass from the background loop.
func (s *service) TriggerPoll() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

// Close cancels the background loop.
func (s *service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closeFunc != nil {
		s.closeFunc()
	}
	s.closeFunc = nil
	s.isStarted = false
}
