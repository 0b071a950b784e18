package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/gabapcia/chainledger/internal/pkg/validator"
)

var (
	// ErrTransactionNotFound indicates that no ledger row matched a lookup.
	// It is a normal negative result, not an infrastructure failure.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateTransaction is returned by TransactionStorage when an
	// insert hits a row that already exists for the same (chain, hash).
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

// Direction classifies a transaction relative to the monitored address.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"

	// DirectionUnknown is used when the net amount for the monitored
	// address is zero (e.g. self-transfers).
	DirectionUnknown Direction = ""
)

// Transaction is the normalized, chain-agnostic shape every adapter
// produces and the ledger persists.
//
// Amount is a human-readable fixed-point decimal string with trailing
// zeros stripped, except for account-model chains where the adapter passes
// the native smallest unit through unchanged. From and To are best-effort
// counterparty guesses and may be empty.
type Transaction struct {
	Hash      string `validate:"required"` // unique within a chain partition
	Time      time.Time
	Direction Direction
	Amount    string
	From      string
	To        string
}

// TransactionStorage is the persistence contract for chain partitions.
//
// Rows are immutable: implementations only ever insert, never update.
type TransactionStorage interface {
	// HasTransaction reports whether a row with the given hash already
	// exists in the chain's partition.
	HasTransaction(ctx context.Context, chain Chain, hash string) (bool, error)

	// InsertTransaction appends a normalized transaction to the chain's
	// partition. It returns ErrDuplicateTransaction if a row with the same
	// hash landed first.
	InsertTransaction(ctx context.Context, chain Chain, tx Transaction) error

	// FindIncomingTransaction returns the partition row with the given
	// hash, restricted to direction=IN. Rows that exist with any other
	// direction are reported as ErrTransactionNotFound.
	FindIncomingTransaction(ctx context.Context, chain Chain, hash string) (Transaction, error)
}

// buildTransaction validates a normalized transaction before persistence.
func buildTransaction(tx Transaction) (Transaction, error) {
	return tx, validator.Validate(tx)
}
