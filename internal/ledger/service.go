// Package ledger holds the per-chain transaction log: an insert-only record
// of every normalized transaction observed for the monitored wallets, with
// dedup-by-hash on write and direction-aware lookups for claim checks.
package ledger

import "context"

// Service exposes the ledger's two operations: appending observed
// transactions and resolving incoming-payment lookups.
type Service interface {
	// RecordTransaction persists a normalized transaction in the chain's
	// partition, unless a row with the same hash is already there.
	//
	// It reports inserted=false both when the existence check finds the
	// hash and when a concurrent writer wins the insert race. Rows are
	// never updated.
	RecordTransaction(ctx context.Context, chain Chain, tx Transaction) (inserted bool, err error)

	// FindIncomingTransaction looks up a partition row by exact hash,
	// restricted to direction=IN. A row recorded with direction OUT or
	// unknown does not satisfy a received-payment claim and is reported
	// as ErrTransactionNotFound.
	FindIncomingTransaction(ctx context.Context, chain Chain, hash string) (Transaction, error)
}

// service is the concrete Service implementation backed by a
// TransactionStorage.
type service struct {
	transactionStorage TransactionStorage
}

var _ Service = (*service)(nil)

// New creates a ledger service using the provided storage backend.
func New(ts TransactionStorage) *service {
	return &service{
		transactionStorage: ts,
	}
}
