package ledger

import (
	"context"
	"errors"
)

// RecordTransaction appends a transaction to the chain's partition after a
// negative existence check by hash.
//
// The check and the insert are not atomic: two pollers racing on the same
// hash can both pass the check. The storage layer's uniqueness constraint
// settles that race, and the loser's ErrDuplicateTransaction is mapped to
// inserted=false rather than surfaced as a failure.
func (s *service) RecordTransaction(ctx context.Context, chain Chain, tx Transaction) (bool, error) {
	tx, err := buildTransaction(tx)
	if err != nil {
		return false, err
	}

	exists, err := s.transactionStorage.HasTransaction(ctx, chain, tx.Hash)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := s.transactionStorage.InsertTransaction(ctx, chain, tx); err != nil {
		if errors.Is(err, ErrDuplicateTransaction) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// FindIncomingTransaction resolves an exact-hash, direction=IN lookup
// against the chain's partition.
func (s *service) FindIncomingTransaction(ctx context.Context, chain Chain, hash string) (Transaction, error) {
	return s.transactionStorage.FindIncomingTransaction(ctx, chain, hash)
}
