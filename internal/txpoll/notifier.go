package txpoll

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
)

// TransactionNotifier receives every newly recorded incoming transaction.
//
// The scheduler awaits the call and logs failures instead of failing the
// poll pass: notification is a side effect, not part of the ledger write.
type TransactionNotifier interface {
	NotifyIncomingTransaction(ctx context.Context, chain ledger.Chain, wallet string, tx ledger.Transaction) error
}

// nopTransactionNotifier is the default notifier when none is configured.
type nopTransactionNotifier struct{}

var _ TransactionNotifier = nopTransactionNotifier{}

func (nopTransactionNotifier) NotifyIncomingTransaction(ctx context.Context, chain ledger.Chain, wallet string, tx ledger.Transaction) error {
	return nil
}
