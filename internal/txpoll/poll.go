package txpoll

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
)

// Poll walks every registered (chain, address) pair sequentially. Each pair
// is its own failure domain: a fetch or persistence error is logged and the
// pass moves on to the next pair.
func (s *service) Poll(ctx context.Context) error {
	for _, pair := range s.registry.Pairs() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.pollPair(ctx, pair); err != nil {
			logger.Error(ctx, "wallet poll failed",
				"chain", pair.Chain.String(),
				"wallet.address", pair.Address,
				"error", err,
			)
		}
	}

	return nil
}

// pollPair fetches one address's recent history and appends it to the
// ledger. The fetch is optionally retried; persistence is not, since the
// next scheduled pass covers it.
func (s *service) pollPair(ctx context.Context, pair WalletPair) error {
	client, ok := s.clients[pair.Chain]
	if !ok {
		return ledger.ErrUnsupportedChain
	}

	txs, err := s.fetchAddressTransactions(ctx, client, pair.Address)
	if err != nil {
		return err
	}

	for _, tx := range txs {
		inserted, err := s.recorder.RecordTransaction(ctx, pair.Chain, tx)
		if err != nil {
			return err
		}

		if inserted && tx.Direction == ledger.DirectionIn {
			s.notifyIncoming(ctx, pair, tx)
		}
	}

	return nil
}

func (s *service) fetchAddressTransactions(ctx context.Context, client ChainClient, address string) ([]ledger.Transaction, error) {
	if s.retry == nil {
		return client.FetchAddressTransactions(ctx, address, s.fetchLimit)
	}

	var txs []ledger.Transaction
	err := s.retry.Execute(ctx, func() error {
		var fetchErr error
		txs, fetchErr = client.FetchAddressTransactions(ctx, address, s.fetchLimit)
		return fetchErr
	})

	return txs, err
}

// notifyIncoming forwards a freshly recorded incoming transaction to the
// configured notifier. Delivery failures never fail the poll pass.
func (s *service) notifyIncoming(ctx context.Context, pair WalletPair, tx ledger.Transaction) {
	if err := s.notifier.NotifyIncomingTransaction(ctx, pair.Chain, pair.Address, tx); err != nil {
		logger.Error(ctx, "incoming transaction notification failed",
			"chain", pair.Chain.String(),
			"wallet.address", pair.Address,
			"transaction.hash", tx.Hash,
			"error", err,
		)
	}
}
