package txpoll

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
)

// ChainClient fetches and normalizes the recent transaction history of a
// single address on one chain.
//
// Implementations live under internal/infra/blockchain. Results are
// newest-first, deduplicated by hash within the call, and capped at limit.
type ChainClient interface {
	FetchAddressTransactions(ctx context.Context, address string, limit int) ([]ledger.Transaction, error)
}

// UnsupportedChainClient is the adapter for chains the system recognizes
// but cannot poll (XRP). It reports an empty history rather than an error:
// "no implementation" is not "upstream down".
type UnsupportedChainClient struct{}

var _ ChainClient = UnsupportedChainClient{}

func (UnsupportedChainClient) FetchAddressTransactions(ctx context.Context, address string, limit int) ([]ledger.Transaction, error) {
	return nil, nil
}
