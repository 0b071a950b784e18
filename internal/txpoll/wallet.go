package txpoll

import (
	"slices"

	"github.com/gabapcia/chainledger/internal/ledger"
)

// WalletPair is one (chain, address) entry of the monitored wallet set.
type WalletPair struct {
	Chain   ledger.Chain
	Address string
}

// WalletRegistry is the immutable chain→address mapping the scheduler
// iterates on every pass. It is built once at startup and never mutated.
type WalletRegistry struct {
	pairs []WalletPair
}

// NewWalletRegistry copies the provided mapping into a registry. Entries
// with an empty address are dropped. Pairs are kept in a stable order so
// poll passes are deterministic.
func NewWalletRegistry(addresses map[ledger.Chain]string) WalletRegistry {
	pairs := make([]WalletPair, 0, len(addresses))
	for chain, address := range addresses {
		if address == "" {
			continue
		}
		pairs = append(pairs, WalletPair{Chain: chain, Address: address})
	}

	slices.SortFunc(pairs, func(a, b WalletPair) int {
		switch {
		case a.Chain < b.Chain:
			return -1
		case a.Chain > b.Chain:
			return 1
		default:
			return 0
		}
	})

	return WalletRegistry{pairs: pairs}
}

// Pairs returns the registered (chain, address) pairs in iteration order.
func (r WalletRegistry) Pairs() []WalletPair {
	return slices.Clone(r.pairs)
}
