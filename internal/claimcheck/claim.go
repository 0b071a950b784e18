package claimcheck

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/validator"
)

// Claim is a user-submitted assertion that a payment was sent on-chain.
// It is ephemeral: claims are verified against the ledger, never persisted.
type Claim struct {
	Blockchain      string `validate:"required"` // long name or symbol, case-insensitive
	TransactionHash string `validate:"required"`
	SenderAddress   string `validate:"required"`
}

// TransactionReader is the slice of the ledger the matcher reads:
// exact-hash, direction=IN lookups within one chain partition.
type TransactionReader interface {
	FindIncomingTransaction(ctx context.Context, chain ledger.Chain, hash string) (ledger.Transaction, error)
}

// PollTrigger requests a fresh reconciliation pass before a claim is
// evaluated, so a just-confirmed transaction has a chance to be in the
// ledger already.
type PollTrigger interface {
	Poll(ctx context.Context) error
}

// buildClaim validates the raw claim fields before any lookup happens.
func buildClaim(blockchain, txHash, senderAddress string) (Claim, error) {
	claim := Claim{
		Blockchain:      blockchain,
		TransactionHash: txHash,
		SenderAddress:   senderAddress,
	}

	return claim, validator.Validate(claim)
}
