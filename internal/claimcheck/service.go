// Package claimcheck verifies user-submitted payment claims against the
// on-chain ledger: resolve the named chain to its partition, refresh the
// ledger, then look the claimed hash up as a received payment.
package claimcheck

import (
	"context"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/logger"
)

// Service verifies on-chain payment claims.
type Service interface {
	// VerifyClaim checks whether the claimed transaction exists in the
	// named chain's ledger partition as an incoming payment.
	//
	// The chain name is accepted in long or symbol form, case-insensitive;
	// an unrecognized name, or a recognized chain with no adapter behind
	// it, fails with ledger.ErrUnsupportedChain (a client input error). A
	// missing row, or one whose direction is not IN, fails with
	// ledger.ErrTransactionNotFound.
	//
	// Before the lookup, one synchronous poll pass is attempted to reduce
	// ledger staleness; its failure is logged, not surfaced, since the
	// ledger may already hold the row.
	VerifyClaim(ctx context.Context, blockchain, txHash, senderAddress string) (ledger.Transaction, error)
}

type service struct {
	transactionReader TransactionReader
	pollTrigger       PollTrigger
}

var _ Service = (*service)(nil)

// New creates a claim verification service reading from the given ledger
// view and refreshing it through the given poll trigger.
func New(tr TransactionReader, pt PollTrigger) *service {
	return &service{
		transactionReader: tr,
		pollTrigger:       pt,
	}
}

// VerifyClaim implements Service.
func (s *service) VerifyClaim(ctx context.Context, blockchain, txHash, senderAddress string) (ledger.Transaction, error) {
	claim, err := buildClaim(blockchain, txHash, senderAddress)
	if err != nil {
		return ledger.Transaction{}, err
	}

	chain, err := ledger.ParseChain(claim.Blockchain)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if !chain.Supported() {
		// XRP parses to a partition but has no adapter filling it; a
		// claim against it can never verify, so reject it up front.
		return ledger.Transaction{}, ledger.ErrUnsupportedChain
	}

	if err := s.pollTrigger.Poll(ctx); err != nil {
		logger.Warn(ctx, "pre-claim poll failed, evaluating claim against current ledger",
			"chain", chain.String(),
			"transaction.hash", claim.TransactionHash,
			"error", err,
		)
	}

	return s.transactionReader.FindIncomingTransaction(ctx, chain, claim.TransactionHash)
}
