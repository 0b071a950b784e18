package solana

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
)

type (
	// signatureResult is one entry of getSignaturesForAddress.
	signatureResult struct {
		Signature string `json:"signature"`
	}

	// accountKey tolerates both encodings of message.accountKeys: plain
	// base58 strings and jsonParsed objects carrying a pubkey field.
	accountKey struct {
		Pubkey string
	}

	// transactionMeta carries the pre/post balances, indexed in lockstep
	// with the account keys.
	transactionMeta struct {
		PreBalances  []int64 `json:"preBalances"`
		PostBalances []int64 `json:"postBalances"`
	}

	// transactionResult is the getTransaction response body.
	transactionResult struct {
		BlockTime int64           `json:"blockTime"`
		Meta      transactionMeta `json:"meta"`
		Transaction struct {
			Message struct {
				AccountKeys []accountKey `json:"accountKeys"`
			} `json:"message"`
		} `json:"transaction"`
	}
)

// UnmarshalJSON accepts either "base58" or {"pubkey": "base58", ...}.
func (k *accountKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Pubkey = s
		return nil
	}

	var obj struct {
		Pubkey string `json:"pubkey"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	k.Pubkey = obj.Pubkey
	return nil
}

// toLedgerTransaction derives direction and amount from the balance delta
// of the queried address's account entry. The counterparty is the first
// other account key in the transaction, which is a best-effort guess.
func (t transactionResult) toLedgerTransaction(address, signature string) ledger.Transaction {
	net := new(big.Int)

	keys := t.Transaction.Message.AccountKeys
	for i, key := range keys {
		if !strings.EqualFold(key.Pubkey, address) {
			continue
		}

		var pre, post int64
		if i < len(t.Meta.PreBalances) {
			pre = t.Meta.PreBalances[i]
		}
		if i < len(t.Meta.PostBalances) {
			post = t.Meta.PostBalances[i]
		}

		net.Sub(big.NewInt(post), big.NewInt(pre))
		break
	}

	direction := ledger.DirectionUnknown
	switch net.Sign() {
	case 1:
		direction = ledger.DirectionIn
	case -1:
		direction = ledger.DirectionOut
	}

	var counterparty string
	for _, key := range keys {
		if !strings.EqualFold(key.Pubkey, address) {
			counterparty = key.Pubkey
			break
		}
	}

	var from, to string
	switch direction {
	case ledger.DirectionIn:
		from, to = counterparty, address
	case ledger.DirectionOut:
		from, to = address, counterparty
	}

	var blockTime time.Time
	if t.BlockTime > 0 {
		blockTime = time.Unix(t.BlockTime, 0).UTC()
	}

	return ledger.Transaction{
		Hash:      signature,
		Time:      blockTime,
		Direction: direction,
		Amount:    ledger.FormatSubunits(net, decimals),
		From:      from,
		To:        to,
	}
}

// getSignaturesForAddress lists the most recent transaction signatures
// touching the address, newest-first, capped server-side at 100.
func (c *client) getSignaturesForAddress(ctx context.Context, address string, limit int) ([]signatureResult, error) {
	data, err := c.conn.Fetch(ctx, "getSignaturesForAddress", address, map[string]any{
		"limit": min(maxSignaturesPerCall, limit),
	})
	if err != nil {
		return nil, err
	}

	var signatures []signatureResult
	return signatures, json.Unmarshal(data, &signatures)
}

// getTransaction resolves one signature to its parsed transaction. A nil
// result means the node no longer has (or never had) the transaction.
func (c *client) getTransaction(ctx context.Context, signature string) (*transactionResult, error) {
	data, err := c.conn.Fetch(ctx, "getTransaction", signature, map[string]any{
		"encoding":                       "jsonParsed",
		"maxSupportedTransactionVersion": 0,
	})
	if err != nil {
		return nil, err
	}

	var tx *transactionResult
	return tx, json.Unmarshal(data, &tx)
}

// FetchAddressTransactions implements txpoll.ChainClient.
//
// Signatures are resolved one by one; a signature whose transaction cannot
// be fetched or parsed is skipped rather than failing the whole call.
func (c *client) FetchAddressTransactions(ctx context.Context, address string, limit int) ([]ledger.Transaction, error) {
	signatures, err := c.getSignaturesForAddress(ctx, address, limit)
	if err != nil {
		return nil, err
	}

	var (
		txs  = make([]ledger.Transaction, 0, len(signatures))
		seen = make(map[string]struct{}, len(signatures))
	)
	for _, sig := range signatures {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(txs) >= limit {
			break
		}
		if _, ok := seen[sig.Signature]; ok {
			continue
		}
		seen[sig.Signature] = struct{}{}

		tx, err := c.getTransaction(ctx, sig.Signature)
		if err != nil || tx == nil {
			continue
		}

		txs = append(txs, tx.toLedgerTransaction(address, sig.Signature))
	}

	return txs, nil
}
