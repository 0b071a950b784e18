package esplora

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"
	"github.com/gabapcia/chainledger/internal/pkg/types"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrUnexpectedStatus indicates the explorer answered with a non-success
// HTTP status.
var ErrUnexpectedStatus = errors.New("esplora: unexpected response status")

type (
	// prevoutResponse describes the output an input spends.
	prevoutResponse struct {
		ScriptpubkeyAddress string `json:"scriptpubkey_address"`
		Value               int64  `json:"value"`
	}

	// vinResponse is one transaction input.
	vinResponse struct {
		Prevout *prevoutResponse `json:"prevout"`
	}

	// voutResponse is one transaction output.
	voutResponse struct {
		ScriptpubkeyAddress string `json:"scriptpubkey_address"`
		Value               int64  `json:"value"`
	}

	// statusResponse carries confirmation metadata.
	statusResponse struct {
		Confirmed bool  `json:"confirmed"`
		BlockTime int64 `json:"block_time"`
	}

	// transactionResponse is one row of the address-transactions endpoint.
	transactionResponse struct {
		TxID   string         `json:"txid"`
		Vin    []vinResponse  `json:"vin"`
		Vout   []voutResponse `json:"vout"`
		Status statusResponse `json:"status"`
	}
)

// netValue sums the subunits this address spent (inputs whose prevout pays
// the address) and received (outputs paying the address), returning
// received minus spent. Sums use big.Int: aggregate values are not bounded
// by int64.
func (t transactionResponse) netValue(address string) *big.Int {
	var (
		spent    = new(big.Int)
		received = new(big.Int)
	)

	for _, vin := range t.Vin {
		if vin.Prevout != nil && strings.EqualFold(vin.Prevout.ScriptpubkeyAddress, address) {
			spent.Add(spent, big.NewInt(vin.Prevout.Value))
		}
	}
	for _, vout := range t.Vout {
		if strings.EqualFold(vout.ScriptpubkeyAddress, address) {
			received.Add(received, big.NewInt(vout.Value))
		}
	}

	return received.Sub(received, spent)
}

// counterparties guesses the from/to pair for the queried address. For an
// incoming payment the "from" is any other input's address; for an
// outgoing one the "to" is any other output's address.
func (t transactionResponse) counterparties(address string, direction ledger.Direction) (from, to string) {
	switch direction {
	case ledger.DirectionIn:
		for _, vin := range t.Vin {
			if vin.Prevout != nil && !strings.EqualFold(vin.Prevout.ScriptpubkeyAddress, address) {
				return vin.Prevout.ScriptpubkeyAddress, address
			}
		}
		return "", address
	case ledger.DirectionOut:
		for _, vout := range t.Vout {
			if !strings.EqualFold(vout.ScriptpubkeyAddress, address) {
				return address, vout.ScriptpubkeyAddress
			}
		}
		return address, ""
	default:
		return "", ""
	}
}

// toLedgerTransaction normalizes the raw explorer row for the queried
// address.
func (t transactionResponse) toLedgerTransaction(address string) ledger.Transaction {
	net := t.netValue(address)

	direction := ledger.DirectionUnknown
	switch net.Sign() {
	case 1:
		direction = ledger.DirectionIn
	case -1:
		direction = ledger.DirectionOut
	}

	var blockTime time.Time
	if t.Status.BlockTime > 0 {
		blockTime = time.Unix(t.Status.BlockTime, 0).UTC()
	}

	from, to := t.counterparties(address, direction)

	return ledger.Transaction{
		Hash:      t.TxID,
		Time:      blockTime,
		Direction: direction,
		Amount:    ledger.FormatSubunits(net, decimals),
		From:      from,
		To:        to,
	}
}

// fetchPage retrieves one page of the address history. An empty lastSeenTx
// asks for the newest page; otherwise the cursor-paged chain endpoint is
// used, seeded with the previous page's last transaction id.
func (c *client) fetchPage(ctx context.Context, address, lastSeenTx string) ([]transactionResponse, error) {
	url := fmt.Sprintf("%s/address/%s/txs", c.baseURL, address)
	if lastSeenTx != "" {
		url = fmt.Sprintf("%s/address/%s/txs/chain/%s", c.baseURL, address, lastSeenTx)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	var page []transactionResponse
	return page, json.NewDecoder(res.Body).Decode(&page)
}

// FetchAddressTransactions implements txpoll.ChainClient.
//
// It pages newest-first through the explorer's address history, stopping
// when a page is empty, when a page contributes no transaction hash not
// already seen, or when limit rows have been collected.
func (c *client) FetchAddressTransactions(ctx context.Context, address string, limit int) ([]ledger.Transaction, error) {
	var (
		txs        = make([]ledger.Transaction, 0, limit)
		seen       = types.NewSet[string]()
		lastSeenTx string
	)

	for len(txs) < limit {
		page, err := c.fetchPage(ctx, address, lastSeenTx)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}

		newHashes := false
		for _, raw := range page {
			if _, ok := seen[raw.TxID]; ok {
				continue
			}
			seen.Add(raw.TxID)
			newHashes = true

			txs = append(txs, raw.toLedgerTransaction(address))
			if len(txs) >= limit {
				break
			}
		}

		// A page of nothing but already-seen hashes means the cursor is
		// not advancing; stop rather than loop.
		if !newHashes {
			break
		}

		lastSeenTx = page[len(page)-1].TxID
	}

	return txs, nil
}
