package etherscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrProviderRejected indicates Etherscan answered with a non-success
// status that is not the benign "no transactions found" case.
var ErrProviderRejected = errors.New("etherscan: provider rejected request")

// noTransactionsMessage is the status message Etherscan uses for an empty
// result, which is a valid empty history rather than an error.
const noTransactionsMessage = "No transactions found"

type (
	// transactionResult is one entry of the account txlist action.
	transactionResult struct {
		TimeStamp string `json:"timeStamp"`
		Hash      string `json:"hash"`
		From      string `json:"from"`
		To        string `json:"to"`
		Value     string `json:"value"`
	}

	// listResponse is the Etherscan V2 response envelope. Result is kept
	// raw because error responses carry a string where successes carry an
	// array.
	listResponse struct {
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
	}
)

// toLedgerTransaction normalizes one Etherscan row for the queried address.
//
// The amount is passed through in wei: unit conversion for display is the
// caller's concern on account-model chains.
func (t transactionResult) toLedgerTransaction(address string) ledger.Transaction {
	direction := ledger.DirectionUnknown
	switch {
	case strings.EqualFold(t.To, address) && !strings.EqualFold(t.From, address):
		direction = ledger.DirectionIn
	case strings.EqualFold(t.From, address) && !strings.EqualFold(t.To, address):
		direction = ledger.DirectionOut
	}

	var txTime time.Time
	if sec, err := strconv.ParseInt(t.TimeStamp, 10, 64); err == nil && sec > 0 {
		txTime = time.Unix(sec, 0).UTC()
	}

	return ledger.Transaction{
		Hash:      t.Hash,
		Time:      txTime,
		Direction: direction,
		Amount:    t.Value,
		From:      t.From,
		To:        t.To,
	}
}

// listURL builds the account txlist query for the given address and limit,
// newest-first.
func (c *client) listURL(address string, limit int) string {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("chainid", strconv.Itoa(c.chainID))
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", "0")
	params.Set("endblock", "99999999")
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(min(100, limit)))
	params.Set("sort", "desc")

	return c.baseURL + "?" + params.Encode()
}

// FetchAddressTransactions implements txpoll.ChainClient.
//
// A single page of up to limit transactions is fetched, already sorted
// newest-first by the remote service. Any non-success status other than
// the explicit empty-result message fails loudly.
func (c *client) FetchAddressTransactions(ctx context.Context, address string, limit int) ([]ledger.Transaction, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.listURL(address, limit), nil)
	if err != nil {
		return nil, err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data listResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, err
	}

	if data.Status != "1" {
		if strings.Contains(data.Message, noTransactionsMessage) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s - %s", ErrProviderRejected, data.Message, string(data.Result))
	}

	var results []transactionResult
	if err := json.Unmarshal(data.Result, &results); err != nil {
		return nil, err
	}
	if len(results) > limit {
		results = results[:limit]
	}

	var (
		txs  = make([]ledger.Transaction, 0, len(results))
		seen = make(map[string]struct{}, len(results))
	)
	for _, result := range results {
		if _, ok := seen[result.Hash]; ok {
			continue
		}
		seen[result.Hash] = struct{}{}

		txs = append(txs, result.toLedgerTransaction(address))
	}

	return txs, nil
}
