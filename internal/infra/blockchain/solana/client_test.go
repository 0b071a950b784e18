package solana

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gabapcia/chainledger/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jsonrpcClientStub answers Fetch calls from canned per-method responses.
type jsonrpcClientStub struct {
	signatures    json.RawMessage
	signaturesErr error

	transactions   map[string]json.RawMessage
	transactionErr map[string]error

	calls []string
}

func (s *jsonrpcClientStub) Fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	s.calls = append(s.calls, method)

	switch method {
	case "getSignaturesForAddress":
		return s.signatures, s.signaturesErr
	case "getTransaction":
		signature := params[0].(string)
		if err := s.transactionErr[signature]; err != nil {
			return nil, err
		}
		return s.transactions[signature], nil
	default:
		return nil, errors.New("unexpected method: " + method)
	}
}

func signaturesJSON(t *testing.T, signatures ...string) json.RawMessage {
	t.Helper()

	results := make([]signatureResult, 0, len(signatures))
	for _, sig := range signatures {
		results = append(results, signatureResult{Signature: sig})
	}

	data, err := json.Marshal(results)
	require.NoError(t, err)
	return data
}

func TestClient_FetchAddressTransactions(t *testing.T) {
	const address = "WaLLetPubkey1111111111111111111111111111111"

	t.Run("should derive direction and amount from the balance delta", func(t *testing.T) {
		stub := &jsonrpcClientStub{
			signatures: signaturesJSON(t, "sig-in"),
			transactions: map[string]json.RawMessage{
				"sig-in": json.RawMessage(`{
					"blockTime": 1700000000,
					"meta": {
						"preBalances": [5000000000, 1000000000],
						"postBalances": [4499995000, 1500000000]
					},
					"transaction": {
						"message": {
							"accountKeys": [
								{"pubkey": "SenderPubkey111111111111111111111111111111"},
								{"pubkey": "` + address + `"}
							]
						}
					}
				}`),
			},
		}

		txs, err := NewClient(stub).FetchAddressTransactions(context.Background(), address, 100)
		require.NoError(t, err)
		require.Len(t, txs, 1)

		assert.Equal(t, ledger.Transaction{
			Hash:      "sig-in",
			Time:      time.Unix(1_700_000_000, 0).UTC(),
			Direction: ledger.DirectionIn,
			Amount:    "0.5",
			From:      "SenderPubkey111111111111111111111111111111",
			To:        address,
		}, txs[0])
	})

	t.Run("should classify a balance decrease as outgoing", func(t *testing.T) {
		stub := &jsonrpcClientStub{
			signatures: signaturesJSON(t, "sig-out"),
			transactions: map[string]json.RawMessage{
				"sig-out": json.RawMessage(`{
					"meta": {
						"preBalances": [2000000000, 0],
						"postBalances": [999995000, 1000000000]
					},
					"transaction": {
						"message": {
							"accountKeys": [
								"` + address + `",
								"RecipientPubkey11111111111111111111111111"
							]
						}
					}
				}`),
			},
		}

		txs, err := NewClient(stub).FetchAddressTransactions(context.Background(), address, 100)
		require.NoError(t, err)
		require.Len(t, txs, 1)

		assert.Equal(t, ledger.DirectionOut, txs[0].Direction)
		assert.Equal(t, "1.000005", txs[0].Amount)
		assert.Equal(t, address, txs[0].From)
		assert.Equal(t, "RecipientPubkey11111111111111111111111111", txs[0].To)
	})

	t.Run("should skip signatures whose transaction cannot be resolved", func(t *testing.T) {
		stub := &jsonrpcClientStub{
			signatures: signaturesJSON(t, "sig-null", "sig-err", "sig-ok"),
			transactions: map[string]json.RawMessage{
				"sig-null": json.RawMessage(`null`),
				"sig-ok": json.RawMessage(`{
					"meta": {"preBalances": [0], "postBalances": [1000000000]},
					"transaction": {"message": {"accountKeys": ["` + address + `"]}}
				}`),
			},
			transactionErr: map[string]error{
				"sig-err": errors.New("node is behind"),
			},
		}

		txs, err := NewClient(stub).FetchAddressTransactions(context.Background(), address, 100)
		require.NoError(t, err)

		require.Len(t, txs, 1)
		assert.Equal(t, "sig-ok", txs[0].Hash)
	})

	t.Run("should deduplicate repeated signatures", func(t *testing.T) {
		stub := &jsonrpcClientStub{
			signatures: signaturesJSON(t, "sig-dup", "sig-dup"),
			transactions: map[string]json.RawMessage{
				"sig-dup": json.RawMessage(`{
					"meta": {"preBalances": [0], "postBalances": [1]},
					"transaction": {"message": {"accountKeys": ["` + address + `"]}}
				}`),
			},
		}

		txs, err := NewClient(stub).FetchAddressTransactions(context.Background(), address, 100)
		require.NoError(t, err)
		assert.Len(t, txs, 1)
	})

	t.Run("should surface signature listing failures", func(t *testing.T) {
		stub := &jsonrpcClientStub{
			signaturesErr: errors.New("rpc unavailable"),
		}

		_, err := NewClient(stub).FetchAddressTransactions(context.Background(), address, 100)
		assert.Error(t, err)
	})

	t.Run("should stop once the limit is reached", func(t *testing.T) {
		tx := json.RawMessage(`{
			"meta": {"preBalances": [0], "postBalances": [1]},
			"transaction": {"message": {"accountKeys": ["` + address + `"]}}
		}`)

		stub := &jsonrpcClientStub{
			signatures: signaturesJSON(t, "sig-1", "sig-2", "sig-3"),
			transactions: map[string]json.RawMessage{
				"sig-1": tx, "sig-2": tx, "sig-3": tx,
			},
		}

		txs, err := NewClient(stub).FetchAddressTransactions(context.Background(), address, 2)
		require.NoError(t, err)

		assert.Len(t, txs, 2)
		assert.Equal(t, []string{"getSignaturesForAddress", "getTransaction", "getTransaction"}, stub.calls)
	})

	t.Run("should abort on a canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stub := &jsonrpcClientStub{
			signatures: signaturesJSON(t, "sig-1"),
		}

		_, err := NewClient(stub).FetchAddressTransactions(ctx, address, 100)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
