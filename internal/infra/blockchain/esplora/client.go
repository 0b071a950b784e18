// Package esplora implements the txpoll.ChainClient interface for
// UTXO-model chains (Bitcoin, Litecoin) through an Esplora-compatible
// explorer REST API (Blockstream, mempool.space, litecoinspace).
package esplora

import (
	"github.com/gabapcia/chainledger/internal/txpoll"

	"github.com/hashicorp/go-retryablehttp"
)

// decimals is the subunit scale shared by the supported UTXO chains
// (satoshis and litoshis are both 1e-8).
const decimals = 8

// client fetches per-address transaction history from an Esplora deployment.
type client struct {
	httpClient *retryablehttp.Client
	baseURL    string
}

var _ txpoll.ChainClient = (*client)(nil)

// NewClient creates an Esplora client rooted at the given API base URL
// (e.g. "https://blockstream.info/api").
func NewClient(httpClient *retryablehttp.Client, baseURL string) *client {
	return &client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}
}
