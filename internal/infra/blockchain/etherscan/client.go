// Package etherscan implements the txpoll.ChainClient interface for
// account-model chains through the Etherscan V2 account API.
package etherscan

import (
	"github.com/gabapcia/chainledger/internal/txpoll"

	"github.com/hashicorp/go-retryablehttp"
)

// defaultBaseURL is the Etherscan V2 unified API endpoint.
const defaultBaseURL = "https://api.etherscan.io/v2/api"

// ethereumMainnetChainID selects Ethereum mainnet on the V2 API.
const ethereumMainnetChainID = 1

// client fetches per-address transaction lists from Etherscan.
type client struct {
	httpClient *retryablehttp.Client
	apiKey     string
	baseURL    string
	chainID    int
}

var _ txpoll.ChainClient = (*client)(nil)

type config struct {
	baseURL string
	chainID int
}

// Option configures the Etherscan client.
type Option func(*config)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithChainID selects a different EVM chain on the V2 API. Default: 1
// (Ethereum mainnet).
func WithChainID(id int) Option {
	return func(c *config) {
		c.chainID = id
	}
}

// NewClient creates an Etherscan client authenticated with the given API key.
func NewClient(httpClient *retryablehttp.Client, apiKey string, opts ...Option) *client {
	cfg := config{
		baseURL: defaultBaseURL,
		chainID: ethereumMainnetChainID,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    cfg.baseURL,
		chainID:    cfg.chainID,
	}
}
