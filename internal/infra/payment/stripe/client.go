// Package stripe implements the paymatch.PaymentSource interface against
// the Stripe REST API: recent payment intents, hydrated with the customer
// identity fields the matcher disambiguates on.
package stripe

import (
	"github.com/gabapcia/chainledger/internal/paymatch"

	"github.com/hashicorp/go-retryablehttp"
)

// defaultBaseURL is the Stripe API root.
const defaultBaseURL = "https://api.stripe.com"

type client struct {
	httpClient *retryablehttp.Client
	apiKey     string
	baseURL    string
}

var _ paymatch.PaymentSource = (*client)(nil)

type config struct {
	baseURL string
}

// Option configures the Stripe client.
type Option func(*config)

// WithBaseURL overrides the API root, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// NewClient creates a Stripe client authenticated with the given secret key.
func NewClient(httpClient *retryablehttp.Client, apiKey string, opts ...Option) *client {
	cfg := config{
		baseURL: defaultBaseURL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    cfg.baseURL,
	}
}
