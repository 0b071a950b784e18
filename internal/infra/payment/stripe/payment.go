package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gabapcia/chainledger/internal/paymatch"
	"github.com/gabapcia/chainledger/internal/pkg/logger"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrRequestFailed indicates Stripe answered with a non-success HTTP status.
var ErrRequestFailed = errors.New("stripe: request failed")

type (
	// paymentIntentResponse is the subset of a PaymentIntent the matcher
	// needs. Amount is in the currency's smallest unit, Created in Unix
	// seconds.
	paymentIntentResponse struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Created  int64  `json:"created"`
		Customer string `json:"customer"`
	}

	// paymentIntentListResponse is the /v1/payment_intents envelope.
	paymentIntentListResponse struct {
		Data []paymentIntentResponse `json:"data"`
	}

	// customerResponse carries the identity fields of a Stripe customer.
	customerResponse struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
)

// get performs an authenticated GET and decodes the JSON body into out.
func (c *client) get(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrRequestFailed, res.Status)
	}

	return json.NewDecoder(res.Body).Decode(out)
}

// getCustomer resolves a customer id to its identity fields. A failed
// lookup degrades to an empty identity: the matcher treats it like a
// customer with no details on file.
func (c *client) getCustomer(ctx context.Context, customerID string) paymatch.Identity {
	if customerID == "" {
		return paymatch.Identity{}
	}

	var customer customerResponse
	if err := c.get(ctx, "/v1/customers/"+customerID, &customer); err != nil {
		logger.Warn(ctx, "stripe customer lookup failed",
			"customer.id", customerID,
			"error", err,
		)
		return paymatch.Identity{}
	}

	return paymatch.Identity{
		Email: customer.Email,
		Name:  customer.Name,
		Phone: customer.Phone,
	}
}

// ListRecentPayments implements the paymatch.PaymentSource interface.
func (c *client) ListRecentPayments(ctx context.Context, limit int) ([]paymatch.PaymentRecord, error) {
	var list paymentIntentListResponse
	if err := c.get(ctx, "/v1/payment_intents?limit="+strconv.Itoa(limit), &list); err != nil {
		return nil, err
	}

	payments := make([]paymatch.PaymentRecord, 0, len(list.Data))
	for _, intent := range list.Data {
		payments = append(payments, paymatch.PaymentRecord{
			ID:          intent.ID,
			Status:      intent.Status,
			AmountCents: intent.Amount,
			Created:     intent.Created,
			Identity:    c.getCustomer(ctx, intent.Customer),
		})
	}

	return payments, nil
}
