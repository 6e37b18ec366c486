package stripe

import (
	"context"
	"fmt"
	"maps"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// sdkClient implements Client over a per-instance stripe-go API client, so
// the secret key is never written to the SDK's package globals.
type sdkClient struct {
	api *client.API
}

// NewClient returns a Client for the given STRIPE_SECRET_KEY.
func NewClient(secretKey string) Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &sdkClient{api: api}
}

// CreatePaymentIntent opens a plan purchase: a Customer for the billing
// contact, then a PaymentIntent for the plan price charged to that Customer.
// The plan metadata travels on the PaymentIntent and comes back on the
// payment_intent.* webhooks.
func (c *sdkClient) CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (PaymentIntent, error) {
	cust, err := c.api.Customers.New(billingCustomerParams(ctx, p))
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("stripe: create customer for %s: %w", p.Email, err)
	}

	pi, err := c.api.PaymentIntents.New(planPaymentIntentParams(ctx, p, cust.ID))
	if err != nil {
		return PaymentIntent{}, fmt.Errorf("stripe: create plan payment intent: %w", err)
	}

	return PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		CustomerID:   cust.ID,
	}, nil
}

// GetClientSecret re-reads an open plan PaymentIntent so a repeated checkout
// reuses it.
func (c *sdkClient) GetClientSecret(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := c.api.PaymentIntents.Get(paymentIntentID, params)
	if err != nil {
		return "", fmt.Errorf("stripe: get payment intent %s: %w", paymentIntentID, err)
	}
	return pi.ClientSecret, nil
}

// VerifyWebhook checks the Stripe-Signature header (300s tolerance) and
// returns the event in the package's own shape.
func (c *sdkClient) VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, secret)
	if err != nil {
		return Event{}, fmt.Errorf("stripe: webhook verification failed: %w", err)
	}
	return Event{
		ID:      ev.ID,
		Type:    string(ev.Type),
		DataRaw: ev.Data.Raw,
	}, nil
}

func billingCustomerParams(ctx context.Context, p CreatePaymentIntentParams) *stripe.CustomerParams {
	params := &stripe.CustomerParams{Email: stripe.String(p.Email)}
	if p.CustomerName != "" {
		params.Name = stripe.String(p.CustomerName)
	}
	params.Context = ctx
	return params
}

func planPaymentIntentParams(ctx context.Context, p CreatePaymentIntentParams, customerID string) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:       stripe.Int64(p.AmountCents),
		Currency:     stripe.String(p.Currency),
		Customer:     stripe.String(customerID),
		ReceiptEmail: stripe.String(p.Email),
		Metadata:     maps.Clone(p.Metadata),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	params.Context = ctx
	return params
}
