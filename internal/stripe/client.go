// Package stripe defines the interface for Stripe API calls and webhook
// verification, the plan price list, and helpers used by the api package.
package stripe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nyashahama/property-risk-survey-backend/internal/db"
)

// ─── PLANS ────────────────────────────────────────────────────────────────────

// Currency is charged for every plan purchase.
const Currency = "usd"

// planPrices are one-off upgrade prices in cents. The free tier is not sold.
var planPrices = map[db.PlanTier]int64{
	db.PlanTierProfessional: 4900,
	db.PlanTierEnterprise:   14900,
}

// PlanPrice returns the price of an upgrade to tier, or false if the tier
// cannot be purchased.
func PlanPrice(tier db.PlanTier) (int64, bool) {
	cents, ok := planPrices[tier]
	return cents, ok
}

// ─── TYPES ────────────────────────────────────────────────────────────────────

// CreatePaymentIntentParams holds the inputs for creating a Stripe PI.
type CreatePaymentIntentParams struct {
	AmountCents  int64
	Currency     string
	Email        string
	CustomerName string
	Description  string
	Metadata     map[string]string
}

// PaymentIntent is the subset of a Stripe PaymentIntent that callers need.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	CustomerID   string // may be empty if no Customer was created
}

// Event is a parsed Stripe webhook event. DataRaw contains the raw JSON of the
// event's data.object so handlers can unmarshal only what they need.
type Event struct {
	ID      string
	Type    string
	DataRaw json.RawMessage
}

// ─── CLIENT INTERFACE ─────────────────────────────────────────────────────────

// Client is the interface the api package uses for all Stripe calls. The
// concrete implementation wraps the official stripe-go SDK; tests inject a
// stub.
type Client interface {
	// CreatePaymentIntent creates a new PI and returns its client_secret.
	CreatePaymentIntent(ctx context.Context, p CreatePaymentIntentParams) (PaymentIntent, error)

	// GetClientSecret retrieves the client_secret for an existing PI by ID.
	// Used when the organisation already has a PI open for the same plan.
	GetClientSecret(ctx context.Context, paymentIntentID string) (string, error)

	// VerifyWebhook validates the Stripe-Signature header and returns the
	// parsed event. Returns an error if the signature is invalid or expired.
	VerifyWebhook(payload []byte, sigHeader string, secret string) (Event, error)
}

// ─── HELPERS USED BY api/ ────────────────────────────────────────────────────

// ToUpsertParams converts a parsed Event and its raw payload into the params
// needed by db.Querier.UpsertStripeEvent.
func ToUpsertParams(event Event, rawPayload []byte) db.UpsertStripeEventParams {
	return db.UpsertStripeEventParams{
		StripeEventID: event.ID,
		Type:          event.Type,
		Payload:       json.RawMessage(rawPayload),
	}
}

// ToMarkFailedParams builds the params for db.Querier.MarkStripeEventFailed.
func ToMarkFailedParams(eventID string, err error) db.MarkStripeEventFailedParams {
	return db.MarkStripeEventFailedParams{
		StripeEventID: eventID,
		Error:         sql.NullString{String: err.Error(), Valid: true},
	}
}

// ExtractPaymentIntentID pulls the PaymentIntent id field from the event's
// data.object. Works for payment_intent.* events.
func ExtractPaymentIntentID(event Event) (string, error) {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return "", fmt.Errorf("stripe: unmarshal payment intent id: %w", err)
	}
	if obj.ID == "" {
		return "", fmt.Errorf("stripe: payment intent id is empty in event %s", event.ID)
	}
	return obj.ID, nil
}

// ExtractMetadata returns the metadata map of a payment_intent.* event's
// data.object. Checkout stores organisation_id and plan there.
func ExtractMetadata(event Event) (map[string]string, error) {
	var obj struct {
		Metadata map[string]string `json:"metadata"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return nil, fmt.Errorf("stripe: unmarshal metadata: %w", err)
	}
	return obj.Metadata, nil
}

// ExtractPIFromCharge pulls the payment_intent field from a charge object.
// Works for charge.refunded events.
func ExtractPIFromCharge(event Event) (string, error) {
	var obj struct {
		PaymentIntent string `json:"payment_intent"`
	}
	if err := json.Unmarshal(event.DataRaw, &obj); err != nil {
		return "", fmt.Errorf("stripe: unmarshal charge: %w", err)
	}
	if obj.PaymentIntent == "" {
		return "", fmt.Errorf("stripe: no payment_intent on charge in event %s", event.ID)
	}
	return obj.PaymentIntent, nil
}