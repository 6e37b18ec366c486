package stripe

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func TestPlanPaymentIntentParams(t *testing.T) {
	meta := map[string]string{"organisation_id": "org-1", "plan": "professional"}
	p := CreatePaymentIntentParams{
		AmountCents: 4900,
		Currency:    Currency,
		Email:       "billing@acme.test",
		Description: "Property risk survey plan: professional",
		Metadata:    meta,
	}

	params := planPaymentIntentParams(context.Background(), p, "cus_1")

	if *params.Amount != 4900 || *params.Currency != "usd" || *params.Customer != "cus_1" {
		t.Errorf("amount=%d currency=%s customer=%s", *params.Amount, *params.Currency, *params.Customer)
	}
	if *params.ReceiptEmail != "billing@acme.test" {
		t.Errorf("receipt email = %s", *params.ReceiptEmail)
	}
	if params.Metadata["plan"] != "professional" || params.Metadata["organisation_id"] != "org-1" {
		t.Errorf("metadata = %v", params.Metadata)
	}
	params.Metadata["plan"] = "enterprise"
	if meta["plan"] != "professional" {
		t.Error("caller metadata must not be shared with the SDK params")
	}
	if !*params.AutomaticPaymentMethods.Enabled {
		t.Error("automatic payment methods should be enabled")
	}
}

func TestBillingCustomerParams_OmitsEmptyName(t *testing.T) {
	params := billingCustomerParams(context.Background(), CreatePaymentIntentParams{Email: "a@b.test"})
	if params.Name != nil {
		t.Errorf("name = %q, want unset", *params.Name)
	}
	params = billingCustomerParams(context.Background(), CreatePaymentIntentParams{Email: "a@b.test", CustomerName: "Acme"})
	if params.Name == nil || *params.Name != "Acme" {
		t.Errorf("name = %v", params.Name)
	}
}

func TestVerifyWebhook(t *testing.T) {
	const secret = "whsec_test"
	payload, _ := json.Marshal(map[string]any{
		"id":          "evt_plan",
		"object":      "event",
		"type":        "payment_intent.succeeded",
		"api_version": stripe.APIVersion,
		"data": map[string]any{
			"object": map[string]any{"id": "pi_plan", "metadata": map[string]string{"plan": "enterprise"}},
		},
	})
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	})

	c := NewClient("sk_test")
	ev, err := c.VerifyWebhook(payload, signed.Header, secret)
	if err != nil {
		t.Fatalf("VerifyWebhook: %v", err)
	}
	if ev.ID != "evt_plan" || ev.Type != "payment_intent.succeeded" {
		t.Errorf("event = %+v", ev)
	}
	if piID, err := ExtractPaymentIntentID(ev); err != nil || piID != "pi_plan" {
		t.Errorf("pi id = %q, %v", piID, err)
	}

	if _, err := c.VerifyWebhook(payload, signed.Header, "whsec_other"); err == nil {
		t.Error("expected error for a signature made with another secret")
	}
}
