package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	stripeinternal "github.com/nyashahama/property-risk-survey-backend/internal/stripe"
)

// ─── POST /api/billing/checkout ───────────────────────────────────────────────

type createCheckoutRequest struct {
	Plan  string `json:"plan"`
	Email string `json:"email"`
}

type createCheckoutResponse struct {
	// ClientSecret is the Stripe PaymentIntent client_secret. The browser
	// passes this to Stripe.js to render the payment UI and confirm the charge.
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	// IsExisting is true when the organisation already had a PaymentIntent
	// open for this plan. The secret is still valid and confirmable.
	IsExisting bool `json:"is_existing,omitempty"`
}

// handleCreateCheckout creates a Stripe PaymentIntent for a plan upgrade and
// returns the client_secret to the browser. The tier only changes once the
// payment_intent.succeeded webhook arrives.
//
// Race-safety: two concurrent calls for the same plan are handled by
// store.AttachPlanPaymentIntent using a serializable transaction. The second
// call receives ErrPaymentIntentAlreadyAttached and returns the existing
// client_secret rather than creating a second PI.
func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	org := orgFrom(r)

	var req createCheckoutRequest
	if !decode(w, r, &req) {
		return
	}

	plan := db.PlanTier(strings.ToLower(strings.TrimSpace(req.Plan)))
	amount, ok := stripeinternal.PlanPrice(plan)
	if !ok {
		respondErr(w, http.StatusBadRequest, "plan must be one of: professional, enterprise")
		return
	}
	if org.PlanTier == plan {
		respondErr(w, http.StatusConflict, "organisation is already on plan "+string(plan))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondErr(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	// ── Fast path: organisation already has a PI for this plan ────────────────
	// The store transaction is the authoritative guard; this only skips the
	// Stripe API call in the common retry case.
	if org.PendingPlan.Valid && org.PendingPlan.PlanTier == plan &&
		org.StripePaymentIntent.Valid && org.StripePaymentIntent.String != "" {
		clientSecret, err := s.stripe.GetClientSecret(r.Context(), org.StripePaymentIntent.String)
		if err != nil {
			// PI exists in our DB but Stripe cannot find it; fall through and
			// create a new one.
			s.logger.Warn("checkout: existing PI not found in Stripe, creating new",
				"pi", org.StripePaymentIntent.String,
				"error", err,
				logField(r),
			)
		} else {
			respond(w, http.StatusOK, createCheckoutResponse{
				ClientSecret: clientSecret,
				AmountCents:  amount,
				Currency:     stripeinternal.Currency,
				IsExisting:   true,
			})
			return
		}
	}

	// ── Create a new Stripe PaymentIntent ─────────────────────────────────────
	pi, err := s.stripe.CreatePaymentIntent(r.Context(), stripeinternal.CreatePaymentIntentParams{
		AmountCents:  amount,
		Currency:     stripeinternal.Currency,
		Email:        req.Email,
		CustomerName: org.Name,
		Description:  "Property risk survey plan: " + string(plan),
		Metadata: map[string]string{
			"organisation_id": org.ID.String(),
			"plan":            string(plan),
			"receipt_email":   req.Email,
		},
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create payment intent: %w", err))
		return
	}

	// ── Atomically attach the PI to the organisation ──────────────────────────
	_, err = s.store.AttachPlanPaymentIntent(r.Context(), store.AttachPlanPaymentIntentParams{
		OrganisationID:      org.ID,
		Plan:                plan,
		StripeCustomerID:    pi.CustomerID,
		StripePaymentIntent: pi.ID,
	})

	if errors.Is(err, store.ErrPaymentIntentAlreadyAttached) {
		// Lost the race. The PI we just created expires unused in Stripe.
		s.logger.Info("checkout: lost race, returning existing PI",
			"organisation_id", org.ID,
			logField(r),
		)
		current, dbErr := s.q.GetOrganisationByID(r.Context(), org.ID)
		if dbErr != nil {
			s.respondInternalErr(w, r, fmt.Errorf("get organisation after race: %w", dbErr))
			return
		}
		clientSecret, stripeErr := s.stripe.GetClientSecret(r.Context(), current.StripePaymentIntent.String)
		if stripeErr != nil {
			s.respondInternalErr(w, r, fmt.Errorf("get client secret after race: %w", stripeErr))
			return
		}
		respond(w, http.StatusOK, createCheckoutResponse{
			ClientSecret: clientSecret,
			AmountCents:  amount,
			Currency:     stripeinternal.Currency,
			IsExisting:   true,
		})
		return
	}

	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("attach payment intent: %w", err))
		return
	}

	respond(w, http.StatusOK, createCheckoutResponse{
		ClientSecret: pi.ClientSecret,
		AmountCents:  amount,
		Currency:     stripeinternal.Currency,
	})
}
