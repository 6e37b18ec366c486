package api

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nyashahama/property-risk-survey-backend/internal/email"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	stripeinternal "github.com/nyashahama/property-risk-survey-backend/internal/stripe"
)

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

// handleStripeWebhook is the entry point for all Stripe webhook deliveries.
//
// Stripe delivers events at-least-once and may retry on non-2xx responses.
// Every operation below is idempotent so replays are safe.
//
// The only events we act on are:
//   - payment_intent.succeeded      → apply the pending plan + send receipt
//   - payment_intent.payment_failed → clear the pending plan
//   - charge.refunded               → logged for follow-up
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	// ── 1. Read and size-limit the body ───────────────────────────────────────
	// The signature check must run against the exact bytes Stripe signed.
	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		respondErr(w, http.StatusBadRequest, "could not read request body")
		return
	}

	// ── 2. Verify the Stripe-Signature header ─────────────────────────────────
	sig := r.Header.Get("Stripe-Signature")
	event, err := s.stripe.VerifyWebhook(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Warn("webhook: invalid signature", "error", err, logField(r))
		respondErr(w, http.StatusBadRequest, "invalid webhook signature")
		return
	}

	// ── 3. Idempotency: record the event, skip if already processed ───────────
	// UpsertStripeEvent always returns the row. A processed_at timestamp means
	// an earlier delivery succeeded; a failed one is retried here.
	recorded, err := s.q.UpsertStripeEvent(r.Context(), stripeinternal.ToUpsertParams(event, payload))
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("upsert stripe event: %w", err))
		return
	}
	if recorded.ProcessedAt.Valid {
		s.logger.Debug("webhook: duplicate event, skipping", "event_id", event.ID, logField(r))
		w.WriteHeader(http.StatusOK)
		return
	}

	// ── 4. Dispatch by event type ─────────────────────────────────────────────
	var handlerErr error

	switch event.Type {
	case "payment_intent.succeeded":
		handlerErr = s.onPaymentSucceeded(r, event)

	case "payment_intent.payment_failed":
		handlerErr = s.onPaymentFailed(r, event)

	case "charge.refunded":
		handlerErr = s.onChargeRefunded(r, event)

	default:
		s.logger.Debug("webhook: unhandled event type", "type", event.Type, logField(r))
	}

	// ── 5. Mark event processed (or failed) ───────────────────────────────────
	if handlerErr != nil {
		s.logger.Error("webhook: handler error",
			"event_id", event.ID,
			"type", event.Type,
			"error", handlerErr,
			logField(r),
		)
		_, _ = s.q.MarkStripeEventFailed(r.Context(), stripeinternal.ToMarkFailedParams(event.ID, handlerErr))
		// 500 so Stripe retries delivery.
		respondErr(w, http.StatusInternalServerError, "webhook handler failed")
		return
	}

	_, _ = s.q.MarkStripeEventProcessed(r.Context(), event.ID)
	w.WriteHeader(http.StatusOK)
}

// ─── EVENT HANDLERS ───────────────────────────────────────────────────────────

func (s *Server) onPaymentSucceeded(r *http.Request, event stripeinternal.Event) error {
	piID, err := stripeinternal.ExtractPaymentIntentID(event)
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: extract PI id: %w", err)
	}

	org, err := s.store.ApplyPlanPurchase(r.Context(), piID)
	if errors.Is(err, store.ErrPlanAlreadyApplied) {
		s.logger.Debug("webhook: plan already applied", "organisation_id", org.ID, logField(r))
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		// Not one of our checkout PIs (or superseded by a later checkout).
		s.logger.Warn("webhook: no organisation for payment intent", "pi_id", piID, logField(r))
		return nil
	}
	if err != nil {
		return fmt.Errorf("onPaymentSucceeded: apply plan purchase: %w", err)
	}

	s.logger.Info("webhook: plan applied",
		"organisation_id", org.ID,
		"plan", org.PlanTier,
		logField(r),
	)

	meta, err := stripeinternal.ExtractMetadata(event)
	if err != nil || meta["receipt_email"] == "" {
		s.logger.Warn("webhook: no receipt email on payment intent", "pi_id", piID, logField(r))
		return nil
	}
	amount, _ := stripeinternal.PlanPrice(org.PlanTier)
	receiptErr := s.mailer.SendPlanReceipt(r.Context(), email.PlanReceiptParams{
		To:          meta["receipt_email"],
		OrgName:     org.Name,
		Plan:        string(org.PlanTier),
		AmountCents: amount,
		Currency:    stripeinternal.Currency,
	})
	s.logAndIgnoreEmailErr(r, receiptErr, "send plan receipt")

	return nil
}

func (s *Server) onPaymentFailed(r *http.Request, event stripeinternal.Event) error {
	piID, err := stripeinternal.ExtractPaymentIntentID(event)
	if err != nil {
		return fmt.Errorf("onPaymentFailed: extract PI id: %w", err)
	}

	_, err = s.q.ClearPlanPaymentIntent(r.Context(), nullString(piID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("onPaymentFailed: clear pending plan: %w", err)
	}
	return nil
}

func (s *Server) onChargeRefunded(r *http.Request, event stripeinternal.Event) error {
	piID, err := stripeinternal.ExtractPIFromCharge(event)
	if err != nil {
		// Refund events without a linked PI are informational only.
		s.logger.Warn("webhook: charge.refunded without PI id", "event_id", event.ID, logField(r))
		return nil
	}

	// Refunds do not downgrade the tier automatically; support handles them.
	org, err := s.q.GetOrganisationByPaymentIntent(r.Context(), nullString(piID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("onChargeRefunded: get organisation: %w", err)
	}
	s.logger.Info("webhook: charge refunded",
		"pi_id", piID,
		"organisation_id", org.ID,
		"event_id", event.ID,
		logField(r),
	)
	return nil
}
