package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
)

// ─── PLAN QUOTAS ──────────────────────────────────────────────────────────────

// planQuotas caps the number of open (draft or pending) surveys an
// organisation may hold at once. Issued and failed surveys do not count.
// Tiers missing from the map are unlimited.
var planQuotas = map[db.PlanTier]int64{
	db.PlanTierFree:         3,
	db.PlanTierProfessional: 50,
}

// SurveyQuota returns the survey limit for a tier and whether one applies.
func SurveyQuota(tier db.PlanTier) (int64, bool) {
	limit, ok := planQuotas[tier]
	return limit, ok
}

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// AttachPlanPaymentIntentParams groups the Stripe fields written when an
// organisation starts a plan purchase.
type AttachPlanPaymentIntentParams struct {
	OrganisationID      uuid.UUID
	Plan                db.PlanTier
	StripeCustomerID    string
	StripePaymentIntent string
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrPaymentIntentAlreadyAttached is returned when the organisation already
// has an open PaymentIntent for the same plan. The checkout handler returns
// that PI's client_secret instead of creating a second one.
var ErrPaymentIntentAlreadyAttached = errors.New("store: payment intent already attached for plan")

// ErrPlanAlreadyApplied is returned by ApplyPlanPurchase when the payment was
// already applied (duplicate webhook delivery).
var ErrPlanAlreadyApplied = errors.New("store: plan purchase already applied")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// AttachPlanPaymentIntent records a pending plan purchase. Two concurrent
// checkouts for the same plan see each other under serializable isolation and
// the loser gets ErrPaymentIntentAlreadyAttached with the current row.
func (s *Store) AttachPlanPaymentIntent(ctx context.Context, p AttachPlanPaymentIntentParams) (db.Organisation, error) {
	var org db.Organisation

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.GetOrganisationByID(ctx, p.OrganisationID)
		if err != nil {
			return fmt.Errorf("AttachPlanPaymentIntent: get organisation: %w", err)
		}

		if existing.PendingPlan.Valid && existing.PendingPlan.PlanTier == p.Plan &&
			existing.StripePaymentIntent.Valid && existing.StripePaymentIntent.String != "" {
			org = existing
			return ErrPaymentIntentAlreadyAttached
		}

		updated, err := q.AttachPlanPaymentIntent(ctx, db.AttachPlanPaymentIntentParams{
			ID:                  p.OrganisationID,
			StripeCustomerID:    nullString(p.StripeCustomerID),
			StripePaymentIntent: nullString(p.StripePaymentIntent),
			PendingPlan:         db.NullPlanTier{PlanTier: p.Plan, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("AttachPlanPaymentIntent: attach: %w", err)
		}
		org = updated
		return nil
	})

	if errors.Is(err, ErrPaymentIntentAlreadyAttached) {
		return org, ErrPaymentIntentAlreadyAttached
	}
	if err != nil {
		return db.Organisation{}, err
	}
	return org, nil
}

// ApplyPlanPurchase is called on payment_intent.succeeded. It promotes the
// organisation's pending plan to its active tier. A second delivery for the
// same PaymentIntent finds no pending plan and returns ErrPlanAlreadyApplied
// together with the current organisation row.
func (s *Store) ApplyPlanPurchase(ctx context.Context, stripePaymentIntent string) (db.Organisation, error) {
	var org db.Organisation

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		existing, err := q.GetOrganisationByPaymentIntent(ctx, nullString(stripePaymentIntent))
		if err != nil {
			return fmt.Errorf("ApplyPlanPurchase: get organisation: %w", err)
		}
		if !existing.PendingPlan.Valid {
			org = existing
			return ErrPlanAlreadyApplied
		}

		updated, err := q.ApplyPendingPlan(ctx, existing.ID)
		if err != nil {
			return fmt.Errorf("ApplyPlanPurchase: apply pending plan: %w", err)
		}
		org = updated
		return nil
	})

	if errors.Is(err, ErrPlanAlreadyApplied) {
		return org, ErrPlanAlreadyApplied
	}
	if err != nil {
		return db.Organisation{}, err
	}
	return org, nil
}
