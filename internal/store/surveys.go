package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
	"github.com/sqlc-dev/pqtype"
)

// ─── INPUT TYPES ─────────────────────────────────────────────────────────────

// CreateSurveyParams is the client/site header a surveyor fills in when
// opening a new survey.
type CreateSurveyParams struct {
	OrganisationID uuid.UUID
	ClientName     string
	ClientEmail    string
	SiteName       string
	SiteAddress    string
	Sector         string
}

// PersistSurveyScoresParams is everything the worker hands to the store once
// scoring, action evaluation and narrative generation are complete.
type PersistSurveyScoresParams struct {
	SurveyID           uuid.UUID
	SiteCombustibility *float64 // nil when no buildings were captured
	Assessment         scoring.Assessment
	Actions            []recommend.Action
	ActionCommentary   map[string]string // action key → AI commentary; may be nil
	ExecutiveSummary   string            // empty when the narrator was unavailable
}

// ─── ERRORS ──────────────────────────────────────────────────────────────────

// ErrPlanLimitReached is returned by CreateSurvey when the organisation's
// plan tier has no survey allowance left.
var ErrPlanLimitReached = errors.New("store: plan survey limit reached")

// ErrSurveyNotPending is returned by PersistSurveyScores and MarkSurveyFailed
// when the survey has left the pending state, usually because another run
// already issued or failed it.
var ErrSurveyNotPending = errors.New("store: survey is not pending")

// ─── METHODS ─────────────────────────────────────────────────────────────────

// CreateSurvey counts the organisation's surveys and inserts a new draft in
// the same serializable transaction, so two concurrent creates cannot both
// squeeze under the quota.
func (s *Store) CreateSurvey(ctx context.Context, p CreateSurveyParams) (db.SurveyReport, error) {
	var survey db.SurveyReport

	err := s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		org, err := q.GetOrganisationByID(ctx, p.OrganisationID)
		if err != nil {
			return fmt.Errorf("CreateSurvey: get organisation: %w", err)
		}

		if limit, ok := SurveyQuota(org.PlanTier); ok {
			n, err := q.CountActiveSurveys(ctx, org.ID)
			if err != nil {
				return fmt.Errorf("CreateSurvey: count surveys: %w", err)
			}
			if n >= limit {
				return ErrPlanLimitReached
			}
		}

		sector := p.Sector
		if sector == "" {
			sector = scoring.DefaultSector
		}
		created, err := q.CreateSurvey(ctx, db.CreateSurveyParams{
			OrganisationID: org.ID,
			ClientName:     p.ClientName,
			ClientEmail:    nullString(p.ClientEmail),
			SiteName:       p.SiteName,
			SiteAddress:    nullString(p.SiteAddress),
			Sector:         sector,
		})
		if err != nil {
			return fmt.Errorf("CreateSurvey: insert: %w", err)
		}
		survey = created
		return nil
	})

	if err != nil {
		return db.SurveyReport{}, err
	}
	return survey, nil
}

// PersistSurveyScores atomically:
//
//  1. Replaces the survey's actions with the freshly evaluated set.
//  2. Writes the site combustibility, overall score, band and the assessment
//     snapshot, and marks the survey issued.
//
// On failure nothing is written and the survey stays pending for a retry. A
// survey that is no longer pending is left untouched (ErrSurveyNotPending).
func (s *Store) PersistSurveyScores(ctx context.Context, p PersistSurveyScoresParams) (db.SurveyReport, error) {
	var survey db.SurveyReport

	assessmentJSON, err := json.Marshal(p.Assessment)
	if err != nil {
		return db.SurveyReport{}, fmt.Errorf("PersistSurveyScores: marshal assessment: %w", err)
	}

	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.DeleteActionsBySurvey(ctx, p.SurveyID); err != nil {
			return fmt.Errorf("PersistSurveyScores: clear actions: %w", err)
		}

		for _, a := range p.Actions {
			instanceID, err := uuid.Parse(a.ModuleInstanceID)
			if err != nil {
				return fmt.Errorf("PersistSurveyScores: action %q: bad module instance id: %w", a.Key, err)
			}
			if _, err := q.InsertAction(ctx, db.InsertActionParams{
				SurveyID:         p.SurveyID,
				TemplateID:       a.TemplateID,
				ModuleInstanceID: instanceID,
				ModuleKey:        a.ModuleKey,
				Priority:         db.ActionPriority(a.Priority), // recommend.Priority and db.ActionPriority share string values
				Title:            a.Title,
				Body:             a.Body,
				Reason:           a.Reason,
				AiCommentary:     nullString(p.ActionCommentary[a.Key]),
			}); err != nil {
				return fmt.Errorf("PersistSurveyScores: insert action %q: %w", a.Key, err)
			}
		}

		var site sql.NullFloat64
		if p.SiteCombustibility != nil {
			site = sql.NullFloat64{Float64: *p.SiteCombustibility, Valid: true}
		}
		overall := sql.NullFloat64{Float64: p.Assessment.Overall, Valid: !p.Assessment.Unassessable}
		band := sql.NullString{String: string(p.Assessment.Band), Valid: !p.Assessment.Unassessable}

		finalised, err := q.FinalizeSurvey(ctx, db.FinalizeSurveyParams{
			ID:                 p.SurveyID,
			SiteCombustibility: site,
			OverallScore:       overall,
			RiskBand:           band,
			AssessmentJson:     pqtype.NullRawMessage{RawMessage: assessmentJSON, Valid: true},
			AiSummary:          nullString(p.ExecutiveSummary),
		})
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSurveyNotPending
		}
		if err != nil {
			return fmt.Errorf("PersistSurveyScores: finalize survey: %w", err)
		}
		survey = finalised
		return nil
	})

	if err != nil {
		return db.SurveyReport{}, err
	}
	return survey, nil
}

// MarkSurveyFailed sets a pending survey's status to error with a message. It
// is a single write, so no transaction is needed.
func (s *Store) MarkSurveyFailed(ctx context.Context, surveyID uuid.UUID, reason string) (db.SurveyReport, error) {
	survey, err := s.q.SetSurveyError(ctx, db.SetSurveyErrorParams{
		ID:           surveyID,
		ErrorMessage: nullString(reason),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return db.SurveyReport{}, ErrSurveyNotPending
	}
	if err != nil {
		return db.SurveyReport{}, fmt.Errorf("MarkSurveyFailed: %w", err)
	}
	return survey, nil
}
