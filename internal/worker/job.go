package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/ai"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/email"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

// SurveyStore is the subset of *store.Store the worker writes through.
type SurveyStore interface {
	PersistSurveyScores(ctx context.Context, p store.PersistSurveyScoresParams) (db.SurveyReport, error)
	MarkSurveyFailed(ctx context.Context, surveyID uuid.UUID, reason string) (db.SurveyReport, error)
}

// narrativeFloor is the least urgent priority sent to the narrator for
// per-action commentary.
const narrativeFloor = recommend.PriorityHigh

// Job holds the dependencies for the issue-report pipeline.
type Job struct {
	q        db.Querier
	store    SurveyStore
	narrator ai.Narrator
	mailer   email.Sender
	logger   *slog.Logger
}

// NewJob constructs a Job with all required dependencies.
func NewJob(
	q db.Querier,
	st SurveyStore,
	narrator ai.Narrator,
	mailer email.Sender,
	logger *slog.Logger,
) *Job {
	return &Job{
		q:        q,
		store:    st,
		narrator: narrator,
		mailer:   mailer,
		logger:   logger,
	}
}

// Run issues the report for a single survey:
//
//  1. Load the survey, its modules and the current catalog.
//  2. Evaluate combustibility, the sector assessment and actions.
//  3. Ask the narrator for an executive summary and action commentary.
//  4. Persist everything atomically via store.PersistSurveyScores.
//  5. Email the client their report link.
//
// Only steps 1, 2 and 4 can fail the job; the Runner retries those up to
// MaxRetries times before calling store.MarkSurveyFailed. A survey that is not
// pending, at load or at persist, has been handled elsewhere and is skipped.
func (j *Job) Run(ctx context.Context, surveyID uuid.UUID) error {
	log := j.logger.With("survey_id", surveyID)
	log.Info("job: starting")

	// ── 1. Load ───────────────────────────────────────────────────────────────
	row, in, err := survey.Load(ctx, j.q, surveyID)
	if err != nil {
		return fmt.Errorf("job: load survey: %w", err)
	}
	if row.Status != db.SurveyStatusPending {
		log.Info("job: survey is not pending, skipping", "status", row.Status)
		return nil
	}
	if len(in.Modules) == 0 && len(in.Buildings) == 0 {
		return fmt.Errorf("job: survey %s has no modules or buildings", surveyID)
	}
	log.Debug("job: loaded survey",
		"modules", len(in.Modules),
		"buildings", len(in.Buildings),
		"templates", len(in.Templates),
	)

	// ── 2. Evaluate ───────────────────────────────────────────────────────────
	res := survey.Evaluate(in)
	log.Debug("job: evaluated survey",
		"overall_score", res.Assessment.Overall,
		"band", res.Assessment.Band,
		"unassessable", res.Assessment.Unassessable,
		"actions", res.ActionCounts.Total(),
		"weighting_sector", res.WeightingSector,
	)

	// ── 3. Narrative (non-fatal) ──────────────────────────────────────────────
	var narrative ai.Narrative
	if j.narrator != nil {
		narrative, err = j.narrator.Summarise(ctx, ai.NarrativeInput{
			ClientName:         row.ClientName,
			SiteName:           row.SiteName,
			Sector:             row.Sector,
			SiteCombustibility: res.SiteScore(),
			Assessment:         res.Assessment,
			Actions:            recommend.FilterByPriority(res.Actions, narrativeFloor),
		})
		if err != nil {
			log.Warn("job: narrative generation failed, issuing without it", "error", err)
			narrative = ai.Narrative{}
		}
	}

	// ── 4. Persist ────────────────────────────────────────────────────────────
	issued, err := j.store.PersistSurveyScores(ctx, store.PersistSurveyScoresParams{
		SurveyID:           surveyID,
		SiteCombustibility: res.SiteScore(),
		Assessment:         res.Assessment,
		Actions:            res.Actions,
		ActionCommentary:   narrative.Commentary,
		ExecutiveSummary:   narrative.ExecutiveSummary,
	})
	if errors.Is(err, store.ErrSurveyNotPending) {
		log.Info("job: survey was issued or failed by another run, skipping email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("job: persist scores: %w", err)
	}
	log.Info("job: survey issued",
		"overall_score", issued.OverallScore.Float64,
		"band", issued.RiskBand.String,
		"access_token", issued.AccessToken,
	)

	// ── 5. Email (non-fatal) ──────────────────────────────────────────────────
	if !issued.ClientEmail.Valid || issued.ClientEmail.String == "" {
		log.Warn("job: survey has no client email, skipping delivery email")
		return nil
	}

	var orgName string
	if org, err := j.q.GetOrganisationByID(ctx, issued.OrganisationID); err == nil {
		orgName = org.Name
	} else {
		log.Warn("job: could not load organisation for email", "error", err)
	}

	if err := j.mailer.SendReportReady(ctx, email.ReportReadyParams{
		To:          issued.ClientEmail.String,
		ClientName:  issued.ClientName,
		SiteName:    issued.SiteName,
		OrgName:     orgName,
		RiskBand:    issued.RiskBand.String,
		AccessToken: issued.AccessToken,
	}); err != nil {
		log.Error("job: failed to send report email",
			"to", issued.ClientEmail.String,
			"error", err,
		)
	}

	return nil
}
