// Package survey ties the scoring packages together: it loads a survey and
// its reference data from the database and evaluates combustibility, the
// sector-weighted assessment and the recommended actions in one pass.
package survey

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/combustibility"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
)

// Input is everything Evaluate needs. It holds no db types so the CLI can
// build one from a YAML file.
type Input struct {
	Sector     string
	Buildings  []combustibility.Building
	Modules    []recommend.ModuleInstance
	Weightings []scoring.SectorWeighting
	Templates  []recommend.Template
}

// Result is the evaluated survey.
type Result struct {
	Combustibility combustibility.SiteSummary `json:"combustibility"`
	Warnings       []combustibility.Warning   `json:"warnings"`
	// WeightingSector is the sector row whose weights were applied; empty
	// when no row matched and equal weights were used.
	WeightingSector string                   `json:"weighting_sector"`
	Assessment      scoring.Assessment       `json:"assessment"`
	Actions         []recommend.Action       `json:"actions"`
	ActionCounts    recommend.PriorityCounts `json:"action_counts"`
}

// SiteScore returns the site combustibility, or nil when no building was
// captured.
func (r Result) SiteScore() *float64 {
	if !r.Combustibility.OK {
		return nil
	}
	v := r.Combustibility.Score
	return &v
}

// Evaluate scores a survey.
func Evaluate(in Input) Result {
	site := combustibility.Site(in.Buildings)
	res := Result{
		Combustibility: site,
		Warnings:       combustibility.SiteWarnings(in.Buildings),
	}

	outcomes := make([]scoring.ModuleOutcome, len(in.Modules))
	for i, m := range in.Modules {
		outcomes[i] = scoring.ModuleOutcome{ModuleKey: m.ModuleKey, Outcome: m.Outcome}
	}

	weights, used := scoring.ResolveWeights(in.Weightings, in.Sector)
	res.WeightingSector = used
	res.Assessment = scoring.Assess(outcomes, res.SiteScore(), weights, in.Sector)
	res.Actions = recommend.Evaluate(in.Modules, in.Templates)
	res.ActionCounts = recommend.Summarise(res.Actions)
	return res
}

// Load reads a survey row with its modules and the current catalog.
func Load(ctx context.Context, q db.Querier, surveyID uuid.UUID) (db.SurveyReport, Input, error) {
	s, err := q.GetSurveyByID(ctx, surveyID)
	if err != nil {
		return db.SurveyReport{}, Input{}, fmt.Errorf("survey: get survey: %w", err)
	}

	buildings, err := DecodeBuildings(s.Buildings)
	if err != nil {
		return db.SurveyReport{}, Input{}, err
	}

	modules, err := q.ListModuleInstancesBySurvey(ctx, surveyID)
	if err != nil {
		return db.SurveyReport{}, Input{}, fmt.Errorf("survey: list modules: %w", err)
	}
	weightings, err := q.ListSectorWeightings(ctx)
	if err != nil {
		return db.SurveyReport{}, Input{}, fmt.Errorf("survey: list sector weightings: %w", err)
	}
	templates, err := q.ListActiveRecommendationTemplates(ctx)
	if err != nil {
		return db.SurveyReport{}, Input{}, fmt.Errorf("survey: list templates: %w", err)
	}

	return s, Input{
		Sector:     s.Sector,
		Buildings:  buildings,
		Modules:    ModulesFromRows(modules),
		Weightings: WeightingsFromRows(weightings),
		Templates:  TemplatesFromRows(templates),
	}, nil
}
