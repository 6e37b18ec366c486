package store

import (
	"context"
	"fmt"

	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
)

// SeedCatalog upserts every sector weighting and recommendation template in
// one transaction. Callers validate the catalog first; a failing row rolls
// the whole seed back.
func (s *Store) SeedCatalog(ctx context.Context, weightings []scoring.SectorWeighting, templates []recommend.Template) error {
	return s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		for _, sw := range weightings {
			if _, err := q.UpsertSectorWeighting(ctx, WeightingParams(sw)); err != nil {
				return fmt.Errorf("SeedCatalog: sector %q: %w", sw.Sector, err)
			}
		}
		for _, t := range templates {
			if _, err := q.UpsertRecommendationTemplate(ctx, templateParams(t)); err != nil {
				return fmt.Errorf("SeedCatalog: template %q: %w", t.ID, err)
			}
		}
		return nil
	})
}

// WeightingParams maps a scoring weighting onto the upsert row.
func WeightingParams(sw scoring.SectorWeighting) db.UpsertSectorWeightingParams {
	w := sw.Weights
	return db.UpsertSectorWeightingParams{
		Sector:               sw.Sector,
		Construction:         w[scoring.Construction],
		FireProtection:       w[scoring.FireProtection],
		Detection:            w[scoring.Detection],
		Management:           w[scoring.Management],
		SpecialHazards:       w[scoring.SpecialHazards],
		BusinessInterruption: w[scoring.BusinessInterruption],
	}
}

func templateParams(t recommend.Template) db.UpsertRecommendationTemplateParams {
	outcomes := make([]string, len(t.TriggerOutcomes))
	for i, o := range t.TriggerOutcomes {
		outcomes[i] = string(o)
	}
	return db.UpsertRecommendationTemplateParams{
		ID:              t.ID,
		ModuleKey:       t.ModuleKey,
		TriggerOutcomes: outcomes,
		MaxRating:       int16(t.MaxRating),
		Priority:        db.ActionPriority(t.Priority),
		Title:           t.Title,
		Body:            t.Body,
	}
}
