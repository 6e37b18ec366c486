package survey

import (
	"encoding/json"
	"fmt"

	"github.com/nyashahama/property-risk-survey-backend/internal/combustibility"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
	"github.com/sqlc-dev/pqtype"
)

// DecodeBuildings parses the survey_reports.buildings column. NULL decodes
// to no buildings.
func DecodeBuildings(raw pqtype.NullRawMessage) ([]combustibility.Building, error) {
	if !raw.Valid || len(raw.RawMessage) == 0 {
		return nil, nil
	}
	var out []combustibility.Building
	if err := json.Unmarshal(raw.RawMessage, &out); err != nil {
		return nil, fmt.Errorf("survey: decode buildings: %w", err)
	}
	return out, nil
}

// EncodeBuildings is the inverse of DecodeBuildings.
func EncodeBuildings(buildings []combustibility.Building) (pqtype.NullRawMessage, error) {
	if buildings == nil {
		buildings = []combustibility.Building{}
	}
	b, err := json.Marshal(buildings)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("survey: encode buildings: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: b, Valid: true}, nil
}

// ModulesFromRows converts module_instances rows. A NULL rating becomes 0.
func ModulesFromRows(rows []db.ModuleInstance) []recommend.ModuleInstance {
	out := make([]recommend.ModuleInstance, len(rows))
	for i, r := range rows {
		out[i] = recommend.ModuleInstance{
			ID:        r.ID.String(),
			ModuleKey: r.ModuleKey,
			Outcome:   scoring.Outcome(r.Outcome),
		}
		if r.Rating.Valid {
			out[i].Rating = int(r.Rating.Int16)
		}
	}
	return out
}

// WeightingFromRow converts a sector_weightings row.
func WeightingFromRow(r db.SectorWeighting) scoring.SectorWeighting {
	sw := scoring.SectorWeighting{Sector: r.Sector}
	sw.Weights[scoring.Construction] = r.Construction
	sw.Weights[scoring.FireProtection] = r.FireProtection
	sw.Weights[scoring.Detection] = r.Detection
	sw.Weights[scoring.Management] = r.Management
	sw.Weights[scoring.SpecialHazards] = r.SpecialHazards
	sw.Weights[scoring.BusinessInterruption] = r.BusinessInterruption
	return sw
}

// WeightingsFromRows converts a list of sector_weightings rows.
func WeightingsFromRows(rows []db.SectorWeighting) []scoring.SectorWeighting {
	out := make([]scoring.SectorWeighting, len(rows))
	for i, r := range rows {
		out[i] = WeightingFromRow(r)
	}
	return out
}

// TemplatesFromRows converts recommendation_templates rows.
func TemplatesFromRows(rows []db.RecommendationTemplate) []recommend.Template {
	out := make([]recommend.Template, len(rows))
	for i, r := range rows {
		outcomes := make([]scoring.Outcome, len(r.TriggerOutcomes))
		for j, o := range r.TriggerOutcomes {
			outcomes[j] = scoring.Outcome(o)
		}
		out[i] = recommend.Template{
			ID:              r.ID,
			ModuleKey:       r.ModuleKey,
			TriggerOutcomes: outcomes,
			MaxRating:       int(r.MaxRating),
			Priority:        recommend.Priority(r.Priority),
			Title:           r.Title,
			Body:            r.Body,
		}
	}
	return out
}
