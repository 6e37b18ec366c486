package api

import (
	"fmt"
	"net/http"

	"github.com/nyashahama/property-risk-survey-backend/internal/combustibility"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

// maxBuildings caps a single buildings payload.
const maxBuildings = 200

// ─── POST /api/score/combustibility ──────────────────────────────────────────

type scoreCombustibilityRequest struct {
	Buildings []combustibility.Building `json:"buildings"`
}

type combustibilityResponse struct {
	Combustibility combustibility.SiteSummary `json:"combustibility"`
	Warnings       []combustibility.Warning   `json:"warnings"`
}

// handleScoreCombustibility is a stateless calculator used by the survey form
// to preview site combustibility before anything is saved.
func (s *Server) handleScoreCombustibility(w http.ResponseWriter, r *http.Request) {
	var req scoreCombustibilityRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateBuildings(req.Buildings); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	respond(w, http.StatusOK, combustibilityFor(req.Buildings))
}

func combustibilityFor(buildings []combustibility.Building) combustibilityResponse {
	warnings := combustibility.SiteWarnings(buildings)
	if warnings == nil {
		warnings = []combustibility.Warning{}
	}
	return combustibilityResponse{
		Combustibility: combustibility.Site(buildings),
		Warnings:       warnings,
	}
}

// validateBuildings returns a client-facing message, or "" when the payload
// is acceptable. Percentage totals are not checked here; they only raise
// warnings.
func validateBuildings(buildings []combustibility.Building) string {
	if len(buildings) > maxBuildings {
		return fmt.Sprintf("too many buildings in a single request (max %d)", maxBuildings)
	}
	seen := make(map[string]bool, len(buildings))
	for _, b := range buildings {
		if b.ID == "" {
			return "each building must have a non-empty id"
		}
		if seen[b.ID] {
			return fmt.Sprintf("duplicate building id %q", b.ID)
		}
		seen[b.ID] = true
	}
	return ""
}

// ─── POST /api/score/sector ───────────────────────────────────────────────────

type scoreSectorRequest struct {
	Sector string                  `json:"sector"`
	Scores scoring.DimensionScores `json:"scores"`
	// Weights overrides the stored sector row when present.
	Weights *scoring.Weights `json:"weights,omitempty"`
}

type scoreSectorResponse struct {
	Sector             string                 `json:"sector"`
	WeightingSector    string                 `json:"weighting_sector"`
	Overall            float64                `json:"overall_score"`
	Band               scoring.RiskBand       `json:"band"`
	Weights            scoring.Weights        `json:"weights"`
	LowestContributors []scoring.Contribution `json:"lowest_contributors"`
}

// lowestShown is the number of lowest contributors on calculator responses.
const lowestShown = 3

// handleScoreSector weights a set of dimension scores for a sector. Without
// explicit weights the stored sector_weightings rows are used.
func (s *Server) handleScoreSector(w http.ResponseWriter, r *http.Request) {
	var req scoreSectorRequest
	if !decode(w, r, &req) {
		return
	}

	resp := scoreSectorResponse{Sector: req.Sector}

	if req.Weights != nil {
		sw := scoring.SectorWeighting{Sector: "custom", Weights: *req.Weights}
		if err := sw.Validate(); err != nil {
			respondErr(w, http.StatusBadRequest, err.Error())
			return
		}
		resp.Weights = *req.Weights
	} else {
		rows, err := s.q.ListSectorWeightings(r.Context())
		if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("list sector weightings: %w", err))
			return
		}
		resp.Weights, resp.WeightingSector = scoring.ResolveWeights(survey.WeightingsFromRows(rows), req.Sector)
	}

	resp.Overall = scoring.OverallScore(req.Scores, resp.Weights)
	resp.Band = scoring.Band(resp.Overall)
	resp.LowestContributors = scoring.LowestContributors(req.Scores, resp.Weights, lowestShown)

	respond(w, http.StatusOK, resp)
}
