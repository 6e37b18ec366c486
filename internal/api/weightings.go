package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

type weightingResponse struct {
	Sector    string          `json:"sector"`
	Weights   scoring.Weights `json:"weights"`
	SumsTo100 bool            `json:"sums_to_100"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// ─── GET /api/sector-weightings ───────────────────────────────────────────────

func (s *Server) handleListWeightings(w http.ResponseWriter, r *http.Request) {
	rows, err := s.q.ListSectorWeightings(r.Context())
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list sector weightings: %w", err))
		return
	}

	out := make([]weightingResponse, len(rows))
	for i, row := range rows {
		sw := survey.WeightingFromRow(row)
		out[i] = weightingResponse{
			Sector:    sw.Sector,
			Weights:   sw.Weights,
			SumsTo100: sw.SumsTo100(),
			UpdatedAt: formatTime(row.UpdatedAt),
		}
	}
	respond(w, http.StatusOK, map[string]any{"sector_weightings": out})
}

// ─── PUT /api/sector-weightings/:sector ───────────────────────────────────────

type putWeightingRequest struct {
	Weights scoring.Weights `json:"weights"`
}

// handlePutWeighting creates or replaces a sector row. Weightings are shared
// by every organisation, so writes also need the X-Admin-Key header. Weights
// that do not sum to 100 are accepted; the response flags them.
func (s *Server) handlePutWeighting(w http.ResponseWriter, r *http.Request) {
	if !s.isAdmin(r) {
		respondErr(w, http.StatusForbidden, "sector weightings are read-only for this key")
		return
	}

	sector, err := url.PathUnescape(chi.URLParam(r, "sector"))
	if err != nil || strings.TrimSpace(sector) == "" {
		respondErr(w, http.StatusBadRequest, "invalid sector")
		return
	}

	var req putWeightingRequest
	if !decode(w, r, &req) {
		return
	}

	sw := scoring.SectorWeighting{Sector: strings.TrimSpace(sector), Weights: req.Weights}
	if err := sw.Validate(); err != nil {
		respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := s.q.UpsertSectorWeighting(r.Context(), store.WeightingParams(sw))
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("upsert sector weighting: %w", err))
		return
	}

	s.logger.Info("sector weighting updated",
		"sector", row.Sector,
		"organisation_id", orgFrom(r).ID,
		logField(r),
	)

	respond(w, http.StatusOK, weightingResponse{
		Sector:    row.Sector,
		Weights:   sw.Weights,
		SumsTo100: sw.SumsTo100(),
		UpdatedAt: formatTime(row.UpdatedAt),
	})
}

// isAdmin compares X-Admin-Key against cfg.AdminKey in constant time.
func (s *Server) isAdmin(r *http.Request) bool {
	if s.cfg.AdminKey == "" {
		return false
	}
	got := r.Header.Get("X-Admin-Key")
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.AdminKey)) == 1
}
