package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nyashahama/property-risk-survey-backend/internal/combustibility"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
	"github.com/sqlc-dev/pqtype"
)

// maxModulesPerRequest caps a single modules batch.
const maxModulesPerRequest = 100

// rejectWhilePending writes 409 and returns true when the worker owns the
// survey. Edits are allowed again once it is issued or failed.
func rejectWhilePending(w http.ResponseWriter, row db.SurveyReport) bool {
	if row.Status == db.SurveyStatusPending {
		respondErr(w, http.StatusConflict, "survey is being issued; try again once it completes")
		return true
	}
	return false
}

// ─── PUT /api/surveys/:surveyID/buildings ─────────────────────────────────────

type putBuildingsRequest struct {
	Buildings []combustibility.Building `json:"buildings"`
}

// handlePutBuildings replaces the survey's building list and returns the
// recomputed site combustibility with any percentage warnings. Warnings never
// block the save.
func (s *Server) handlePutBuildings(w http.ResponseWriter, r *http.Request) {
	row := surveyFrom(r)
	if rejectWhilePending(w, row) {
		return
	}

	var req putBuildingsRequest
	if !decode(w, r, &req) {
		return
	}
	if msg := validateBuildings(req.Buildings); msg != "" {
		respondErr(w, http.StatusBadRequest, msg)
		return
	}

	raw, err := survey.EncodeBuildings(req.Buildings)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	resp := combustibilityFor(req.Buildings)
	site := sql.NullFloat64{Float64: resp.Combustibility.Score, Valid: resp.Combustibility.OK}

	if _, err := s.q.UpdateSurveyBuildings(r.Context(), db.UpdateSurveyBuildingsParams{
		ID:                 row.ID,
		Buildings:          raw,
		SiteCombustibility: site,
	}); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("update survey buildings: %w", err))
		return
	}

	respond(w, http.StatusOK, resp)
}

// ─── PUT /api/surveys/:surveyID/modules ───────────────────────────────────────
//
// Accepts a batch of module results and upserts them by module key. The form
// may send the full set or a partial batch; replaying a payload is safe.

type moduleInput struct {
	ModuleKey string          `json:"module_key"`
	Outcome   string          `json:"outcome"`
	Rating    *int            `json:"rating,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type upsertModulesRequest struct {
	Modules []moduleInput `json:"modules"`
}

type upsertModulesResponse struct {
	Upserted int `json:"upserted"`
}

type moduleResponse struct {
	ID        string          `json:"id"`
	ModuleKey string          `json:"module_key"`
	Outcome   string          `json:"outcome"`
	Rating    *int            `json:"rating"`
	Notes     string          `json:"notes,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	UpdatedAt string          `json:"updated_at"`
}

func toModuleResponse(m db.ModuleInstance) moduleResponse {
	resp := moduleResponse{
		ID:        m.ID.String(),
		ModuleKey: m.ModuleKey,
		Outcome:   string(m.Outcome),
		Notes:     m.Notes.String,
		UpdatedAt: formatTime(m.UpdatedAt),
	}
	if m.Rating.Valid {
		v := int(m.Rating.Int16)
		resp.Rating = &v
	}
	if m.Data.Valid {
		resp.Data = m.Data.RawMessage
	}
	return resp
}

// validateModule returns a client-facing message, or "" when m is valid.
func validateModule(m moduleInput) string {
	if strings.TrimSpace(m.ModuleKey) == "" {
		return "each module must have a non-empty module_key"
	}
	if !scoring.Outcome(m.Outcome).Valid() {
		return fmt.Sprintf("module %q: unknown outcome %q", m.ModuleKey, m.Outcome)
	}
	if m.Rating != nil && (*m.Rating < recommend.MinRating || *m.Rating > recommend.MaxRating) {
		return fmt.Sprintf("module %q: rating must be between %d and %d",
			m.ModuleKey, recommend.MinRating, recommend.MaxRating)
	}
	if len(m.Data) > 0 && !json.Valid(m.Data) {
		return fmt.Sprintf("module %q: data is not valid JSON", m.ModuleKey)
	}
	return ""
}

// handleUpsertModules batch-upserts module results for a survey. The whole
// batch is validated before anything is written; each upsert is independent
// after that, so a retry of the full batch is the recovery path on a 500.
func (s *Server) handleUpsertModules(w http.ResponseWriter, r *http.Request) {
	row := surveyFrom(r)
	if rejectWhilePending(w, row) {
		return
	}

	var req upsertModulesRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Modules) == 0 {
		respondErr(w, http.StatusBadRequest, "modules must not be empty")
		return
	}
	if len(req.Modules) > maxModulesPerRequest {
		respondErr(w, http.StatusBadRequest,
			fmt.Sprintf("too many modules in a single request (max %d)", maxModulesPerRequest))
		return
	}
	for _, m := range req.Modules {
		if msg := validateModule(m); msg != "" {
			respondErr(w, http.StatusBadRequest, msg)
			return
		}
	}

	upserted := 0
	for _, m := range req.Modules {
		params := db.UpsertModuleInstanceParams{
			SurveyID:  row.ID,
			ModuleKey: strings.TrimSpace(m.ModuleKey),
			Outcome:   db.ModuleOutcome(m.Outcome),
			Notes:     nullString(m.Notes),
		}
		if m.Rating != nil {
			params.Rating = sql.NullInt16{Int16: int16(*m.Rating), Valid: true}
		}
		if len(m.Data) > 0 {
			params.Data = pqtype.NullRawMessage{RawMessage: m.Data, Valid: true}
		}

		if _, err := s.q.UpsertModuleInstance(r.Context(), params); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("upsert module %q: %w", m.ModuleKey, err))
			return
		}
		upserted++
	}

	respond(w, http.StatusOK, upsertModulesResponse{Upserted: upserted})
}
