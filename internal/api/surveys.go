package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

// surveyResponse flattens db.SurveyReport for the surveyor-facing API.
type surveyResponse struct {
	ID                 string   `json:"id"`
	Status             string   `json:"status"`
	ClientName         string   `json:"client_name"`
	ClientEmail        string   `json:"client_email,omitempty"`
	SiteName           string   `json:"site_name"`
	SiteAddress        string   `json:"site_address,omitempty"`
	Sector             string   `json:"sector"`
	SiteCombustibility *float64 `json:"site_combustibility"`
	OverallScore       *float64 `json:"overall_score"`
	RiskBand           string   `json:"risk_band,omitempty"`
	ErrorMessage       string   `json:"error_message,omitempty"`
	// ReportURL is set once the survey has been issued.
	ReportURL string `json:"report_url,omitempty"`
	IssuedAt  string `json:"issued_at,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func nullFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func (s *Server) toSurveyResponse(row db.SurveyReport) surveyResponse {
	resp := surveyResponse{
		ID:                 row.ID.String(),
		Status:             string(row.Status),
		ClientName:         row.ClientName,
		ClientEmail:        row.ClientEmail.String,
		SiteName:           row.SiteName,
		SiteAddress:        row.SiteAddress.String,
		Sector:             row.Sector,
		SiteCombustibility: nullFloat(row.SiteCombustibility),
		OverallScore:       nullFloat(row.OverallScore),
		RiskBand:           row.RiskBand.String,
		ErrorMessage:       row.ErrorMessage.String,
		CreatedAt:          formatTime(row.CreatedAt),
		UpdatedAt:          formatTime(row.UpdatedAt),
	}
	if row.IssuedAt.Valid {
		resp.IssuedAt = formatTime(row.IssuedAt.Time)
	}
	if row.Status == db.SurveyStatusIssued {
		resp.ReportURL = strings.TrimRight(s.cfg.BaseURL, "/") + "/report/" + row.AccessToken
	}
	return resp
}

// ─── POST /api/surveys ────────────────────────────────────────────────────────

type createSurveyRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	SiteName    string `json:"site_name"`
	SiteAddress string `json:"site_address"`
	// Sector selects the sector_weightings row; empty means Default.
	Sector string `json:"sector"`
}

// handleCreateSurvey opens a draft survey. The plan-tier quota is enforced by
// store.CreateSurvey inside its transaction.
func (s *Server) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	org := orgFrom(r)

	var req createSurveyRequest
	if !decode(w, r, &req) {
		return
	}

	req.ClientName = strings.TrimSpace(req.ClientName)
	req.SiteName = strings.TrimSpace(req.SiteName)
	req.ClientEmail = strings.TrimSpace(req.ClientEmail)

	if req.ClientName == "" || req.SiteName == "" {
		respondErr(w, http.StatusBadRequest, "client_name and site_name are required")
		return
	}
	if req.ClientEmail != "" {
		if _, err := mail.ParseAddress(req.ClientEmail); err != nil {
			respondErr(w, http.StatusBadRequest, "client_email is not a valid address")
			return
		}
	}

	created, err := s.store.CreateSurvey(r.Context(), store.CreateSurveyParams{
		OrganisationID: org.ID,
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		SiteName:       req.SiteName,
		SiteAddress:    strings.TrimSpace(req.SiteAddress),
		Sector:         strings.TrimSpace(req.Sector),
	})
	if errors.Is(err, store.ErrPlanLimitReached) {
		respondErr(w, http.StatusPaymentRequired, "survey limit reached for plan "+string(org.PlanTier))
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create survey: %w", err))
		return
	}

	respond(w, http.StatusCreated, s.toSurveyResponse(created))
}

// ─── GET /api/surveys ─────────────────────────────────────────────────────────

func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	rows, err := s.q.ListSurveysByOrganisation(r.Context(), orgFrom(r).ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list surveys: %w", err))
		return
	}

	out := make([]surveyResponse, len(rows))
	for i, row := range rows {
		out[i] = s.toSurveyResponse(row)
	}
	respond(w, http.StatusOK, map[string]any{"surveys": out})
}

// ─── GET /api/surveys/:surveyID ───────────────────────────────────────────────

type surveyDetailResponse struct {
	surveyResponse
	Buildings any              `json:"buildings"`
	Modules   []moduleResponse `json:"modules"`
}

func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	row := surveyFrom(r)

	buildings, err := survey.DecodeBuildings(row.Buildings)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	modules, err := s.q.ListModuleInstancesBySurvey(r.Context(), row.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list modules: %w", err))
		return
	}

	resp := surveyDetailResponse{
		surveyResponse: s.toSurveyResponse(row),
		Buildings:      buildings,
		Modules:        make([]moduleResponse, len(modules)),
	}
	if buildings == nil {
		resp.Buildings = []any{}
	}
	for i, m := range modules {
		resp.Modules[i] = toModuleResponse(m)
	}
	respond(w, http.StatusOK, resp)
}

// ─── GET /api/surveys/:surveyID/score ─────────────────────────────────────────

// handleGetSurveyScore recomputes combustibility, the sector assessment and
// actions from the current draft without persisting anything.
func (s *Server) handleGetSurveyScore(w http.ResponseWriter, r *http.Request) {
	_, in, err := survey.Load(r.Context(), s.q, surveyFrom(r).ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, survey.Evaluate(in))
}

// ─── POST /api/surveys/:surveyID/issue ────────────────────────────────────────

// handleIssueSurvey marks the survey pending and hands it to the worker. A
// survey that is already pending returns 409. Issued or failed surveys may be
// re-issued; the worker replaces their scores and actions.
func (s *Server) handleIssueSurvey(w http.ResponseWriter, r *http.Request) {
	row := surveyFrom(r)

	modules, err := s.q.ListModuleInstancesBySurvey(r.Context(), row.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list modules: %w", err))
		return
	}
	buildings, err := survey.DecodeBuildings(row.Buildings)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	if len(modules) == 0 && len(buildings) == 0 {
		respondErr(w, http.StatusUnprocessableEntity, "survey has no buildings or modules to score")
		return
	}

	pending, err := s.q.SetSurveyPending(r.Context(), row.ID)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusConflict, "survey is already being issued")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("set survey pending: %w", err))
		return
	}

	if err := s.worker.Enqueue(r.Context(), pending.ID); err != nil {
		// Queue full; the poller will pick it up.
		s.logger.Warn("issue: enqueue failed, will be picked up by poller",
			"survey_id", pending.ID,
			"error", err,
			logField(r),
		)
	}

	respond(w, http.StatusAccepted, s.toSurveyResponse(pending))
}
