package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
)

// ─── GET /api/report/:accessToken ────────────────────────────────────────────

// reportActionResponse is the per-action shape on the client report. The AI
// commentary is omitted when the narrator was unavailable.
type reportActionResponse struct {
	Priority   string `json:"priority"`
	ModuleKey  string `json:"module_key"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Reason     string `json:"reason"`
	Commentary string `json:"commentary,omitempty"`
}

type reportBrandingResponse struct {
	OrganisationName string `json:"organisation_name"`
	BrandColour      string `json:"brand_colour,omitempty"`
	LogoURL          string `json:"logo_url,omitempty"`
	ReportFooter     string `json:"report_footer,omitempty"`
}

type reportResponse struct {
	SurveyID           string                   `json:"survey_id"`
	Status             string                   `json:"status"`
	ClientName         string                   `json:"client_name"`
	SiteName           string                   `json:"site_name"`
	SiteAddress        string                   `json:"site_address,omitempty"`
	Sector             string                   `json:"sector"`
	Branding           reportBrandingResponse   `json:"branding"`
	SiteCombustibility *float64                 `json:"site_combustibility"`
	OverallScore       *float64                 `json:"overall_score"`
	RiskBand           string                   `json:"risk_band,omitempty"`
	Assessment         *scoring.Assessment      `json:"assessment,omitempty"`
	ExecutiveSummary   string                   `json:"executive_summary,omitempty"`
	Actions            []reportActionResponse   `json:"actions"`
	ActionCounts       recommend.PriorityCounts `json:"action_counts"`
	IssuedAt           string                   `json:"issued_at,omitempty"`
}

// handleGetReport serves an issued survey report to the surveyor's client.
// The access token is an opaque 24-byte base64url string stored on the
// survey row; the client receives the link by email.
//
// Returns 404 for an unknown token and 202 Accepted while the survey is not
// issued so the frontend can poll.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	accessToken := chi.URLParam(r, "accessToken")
	if accessToken == "" {
		respondErr(w, http.StatusBadRequest, "missing access token")
		return
	}

	row, err := s.q.GetSurveyByAccessToken(r.Context(), accessToken)
	if errors.Is(err, sql.ErrNoRows) {
		respondErr(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("get survey by access token: %w", err))
		return
	}

	if row.Status != db.SurveyStatusIssued {
		respond(w, http.StatusAccepted, map[string]string{
			"status":  string(row.Status),
			"message": "report is not yet issued, please check back shortly",
		})
		return
	}

	// Read from the actions table rather than the assessment snapshot so the
	// response carries the AI commentary written alongside each action.
	rows, err := s.q.ListActionsBySurvey(r.Context(), row.ID)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("list actions: %w", err))
		return
	}

	actions := make([]reportActionResponse, len(rows))
	counted := make([]recommend.Action, len(rows))
	for i, a := range rows {
		actions[i] = reportActionResponse{
			Priority:   string(a.Priority),
			ModuleKey:  a.ModuleKey,
			Title:      a.Title,
			Body:       a.Body,
			Reason:     a.Reason,
			Commentary: a.AiCommentary.String,
		}
		counted[i] = recommend.Action{Priority: recommend.Priority(a.Priority)}
	}

	resp := reportResponse{
		SurveyID:    row.ID.String(),
		Status:      string(row.Status),
		ClientName:  row.ClientName,
		SiteName:    row.SiteName,
		SiteAddress: row.SiteAddress.String,
		Sector:      row.Sector,
		Branding: reportBrandingResponse{
			OrganisationName: row.OrganisationName,
			BrandColour:      row.BrandColour.String,
			LogoURL:          row.LogoUrl.String,
			ReportFooter:     row.ReportFooter.String,
		},
		SiteCombustibility: nullFloat(row.SiteCombustibility),
		OverallScore:       nullFloat(row.OverallScore),
		RiskBand:           row.RiskBand.String,
		ExecutiveSummary:   row.AiSummary.String,
		Actions:            actions,
		ActionCounts:       recommend.Summarise(counted),
	}
	if row.IssuedAt.Valid {
		resp.IssuedAt = formatTime(row.IssuedAt.Time)
	}
	if row.AssessmentJson.Valid {
		var a scoring.Assessment
		if err := json.Unmarshal(row.AssessmentJson.RawMessage, &a); err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("decode assessment: %w", err))
			return
		}
		resp.Assessment = &a
	}

	respond(w, http.StatusOK, resp)
}
