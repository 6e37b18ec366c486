package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
)

// apiKeyPrefix marks organisation keys so they are recognisable in logs and
// secret scanners.
const apiKeyPrefix = "prs_"

var hexColour = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// organisationResponse is the public shape of an organisation. The API key is
// only included on creation.
type organisationResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PlanTier     string `json:"plan_tier"`
	PendingPlan  string `json:"pending_plan,omitempty"`
	BrandColour  string `json:"brand_colour,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	ReportFooter string `json:"report_footer,omitempty"`
	// SurveyQuota is nil for unlimited tiers.
	SurveyQuota *int64 `json:"survey_quota"`
	APIKey      string `json:"api_key,omitempty"`
}

func toOrganisationResponse(org db.Organisation) organisationResponse {
	resp := organisationResponse{
		ID:           org.ID.String(),
		Name:         org.Name,
		PlanTier:     string(org.PlanTier),
		BrandColour:  org.BrandColour.String,
		LogoURL:      org.LogoUrl.String,
		ReportFooter: org.ReportFooter.String,
	}
	if org.PendingPlan.Valid {
		resp.PendingPlan = string(org.PendingPlan.PlanTier)
	}
	if limit, ok := store.SurveyQuota(org.PlanTier); ok {
		resp.SurveyQuota = &limit
	}
	return resp
}

// ─── POST /api/organisations ──────────────────────────────────────────────────

type createOrganisationRequest struct {
	Name string `json:"name"`
}

// handleCreateOrganisation signs up a new organisation on the free tier. The
// generated API key is returned once; it is sent as X-Org-Key on every
// organisation-scoped request.
func (s *Server) handleCreateOrganisation(w http.ResponseWriter, r *http.Request) {
	var req createOrganisationRequest
	if !decode(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		respondErr(w, http.StatusBadRequest, "name is required")
		return
	}

	// 32 bytes → 64 hex chars.
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("generate api key: %w", err))
		return
	}
	apiKey := apiKeyPrefix + hex.EncodeToString(keyBytes)

	org, err := s.q.CreateOrganisation(r.Context(), db.CreateOrganisationParams{
		Name:   name,
		ApiKey: apiKey,
	})
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("create organisation: %w", err))
		return
	}

	s.logger.Info("organisation created", "organisation_id", org.ID, logField(r))

	resp := toOrganisationResponse(org)
	resp.APIKey = org.ApiKey
	respond(w, http.StatusCreated, resp)
}

// ─── GET /api/org ─────────────────────────────────────────────────────────────

func (s *Server) handleGetOrganisation(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, toOrganisationResponse(orgFrom(r)))
}

// ─── PATCH /api/org ───────────────────────────────────────────────────────────

// updateOrganisationRequest uses pointer fields so omitted keys keep their
// current value and an explicit "" clears an optional field.
type updateOrganisationRequest struct {
	Name         *string `json:"name"`
	BrandColour  *string `json:"brand_colour"`
	LogoURL      *string `json:"logo_url"`
	ReportFooter *string `json:"report_footer"`
}

// handleUpdateOrganisation updates the branding shown on issued reports.
func (s *Server) handleUpdateOrganisation(w http.ResponseWriter, r *http.Request) {
	org := orgFrom(r)

	var req updateOrganisationRequest
	if !decode(w, r, &req) {
		return
	}

	params := db.UpdateOrganisationBrandingParams{
		ID:           org.ID,
		Name:         org.Name,
		BrandColour:  org.BrandColour,
		LogoUrl:      org.LogoUrl,
		ReportFooter: org.ReportFooter,
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondErr(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		params.Name = name
	}
	if req.BrandColour != nil {
		c := strings.TrimSpace(*req.BrandColour)
		if c != "" && !hexColour.MatchString(c) {
			respondErr(w, http.StatusBadRequest, "brand_colour must be a #rrggbb hex colour")
			return
		}
		params.BrandColour = nullString(c)
	}
	if req.LogoURL != nil {
		u := strings.TrimSpace(*req.LogoURL)
		if u != "" && !strings.HasPrefix(u, "https://") {
			respondErr(w, http.StatusBadRequest, "logo_url must be an https URL")
			return
		}
		params.LogoUrl = nullString(u)
	}
	if req.ReportFooter != nil {
		if len(*req.ReportFooter) > 500 {
			respondErr(w, http.StatusBadRequest, "report_footer is too long (max 500)")
			return
		}
		params.ReportFooter = nullString(strings.TrimSpace(*req.ReportFooter))
	}

	updated, err := s.q.UpdateOrganisationBranding(r.Context(), params)
	if err != nil {
		s.respondInternalErr(w, r, fmt.Errorf("update organisation branding: %w", err))
		return
	}

	respond(w, http.StatusOK, toOrganisationResponse(updated))
}
