package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/api"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/email"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	stripeinternal "github.com/nyashahama/property-risk-survey-backend/internal/stripe"
	"github.com/sqlc-dev/pqtype"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

// stubQuerier satisfies db.Querier with in-memory state.
// Fields may be set per-test to control behaviour.
type stubQuerier struct {
	db.Querier // embedded to panic on unimplemented methods

	orgs       map[string]db.Organisation // keyed by api_key
	orgsByID   map[uuid.UUID]db.Organisation
	surveys    map[uuid.UUID]db.SurveyReport
	modules    map[uuid.UUID][]db.ModuleInstance
	weightings []db.SectorWeighting
	templates  []db.RecommendationTemplate
	reports    map[string]db.GetSurveyByAccessTokenRow // keyed by access_token
	actions    map[uuid.UUID][]db.Action
	events     map[string]db.StripeEvent

	upsertModuleErr error
	setPendingErr   error
	cleared         []string
	processed       []string
	failed          []string
	upsertedWeights []db.UpsertSectorWeightingParams
}

func newStubQuerier() *stubQuerier {
	return &stubQuerier{
		orgs:     make(map[string]db.Organisation),
		orgsByID: make(map[uuid.UUID]db.Organisation),
		surveys:  make(map[uuid.UUID]db.SurveyReport),
		modules:  make(map[uuid.UUID][]db.ModuleInstance),
		reports:  make(map[string]db.GetSurveyByAccessTokenRow),
		actions:  make(map[uuid.UUID][]db.Action),
		events:   make(map[string]db.StripeEvent),
	}
}

func (q *stubQuerier) addOrg(org db.Organisation) {
	q.orgs[org.ApiKey] = org
	q.orgsByID[org.ID] = org
}

func (q *stubQuerier) CreateOrganisation(_ context.Context, p db.CreateOrganisationParams) (db.Organisation, error) {
	org := db.Organisation{
		ID:        uuid.New(),
		Name:      p.Name,
		ApiKey:    p.ApiKey,
		PlanTier:  db.PlanTierFree,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	q.addOrg(org)
	return org, nil
}

func (q *stubQuerier) GetOrganisationByApiKey(_ context.Context, key string) (db.Organisation, error) {
	org, ok := q.orgs[key]
	if !ok {
		return db.Organisation{}, sql.ErrNoRows
	}
	return org, nil
}

func (q *stubQuerier) GetOrganisationByID(_ context.Context, id uuid.UUID) (db.Organisation, error) {
	org, ok := q.orgsByID[id]
	if !ok {
		return db.Organisation{}, sql.ErrNoRows
	}
	return org, nil
}

func (q *stubQuerier) GetOrganisationByPaymentIntent(_ context.Context, pi sql.NullString) (db.Organisation, error) {
	for _, org := range q.orgsByID {
		if org.StripePaymentIntent == pi {
			return org, nil
		}
	}
	return db.Organisation{}, sql.ErrNoRows
}

func (q *stubQuerier) UpdateOrganisationBranding(_ context.Context, p db.UpdateOrganisationBrandingParams) (db.Organisation, error) {
	org := q.orgsByID[p.ID]
	org.Name = p.Name
	org.BrandColour = p.BrandColour
	org.LogoUrl = p.LogoUrl
	org.ReportFooter = p.ReportFooter
	q.addOrg(org)
	return org, nil
}

func (q *stubQuerier) ClearPlanPaymentIntent(_ context.Context, pi sql.NullString) (db.Organisation, error) {
	q.cleared = append(q.cleared, pi.String)
	return db.Organisation{}, nil
}

func (q *stubQuerier) GetSurveyByID(_ context.Context, id uuid.UUID) (db.SurveyReport, error) {
	s, ok := q.surveys[id]
	if !ok {
		return db.SurveyReport{}, sql.ErrNoRows
	}
	return s, nil
}

func (q *stubQuerier) ListSurveysByOrganisation(_ context.Context, orgID uuid.UUID) ([]db.SurveyReport, error) {
	var out []db.SurveyReport
	for _, s := range q.surveys {
		if s.OrganisationID == orgID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (q *stubQuerier) UpdateSurveyBuildings(_ context.Context, p db.UpdateSurveyBuildingsParams) (db.SurveyReport, error) {
	s := q.surveys[p.ID]
	s.Buildings = p.Buildings
	s.SiteCombustibility = p.SiteCombustibility
	q.surveys[p.ID] = s
	return s, nil
}

func (q *stubQuerier) SetSurveyPending(_ context.Context, id uuid.UUID) (db.SurveyReport, error) {
	if q.setPendingErr != nil {
		return db.SurveyReport{}, q.setPendingErr
	}
	s := q.surveys[id]
	s.Status = db.SurveyStatusPending
	q.surveys[id] = s
	return s, nil
}

func (q *stubQuerier) ListModuleInstancesBySurvey(_ context.Context, id uuid.UUID) ([]db.ModuleInstance, error) {
	return q.modules[id], nil
}

func (q *stubQuerier) UpsertModuleInstance(_ context.Context, p db.UpsertModuleInstanceParams) (db.ModuleInstance, error) {
	if q.upsertModuleErr != nil {
		return db.ModuleInstance{}, q.upsertModuleErr
	}
	m := db.ModuleInstance{
		ID:        uuid.New(),
		SurveyID:  p.SurveyID,
		ModuleKey: p.ModuleKey,
		Outcome:   p.Outcome,
		Rating:    p.Rating,
		Notes:     p.Notes,
		Data:      p.Data,
	}
	q.modules[p.SurveyID] = append(q.modules[p.SurveyID], m)
	return m, nil
}

func (q *stubQuerier) ListSectorWeightings(_ context.Context) ([]db.SectorWeighting, error) {
	return q.weightings, nil
}

func (q *stubQuerier) UpsertSectorWeighting(_ context.Context, p db.UpsertSectorWeightingParams) (db.SectorWeighting, error) {
	q.upsertedWeights = append(q.upsertedWeights, p)
	return db.SectorWeighting{Sector: p.Sector, UpdatedAt: time.Now()}, nil
}

func (q *stubQuerier) ListActiveRecommendationTemplates(_ context.Context) ([]db.RecommendationTemplate, error) {
	return q.templates, nil
}

func (q *stubQuerier) GetSurveyByAccessToken(_ context.Context, token string) (db.GetSurveyByAccessTokenRow, error) {
	r, ok := q.reports[token]
	if !ok {
		return db.GetSurveyByAccessTokenRow{}, sql.ErrNoRows
	}
	return r, nil
}

func (q *stubQuerier) ListActionsBySurvey(_ context.Context, id uuid.UUID) ([]db.Action, error) {
	return q.actions[id], nil
}

func (q *stubQuerier) UpsertStripeEvent(_ context.Context, p db.UpsertStripeEventParams) (db.StripeEvent, error) {
	if ev, ok := q.events[p.StripeEventID]; ok {
		return ev, nil
	}
	ev := db.StripeEvent{ID: uuid.New(), StripeEventID: p.StripeEventID, Type: p.Type, Payload: p.Payload}
	q.events[p.StripeEventID] = ev
	return ev, nil
}

func (q *stubQuerier) MarkStripeEventProcessed(_ context.Context, id string) (db.StripeEvent, error) {
	q.processed = append(q.processed, id)
	return db.StripeEvent{}, nil
}

func (q *stubQuerier) MarkStripeEventFailed(_ context.Context, p db.MarkStripeEventFailedParams) (db.StripeEvent, error) {
	q.failed = append(q.failed, p.StripeEventID)
	return db.StripeEvent{}, nil
}

// stubStore satisfies api.Store.
type stubStore struct {
	created   []store.CreateSurveyParams
	createErr error

	attached  []store.AttachPlanPaymentIntentParams
	attachErr error

	applied  []string
	applyOrg db.Organisation
	applyErr error
}

func (s *stubStore) CreateSurvey(_ context.Context, p store.CreateSurveyParams) (db.SurveyReport, error) {
	if s.createErr != nil {
		return db.SurveyReport{}, s.createErr
	}
	s.created = append(s.created, p)
	return db.SurveyReport{
		ID:             uuid.New(),
		OrganisationID: p.OrganisationID,
		ClientName:     p.ClientName,
		SiteName:       p.SiteName,
		Sector:         "Default",
		Status:         db.SurveyStatusDraft,
	}, nil
}

func (s *stubStore) AttachPlanPaymentIntent(_ context.Context, p store.AttachPlanPaymentIntentParams) (db.Organisation, error) {
	s.attached = append(s.attached, p)
	return db.Organisation{}, s.attachErr
}

func (s *stubStore) ApplyPlanPurchase(_ context.Context, pi string) (db.Organisation, error) {
	s.applied = append(s.applied, pi)
	return s.applyOrg, s.applyErr
}

type stubStripe struct {
	pi           stripeinternal.PaymentIntent
	createErr    error
	created      []stripeinternal.CreatePaymentIntentParams
	clientSecret string
	secretErr    error
	event        stripeinternal.Event
	verifyErr    error
}

func (s *stubStripe) CreatePaymentIntent(_ context.Context, p stripeinternal.CreatePaymentIntentParams) (stripeinternal.PaymentIntent, error) {
	s.created = append(s.created, p)
	return s.pi, s.createErr
}

func (s *stubStripe) GetClientSecret(_ context.Context, _ string) (string, error) {
	return s.clientSecret, s.secretErr
}

func (s *stubStripe) VerifyWebhook(_ []byte, _ string, _ string) (stripeinternal.Event, error) {
	return s.event, s.verifyErr
}

type stubWorker struct {
	enqueued []uuid.UUID
	err      error
}

func (w *stubWorker) Enqueue(_ context.Context, id uuid.UUID) error {
	w.enqueued = append(w.enqueued, id)
	return w.err
}

type stubMailer struct {
	receipts []email.PlanReceiptParams
}

func (m *stubMailer) SendReportReady(_ context.Context, _ email.ReportReadyParams) error {
	return nil
}

func (m *stubMailer) SendPlanReceipt(_ context.Context, p email.PlanReceiptParams) error {
	m.receipts = append(m.receipts, p)
	return nil
}

// ─── HELPERS ─────────────────────────────────────────────────────────────────

const (
	testOrgKey   = "prs_test"
	testAdminKey = "admin_test"
)

type testDeps struct {
	q       *stubQuerier
	store   *stubStore
	stripe  *stubStripe
	worker  *stubWorker
	mailer  *stubMailer
	org     db.Organisation
	handler http.Handler
}

func newTestServer(t *testing.T, cfgOverrides ...func(*api.Config)) *testDeps {
	t.Helper()

	q := newStubQuerier()
	org := db.Organisation{
		ID:       uuid.New(),
		Name:     "Northern Risk Engineers",
		ApiKey:   testOrgKey,
		PlanTier: db.PlanTierFree,
	}
	q.addOrg(org)

	st := &stubStore{}
	strp := &stubStripe{
		pi:           stripeinternal.PaymentIntent{ID: "pi_test", ClientSecret: "cs_test", CustomerID: "cus_test"},
		clientSecret: "cs_existing",
	}
	wk := &stubWorker{}
	ml := &stubMailer{}

	cfg := api.Config{
		Env:                 "development",
		BaseURL:             "http://localhost:3000",
		StripeWebhookSecret: "whsec_test",
		AdminKey:            testAdminKey,
	}
	for _, fn := range cfgOverrides {
		fn(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := api.NewServer(q, st, strp, wk, ml, cfg, logger)

	return &testDeps{
		q:       q,
		store:   st,
		stripe:  strp,
		worker:  wk,
		mailer:  ml,
		org:     org,
		handler: handler,
	}
}

// orgHeaders authenticates as the default test organisation.
func orgHeaders() map[string]string {
	return map[string]string{"X-Org-Key": testOrgKey}
}

// addSurvey stores a draft survey owned by org and returns its id.
func (d *testDeps) addSurvey(orgID uuid.UUID) uuid.UUID {
	id := uuid.New()
	d.q.surveys[id] = db.SurveyReport{
		ID:             id,
		OrganisationID: orgID,
		ClientName:     "Acme Foods",
		SiteName:       "Depot 4",
		Sector:         "Default",
		Status:         db.SurveyStatusDraft,
		AccessToken:    "tok_" + id.String()[:8],
	}
	return id
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v (raw: %s)", err, rr.Body.String())
	}
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rr.Code, rr.Body.String())
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ─── GET /healthz ─────────────────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	expectStatus(t, rr, http.StatusOK)
}

// ─── POST /api/organisations ──────────────────────────────────────────────────

func TestCreateOrganisation_ReturnsAPIKey(t *testing.T) {
	deps := newTestServer(t)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/organisations",
		map[string]string{"name": "  Southern Surveys  "}, nil)
	expectStatus(t, rr, http.StatusCreated)

	var resp struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		PlanTier string `json:"plan_tier"`
		APIKey   string `json:"api_key"`
	}
	decodeJSON(t, rr, &resp)

	if resp.Name != "Southern Surveys" {
		t.Errorf("name = %q", resp.Name)
	}
	if resp.PlanTier != "free" {
		t.Errorf("plan_tier = %q", resp.PlanTier)
	}
	if !strings.HasPrefix(resp.APIKey, "prs_") || len(resp.APIKey) != len("prs_")+64 {
		t.Errorf("unexpected api key %q", resp.APIKey)
	}
	if _, ok := deps.q.orgs[resp.APIKey]; !ok {
		t.Error("organisation was not stored under its key")
	}
}

func TestCreateOrganisation_EmptyNameReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/organisations",
		map[string]string{"name": " "}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCreateOrganisation_UnknownFieldsReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/organisations",
		map[string]string{"name": "x", "plan_tier": "enterprise"}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

// ─── ORG KEY AUTH ─────────────────────────────────────────────────────────────

func TestOrgRoutes_MissingKeyReturns401(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/org", nil, nil)
	expectStatus(t, rr, http.StatusUnauthorized)
}

func TestOrgRoutes_UnknownKeyReturns401(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/surveys", nil,
		map[string]string{"X-Org-Key": "prs_nope"})
	expectStatus(t, rr, http.StatusUnauthorized)
}

// ─── /api/org ─────────────────────────────────────────────────────────────────

func TestGetOrganisation_IncludesQuotaButNotKey(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/org", nil, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp map[string]any
	decodeJSON(t, rr, &resp)
	if resp["survey_quota"] != float64(3) {
		t.Errorf("survey_quota = %v, want 3", resp["survey_quota"])
	}
	if _, ok := resp["api_key"]; ok {
		t.Error("api_key must not be returned after creation")
	}
}

func TestUpdateOrganisation_InvalidColourReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPatch, "/api/org",
		map[string]string{"brand_colour": "red"}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestUpdateOrganisation_PartialUpdateKeepsOtherFields(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPatch, "/api/org",
		map[string]string{"brand_colour": "#C0FFEE", "report_footer": "Confidential"}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	org := deps.q.orgsByID[deps.org.ID]
	if org.Name != "Northern Risk Engineers" {
		t.Errorf("name changed to %q", org.Name)
	}
	if org.BrandColour.String != "#C0FFEE" || org.ReportFooter.String != "Confidential" {
		t.Errorf("branding not saved: %+v", org)
	}
}

// ─── POST /api/surveys ────────────────────────────────────────────────────────

func TestCreateSurvey_MissingFieldsReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys",
		map[string]string{"client_name": "Acme"}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCreateSurvey_InvalidEmailReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys", map[string]string{
		"client_name":  "Acme",
		"site_name":    "Depot",
		"client_email": "not-an-email",
	}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCreateSurvey_PlanLimitReturns402(t *testing.T) {
	deps := newTestServer(t)
	deps.store.createErr = store.ErrPlanLimitReached

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys",
		map[string]string{"client_name": "Acme", "site_name": "Depot"}, orgHeaders())
	expectStatus(t, rr, http.StatusPaymentRequired)
}

func TestCreateSurvey_ValidRequestScopedToOrganisation(t *testing.T) {
	deps := newTestServer(t)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys", map[string]string{
		"client_name":  "Acme Foods",
		"client_email": "risk@acme.test",
		"site_name":    "Depot 4",
		"sector":       "Warehousing",
	}, orgHeaders())
	expectStatus(t, rr, http.StatusCreated)

	if len(deps.store.created) != 1 {
		t.Fatalf("expected 1 CreateSurvey call, got %d", len(deps.store.created))
	}
	p := deps.store.created[0]
	if p.OrganisationID != deps.org.ID || p.Sector != "Warehousing" || p.ClientEmail != "risk@acme.test" {
		t.Errorf("unexpected params: %+v", p)
	}

	var resp map[string]any
	decodeJSON(t, rr, &resp)
	if resp["status"] != "draft" {
		t.Errorf("status = %v", resp["status"])
	}
	if _, ok := resp["report_url"]; ok {
		t.Error("draft survey must not expose a report url")
	}
}

// ─── GET /api/surveys ─────────────────────────────────────────────────────────

func TestListSurveys_OnlyOwnSurveys(t *testing.T) {
	deps := newTestServer(t)
	deps.addSurvey(deps.org.ID)
	deps.addSurvey(uuid.New())

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/surveys", nil, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Surveys []map[string]any `json:"surveys"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Surveys) != 1 {
		t.Errorf("expected 1 survey, got %d", len(resp.Surveys))
	}
}

// ─── GET /api/surveys/:surveyID ───────────────────────────────────────────────

func TestGetSurvey_InvalidIDReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/surveys/not-a-uuid", nil, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestGetSurvey_OtherOrganisationReturns404(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(uuid.New())

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/surveys/"+id.String(), nil, orgHeaders())
	expectStatus(t, rr, http.StatusNotFound)
}

func TestGetSurvey_ReturnsModulesAndBuildings(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	deps.q.modules[id] = []db.ModuleInstance{
		{ID: uuid.New(), SurveyID: id, ModuleKey: "sprinklers", Outcome: db.ModuleOutcomeCompliant,
			Rating: sql.NullInt16{Int16: 4, Valid: true}},
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/surveys/"+id.String(), nil, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		ID        string `json:"id"`
		Buildings []any  `json:"buildings"`
		Modules   []struct {
			ModuleKey string `json:"module_key"`
			Rating    *int   `json:"rating"`
		} `json:"modules"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ID != id.String() {
		t.Errorf("id = %q", resp.ID)
	}
	if resp.Buildings == nil || len(resp.Buildings) != 0 {
		t.Errorf("buildings should be an empty list, got %v", resp.Buildings)
	}
	if len(resp.Modules) != 1 || resp.Modules[0].Rating == nil || *resp.Modules[0].Rating != 4 {
		t.Errorf("modules = %+v", resp.Modules)
	}
}

// ─── PUT /api/surveys/:surveyID/buildings ─────────────────────────────────────

func building(id string, walls, roof map[string]float64) map[string]any {
	return map[string]any{
		"id":         id,
		"floor_area": 100,
		"construction": map[string]any{
			"walls":        walls,
			"roof_ceiling": roof,
		},
	}
}

func TestPutBuildings_DuplicateIDReturns400(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)

	b := building("b1", map[string]float64{"heavy_noncombustible": 100}, map[string]float64{"heavy_noncombustible": 100})
	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/buildings",
		map[string]any{"buildings": []any{b, b}}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestPutBuildings_StoresScoreAndReturnsWarnings(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)

	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/buildings",
		map[string]any{"buildings": []any{
			building("b1",
				map[string]float64{"other_combustible": 100},
				map[string]float64{"heavy_noncombustible": 90}, // totals 90 → warning
			),
		}}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Combustibility struct {
			Score float64 `json:"score"`
			OK    bool    `json:"ok"`
		} `json:"combustibility"`
		Warnings []struct {
			Surface string `json:"surface"`
		} `json:"warnings"`
	}
	decodeJSON(t, rr, &resp)

	// walls 100, roof 0 → wall weight 0.4
	if !resp.Combustibility.OK || !approx(resp.Combustibility.Score, 40) {
		t.Errorf("combustibility = %+v", resp.Combustibility)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Surface != "roof_ceiling" {
		t.Errorf("warnings = %+v", resp.Warnings)
	}

	saved := deps.q.surveys[id]
	if !saved.Buildings.Valid || !saved.SiteCombustibility.Valid || !approx(saved.SiteCombustibility.Float64, 40) {
		t.Errorf("buildings not persisted: %+v", saved)
	}
}

func TestPutBuildings_EmptyListClearsScore(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)

	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/buildings",
		map[string]any{"buildings": []any{}}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	if deps.q.surveys[id].SiteCombustibility.Valid {
		t.Error("an empty site must store a NULL combustibility")
	}
}

func TestPutBuildings_PendingSurveyReturns409(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	s := deps.q.surveys[id]
	s.Status = db.SurveyStatusPending
	deps.q.surveys[id] = s

	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/buildings",
		map[string]any{"buildings": []any{}}, orgHeaders())
	expectStatus(t, rr, http.StatusConflict)
}

// ─── PUT /api/surveys/:surveyID/modules ───────────────────────────────────────

func TestUpsertModules_EmptyBatchReturns400(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/modules",
		map[string]any{"modules": []any{}}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestUpsertModules_Over100ItemsReturns400(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)

	mods := make([]map[string]any, 101)
	for i := range mods {
		mods[i] = map[string]any{"module_key": "m", "outcome": "compliant"}
	}
	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/modules",
		map[string]any{"modules": mods}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestUpsertModules_InvalidInputReturns400(t *testing.T) {
	cases := map[string]map[string]any{
		"missing key":     {"outcome": "compliant"},
		"unknown outcome": {"module_key": "sprinklers", "outcome": "excellent"},
		"rating too high": {"module_key": "sprinklers", "outcome": "compliant", "rating": 6},
		"rating zero":     {"module_key": "sprinklers", "outcome": "compliant", "rating": 0},
	}
	for name, mod := range cases {
		t.Run(name, func(t *testing.T) {
			deps := newTestServer(t)
			id := deps.addSurvey(deps.org.ID)
			rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/modules",
				map[string]any{"modules": []any{mod}}, orgHeaders())
			expectStatus(t, rr, http.StatusBadRequest)
			if len(deps.q.modules[id]) != 0 {
				t.Error("nothing should be written when validation fails")
			}
		})
	}
}

func TestUpsertModules_ValidBatchReturnsUpsertedCount(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)

	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/modules",
		map[string]any{"modules": []any{
			map[string]any{"module_key": "sprinklers", "outcome": "material_deficiency", "rating": 2,
				"data": map[string]any{"valve": "shut"}},
			map[string]any{"module_key": "fire_alarm", "outcome": "compliant", "notes": "tested weekly"},
		}}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Upserted int `json:"upserted"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Upserted != 2 {
		t.Errorf("upserted = %d", resp.Upserted)
	}

	stored := deps.q.modules[id]
	if len(stored) != 2 {
		t.Fatalf("expected 2 stored modules, got %d", len(stored))
	}
	if !stored[0].Rating.Valid || stored[0].Rating.Int16 != 2 || !stored[0].Data.Valid {
		t.Errorf("first module = %+v", stored[0])
	}
	if stored[1].Rating.Valid || stored[1].Notes.String != "tested weekly" {
		t.Errorf("second module = %+v", stored[1])
	}
}

func TestUpsertModules_UpsertErrorReturns500(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	deps.q.upsertModuleErr = errors.New("connection reset")

	rr := doRequest(t, deps.handler, http.MethodPut, "/api/surveys/"+id.String()+"/modules",
		map[string]any{"modules": []any{map[string]any{"module_key": "sprinklers", "outcome": "compliant"}}},
		orgHeaders())
	expectStatus(t, rr, http.StatusInternalServerError)
}

// ─── GET /api/surveys/:surveyID/score ─────────────────────────────────────────

func TestGetSurveyScore_RecomputesWithoutPersisting(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	deps.q.modules[id] = []db.ModuleInstance{
		{ID: uuid.New(), ModuleKey: "sprinklers", Outcome: db.ModuleOutcomeHighRisk},
	}
	deps.q.templates = []db.RecommendationTemplate{
		{ID: "sprk", ModuleKey: "sprinklers", TriggerOutcomes: []string{"high_risk"}, Priority: db.ActionPriorityHigh, Title: "Fix"},
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/surveys/"+id.String()+"/score", nil, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Assessment struct {
			Overall float64 `json:"overall_score"`
			Band    string  `json:"band"`
		} `json:"assessment"`
		ActionCounts struct {
			Critical int `json:"critical"`
		} `json:"action_counts"`
	}
	decodeJSON(t, rr, &resp)
	if !approx(resp.Assessment.Overall, 10) || resp.Assessment.Band != "Very Poor" {
		t.Errorf("assessment = %+v", resp.Assessment)
	}
	if resp.ActionCounts.Critical != 1 {
		t.Errorf("critical actions = %d", resp.ActionCounts.Critical)
	}
	if deps.q.surveys[id].Status != db.SurveyStatusDraft {
		t.Error("scoring preview must not change status")
	}
}

// ─── POST /api/surveys/:surveyID/issue ────────────────────────────────────────

func TestIssueSurvey_EmptySurveyReturns422(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys/"+id.String()+"/issue", nil, orgHeaders())
	expectStatus(t, rr, http.StatusUnprocessableEntity)
	if len(deps.worker.enqueued) != 0 {
		t.Error("nothing should be enqueued")
	}
}

func TestIssueSurvey_EnqueuesJob(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	deps.q.modules[id] = []db.ModuleInstance{{ID: uuid.New(), ModuleKey: "sprinklers", Outcome: db.ModuleOutcomeCompliant}}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys/"+id.String()+"/issue", nil, orgHeaders())
	expectStatus(t, rr, http.StatusAccepted)

	if len(deps.worker.enqueued) != 1 || deps.worker.enqueued[0] != id {
		t.Errorf("enqueued = %v", deps.worker.enqueued)
	}
	if deps.q.surveys[id].Status != db.SurveyStatusPending {
		t.Errorf("status = %q", deps.q.surveys[id].Status)
	}
}

func TestIssueSurvey_EnqueueFailureStillAccepted(t *testing.T) {
	deps := newTestServer(t)
	deps.worker.err = errors.New("queue full")
	id := deps.addSurvey(deps.org.ID)
	deps.q.modules[id] = []db.ModuleInstance{{ID: uuid.New(), ModuleKey: "sprinklers", Outcome: db.ModuleOutcomeCompliant}}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys/"+id.String()+"/issue", nil, orgHeaders())
	expectStatus(t, rr, http.StatusAccepted)
}

func TestIssueSurvey_AlreadyPendingReturns409(t *testing.T) {
	deps := newTestServer(t)
	id := deps.addSurvey(deps.org.ID)
	deps.q.modules[id] = []db.ModuleInstance{{ID: uuid.New(), ModuleKey: "sprinklers", Outcome: db.ModuleOutcomeCompliant}}
	deps.q.setPendingErr = sql.ErrNoRows

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/surveys/"+id.String()+"/issue", nil, orgHeaders())
	expectStatus(t, rr, http.StatusConflict)
}

// ─── CALCULATORS ──────────────────────────────────────────────────────────────

func TestScoreCombustibility_NoAuthRequired(t *testing.T) {
	deps := newTestServer(t)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/score/combustibility",
		map[string]any{"buildings": []any{
			building("a", map[string]float64{"heavy_noncombustible": 100}, map[string]float64{"heavy_noncombustible": 100}),
		}}, nil)
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Combustibility struct {
			Score     float64 `json:"score"`
			OK        bool    `json:"ok"`
			Buildings []any   `json:"buildings"`
		} `json:"combustibility"`
		Warnings []any `json:"warnings"`
	}
	decodeJSON(t, rr, &resp)
	if !resp.Combustibility.OK || resp.Combustibility.Score != 0 || len(resp.Combustibility.Buildings) != 1 {
		t.Errorf("combustibility = %+v", resp.Combustibility)
	}
	if resp.Warnings == nil || len(resp.Warnings) != 0 {
		t.Errorf("warnings should be an empty list, got %v", resp.Warnings)
	}
}

func TestScoreCombustibility_EmptySiteNotOK(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/score/combustibility",
		map[string]any{"buildings": []any{}}, nil)
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Combustibility struct {
			OK bool `json:"ok"`
		} `json:"combustibility"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Combustibility.OK {
		t.Error("empty site must report ok=false")
	}
}

type sectorScoreResponse struct {
	WeightingSector string  `json:"weighting_sector"`
	Overall         float64 `json:"overall_score"`
	Band            string  `json:"band"`
	Lowest          []struct {
		Dimension string `json:"dimension"`
	} `json:"lowest_contributors"`
}

func TestScoreSector_ExplicitWeights(t *testing.T) {
	deps := newTestServer(t)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/score/sector", map[string]any{
		"sector": "Retail",
		"scores": map[string]float64{
			"construction": 100, "fire_protection": 40, "detection": 100,
			"management": 100, "special_hazards": 100, "business_interruption": 100,
		},
		"weights": map[string]float64{"construction": 1, "fire_protection": 1},
	}, nil)
	expectStatus(t, rr, http.StatusOK)

	var resp sectorScoreResponse
	decodeJSON(t, rr, &resp)
	if !approx(resp.Overall, 70) || resp.Band != "Good" {
		t.Errorf("overall = %v band = %q", resp.Overall, resp.Band)
	}
	if len(resp.Lowest) != 3 || resp.Lowest[0].Dimension != "fire_protection" {
		t.Errorf("lowest = %+v", resp.Lowest)
	}
}

func TestScoreSector_NegativeWeightReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/score/sector", map[string]any{
		"scores":  map[string]float64{"construction": 50},
		"weights": map[string]float64{"construction": -1, "detection": 2},
	}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestScoreSector_UnknownDimensionKeyReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/score/sector", map[string]any{
		"scores": map[string]float64{
			"construction": 100, "fire_protecton": 100, "detection": 100,
			"management": 100, "special_hazards": 100, "business_interruption": 100,
		},
	}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
	if !strings.Contains(rr.Body.String(), "fire_protecton") {
		t.Errorf("error should name the unknown key: %s", rr.Body.String())
	}

	rr = doRequest(t, deps.handler, http.MethodPost, "/api/score/sector", map[string]any{
		"scores":  map[string]float64{"construction": 50},
		"weights": map[string]float64{"constuction": 1},
	}, nil)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestScoreSector_FallsBackToDefaultRow(t *testing.T) {
	deps := newTestServer(t)
	deps.q.weightings = []db.SectorWeighting{
		{Sector: "Default", Construction: 0, FireProtection: 0, Detection: 100},
		{Sector: "Retail", Construction: 100},
	}

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/score/sector", map[string]any{
		"sector": "Aviation",
		"scores": map[string]float64{"construction": 10, "detection": 90},
	}, nil)
	expectStatus(t, rr, http.StatusOK)

	var resp sectorScoreResponse
	decodeJSON(t, rr, &resp)
	if resp.WeightingSector != "Default" || !approx(resp.Overall, 90) {
		t.Errorf("resp = %+v", resp)
	}
}

// ─── SECTOR WEIGHTINGS ────────────────────────────────────────────────────────

func TestListWeightings(t *testing.T) {
	deps := newTestServer(t)
	deps.q.weightings = []db.SectorWeighting{
		{Sector: "Default", Construction: 20, FireProtection: 20, Detection: 15, Management: 15, SpecialHazards: 15, BusinessInterruption: 15},
		{Sector: "Retail", Construction: 1},
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/sector-weightings", nil, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		Rows []struct {
			Sector    string `json:"sector"`
			SumsTo100 bool   `json:"sums_to_100"`
		} `json:"sector_weightings"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Rows) != 2 || !resp.Rows[0].SumsTo100 || resp.Rows[1].SumsTo100 {
		t.Errorf("rows = %+v", resp.Rows)
	}
}

func TestPutWeighting_RequiresAdminKey(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPut, "/api/sector-weightings/Retail",
		map[string]any{"weights": map[string]float64{"construction": 1}}, orgHeaders())
	expectStatus(t, rr, http.StatusForbidden)
}

func TestPutWeighting_DisabledWithoutConfiguredKey(t *testing.T) {
	deps := newTestServer(t, func(c *api.Config) { c.AdminKey = "" })
	headers := orgHeaders()
	headers["X-Admin-Key"] = ""
	rr := doRequest(t, deps.handler, http.MethodPut, "/api/sector-weightings/Retail",
		map[string]any{"weights": map[string]float64{"construction": 1}}, headers)
	expectStatus(t, rr, http.StatusForbidden)
}

func TestPutWeighting_ValidatesAndUpserts(t *testing.T) {
	deps := newTestServer(t)
	headers := orgHeaders()
	headers["X-Admin-Key"] = testAdminKey

	rr := doRequest(t, deps.handler, http.MethodPut, "/api/sector-weightings/Food%20Processing",
		map[string]any{"weights": map[string]float64{"construction": 0}}, headers)
	expectStatus(t, rr, http.StatusBadRequest)

	rr = doRequest(t, deps.handler, http.MethodPut, "/api/sector-weightings/Food%20Processing",
		map[string]any{"weights": map[string]float64{"construction": 60, "fire_protection": 40}}, headers)
	expectStatus(t, rr, http.StatusOK)

	rr = doRequest(t, deps.handler, http.MethodPut, "/api/sector-weightings/Food%20Processing",
		map[string]any{"weights": map[string]float64{"construction": 60, "fire_protecton": 40}}, headers)
	expectStatus(t, rr, http.StatusBadRequest)

	if len(deps.q.upsertedWeights) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(deps.q.upsertedWeights))
	}
	p := deps.q.upsertedWeights[0]
	if p.Sector != "Food Processing" || p.Construction != 60 || p.FireProtection != 40 {
		t.Errorf("params = %+v", p)
	}
}

// ─── GET /api/report/:accessToken ────────────────────────────────────────────

func TestGetReport_UnknownTokenReturns404(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/api/report/nope", nil, nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestGetReport_NotIssuedReturns202(t *testing.T) {
	for _, status := range []db.SurveyStatus{db.SurveyStatusDraft, db.SurveyStatusPending, db.SurveyStatusError} {
		t.Run(string(status), func(t *testing.T) {
			deps := newTestServer(t)
			deps.q.reports["tok"] = db.GetSurveyByAccessTokenRow{ID: uuid.New(), Status: status}

			rr := doRequest(t, deps.handler, http.MethodGet, "/api/report/tok", nil, nil)
			expectStatus(t, rr, http.StatusAccepted)

			var body map[string]string
			decodeJSON(t, rr, &body)
			if body["status"] != string(status) {
				t.Errorf("status = %q", body["status"])
			}
		})
	}
}

func TestGetReport_IssuedReturns200WithBody(t *testing.T) {
	deps := newTestServer(t)
	surveyID := uuid.New()
	deps.q.reports["tok"] = db.GetSurveyByAccessTokenRow{
		ID:                 surveyID,
		ClientName:         "Acme Foods",
		SiteName:           "Depot 4",
		Sector:             "Warehousing",
		Status:             db.SurveyStatusIssued,
		SiteCombustibility: sql.NullFloat64{Float64: 40, Valid: true},
		OverallScore:       sql.NullFloat64{Float64: 55, Valid: true},
		RiskBand:           sql.NullString{String: "Tolerable", Valid: true},
		AssessmentJson: pqtype.NullRawMessage{
			RawMessage: json.RawMessage(`{"sector":"Warehousing","overall_score":55,"band":"Tolerable","unassessable":false}`),
			Valid:      true,
		},
		AiSummary:        sql.NullString{String: "Sprinklers impaired.", Valid: true},
		IssuedAt:         sql.NullTime{Time: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Valid: true},
		OrganisationName: "Northern Risk Engineers",
		BrandColour:      sql.NullString{String: "#112233", Valid: true},
	}
	deps.q.actions[surveyID] = []db.Action{
		{Priority: db.ActionPriorityCritical, ModuleKey: "sprinklers", Title: "Restore sprinklers",
			AiCommentary: sql.NullString{String: "Valve shut.", Valid: true}},
		{Priority: db.ActionPriorityLow, ModuleKey: "hot_work", Title: "Permits"},
	}

	rr := doRequest(t, deps.handler, http.MethodGet, "/api/report/tok", nil, nil)
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		SurveyID         string   `json:"survey_id"`
		OverallScore     *float64 `json:"overall_score"`
		RiskBand         string   `json:"risk_band"`
		ExecutiveSummary string   `json:"executive_summary"`
		IssuedAt         string   `json:"issued_at"`
		Branding         struct {
			OrganisationName string `json:"organisation_name"`
			BrandColour      string `json:"brand_colour"`
		} `json:"branding"`
		Assessment *struct {
			Band string `json:"band"`
		} `json:"assessment"`
		Actions []struct {
			Priority   string `json:"priority"`
			Commentary string `json:"commentary"`
		} `json:"actions"`
		ActionCounts struct {
			Critical int `json:"critical"`
			Low      int `json:"low"`
		} `json:"action_counts"`
	}
	decodeJSON(t, rr, &resp)

	if resp.SurveyID != surveyID.String() {
		t.Errorf("survey_id = %q", resp.SurveyID)
	}
	if resp.OverallScore == nil || *resp.OverallScore != 55 || resp.RiskBand != "Tolerable" {
		t.Errorf("score/band = %v %q", resp.OverallScore, resp.RiskBand)
	}
	if resp.ExecutiveSummary != "Sprinklers impaired." {
		t.Errorf("executive_summary = %q", resp.ExecutiveSummary)
	}
	if resp.IssuedAt != "2026-03-01T12:00:00Z" {
		t.Errorf("issued_at = %q", resp.IssuedAt)
	}
	if resp.Branding.OrganisationName != "Northern Risk Engineers" || resp.Branding.BrandColour != "#112233" {
		t.Errorf("branding = %+v", resp.Branding)
	}
	if resp.Assessment == nil || resp.Assessment.Band != "Tolerable" {
		t.Errorf("assessment = %+v", resp.Assessment)
	}
	if len(resp.Actions) != 2 || resp.Actions[0].Commentary != "Valve shut." || resp.Actions[1].Commentary != "" {
		t.Errorf("actions = %+v", resp.Actions)
	}
	if resp.ActionCounts.Critical != 1 || resp.ActionCounts.Low != 1 {
		t.Errorf("action_counts = %+v", resp.ActionCounts)
	}
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS_PreflightReturns204(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodOptions, "/api/surveys", nil, map[string]string{
		"Origin":                        "http://localhost:3000",
		"Access-Control-Request-Method": "POST",
	})
	expectStatus(t, rr, http.StatusNoContent)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "X-Org-Key") {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
}

func TestCORS_ProductionRejectsForeignOrigin(t *testing.T) {
	deps := newTestServer(t, func(c *api.Config) {
		c.Env = "production"
		c.BaseURL = "https://app.example.com"
	})
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, map[string]string{
		"Origin": "https://evil.example.net",
	})
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header, got %q", got)
	}
}

func TestCORS_NoOriginHeader_SkipsCORSHeaders(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodGet, "/healthz", nil, nil)
	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS header without Origin")
	}
}

// ─── POST /api/billing/checkout ───────────────────────────────────────────────

func TestCreateCheckout_UnknownPlanReturns400(t *testing.T) {
	deps := newTestServer(t)
	for _, plan := range []string{"free", "platinum", ""} {
		rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
			map[string]string{"plan": plan, "email": "billing@nre.test"}, orgHeaders())
		if rr.Code != http.StatusBadRequest {
			t.Errorf("plan %q: expected 400, got %d", plan, rr.Code)
		}
	}
}

func TestCreateCheckout_SamePlanReturns409(t *testing.T) {
	deps := newTestServer(t)
	org := deps.org
	org.PlanTier = db.PlanTierProfessional
	deps.q.addOrg(org)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
		map[string]string{"plan": "professional", "email": "billing@nre.test"}, orgHeaders())
	expectStatus(t, rr, http.StatusConflict)
}

func TestCreateCheckout_MissingEmailReturns400(t *testing.T) {
	deps := newTestServer(t)
	rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
		map[string]string{"plan": "professional"}, orgHeaders())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestCreateCheckout_StripeErrorReturns500(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.createErr = errors.New("stripe down")

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
		map[string]string{"plan": "professional", "email": "billing@nre.test"}, orgHeaders())
	expectStatus(t, rr, http.StatusInternalServerError)
}

func TestCreateCheckout_CreatesAndAttachesPI(t *testing.T) {
	deps := newTestServer(t)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
		map[string]string{"plan": "Enterprise", "email": "billing@nre.test"}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		ClientSecret string `json:"client_secret"`
		AmountCents  int64  `json:"amount_cents"`
		IsExisting   bool   `json:"is_existing"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ClientSecret != "cs_test" || resp.AmountCents != 14900 || resp.IsExisting {
		t.Errorf("resp = %+v", resp)
	}

	if len(deps.stripe.created) != 1 {
		t.Fatalf("expected 1 PI, got %d", len(deps.stripe.created))
	}
	created := deps.stripe.created[0]
	if created.Metadata["organisation_id"] != deps.org.ID.String() || created.Metadata["plan"] != "enterprise" {
		t.Errorf("metadata = %v", created.Metadata)
	}

	if len(deps.store.attached) != 1 {
		t.Fatalf("expected 1 attach, got %d", len(deps.store.attached))
	}
	a := deps.store.attached[0]
	if a.OrganisationID != deps.org.ID || a.Plan != db.PlanTierEnterprise || a.StripePaymentIntent != "pi_test" {
		t.Errorf("attach params = %+v", a)
	}
}

func TestCreateCheckout_ExistingPIForPlanSkipsStripeCreate(t *testing.T) {
	deps := newTestServer(t)
	org := deps.org
	org.PendingPlan = db.NullPlanTier{PlanTier: db.PlanTierProfessional, Valid: true}
	org.StripePaymentIntent = sql.NullString{String: "pi_old", Valid: true}
	deps.q.addOrg(org)

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
		map[string]string{"plan": "professional", "email": "billing@nre.test"}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		ClientSecret string `json:"client_secret"`
		IsExisting   bool   `json:"is_existing"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ClientSecret != "cs_existing" || !resp.IsExisting {
		t.Errorf("resp = %+v", resp)
	}
	if len(deps.stripe.created) != 0 {
		t.Error("no new PI should be created")
	}
}

func TestCreateCheckout_LostRaceReturnsExistingSecret(t *testing.T) {
	deps := newTestServer(t)
	deps.store.attachErr = store.ErrPaymentIntentAlreadyAttached

	rr := doRequest(t, deps.handler, http.MethodPost, "/api/billing/checkout",
		map[string]string{"plan": "professional", "email": "billing@nre.test"}, orgHeaders())
	expectStatus(t, rr, http.StatusOK)

	var resp struct {
		ClientSecret string `json:"client_secret"`
		IsExisting   bool   `json:"is_existing"`
	}
	decodeJSON(t, rr, &resp)
	if resp.ClientSecret != "cs_existing" || !resp.IsExisting {
		t.Errorf("resp = %+v", resp)
	}
}

// ─── POST /api/webhooks/stripe ────────────────────────────────────────────────

func postWebhook(t *testing.T, deps *testDeps) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, deps.handler, http.MethodPost, "/api/webhooks/stripe",
		map[string]string{"id": deps.stripe.event.ID}, map[string]string{"Stripe-Signature": "t=1,v1=sig"})
}

func TestStripeWebhook_InvalidSignatureReturns400(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.verifyErr = errors.New("bad signature")

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestStripeWebhook_UnknownEventTypeReturns200(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.event = stripeinternal.Event{ID: "evt_1", Type: "customer.created", DataRaw: json.RawMessage(`{}`)}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusOK)
	if len(deps.q.processed) != 1 {
		t.Error("event should be marked processed")
	}
}

func TestStripeWebhook_PaymentSucceededAppliesPlanAndSendsReceipt(t *testing.T) {
	deps := newTestServer(t)
	deps.store.applyOrg = db.Organisation{ID: deps.org.ID, Name: deps.org.Name, PlanTier: db.PlanTierProfessional}
	deps.stripe.event = stripeinternal.Event{
		ID:      "evt_2",
		Type:    "payment_intent.succeeded",
		DataRaw: json.RawMessage(`{"id":"pi_123","metadata":{"receipt_email":"billing@nre.test","plan":"professional"}}`),
	}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusOK)

	if len(deps.store.applied) != 1 || deps.store.applied[0] != "pi_123" {
		t.Errorf("applied = %v", deps.store.applied)
	}
	if len(deps.mailer.receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(deps.mailer.receipts))
	}
	rc := deps.mailer.receipts[0]
	if rc.To != "billing@nre.test" || rc.AmountCents != 4900 || rc.Plan != "professional" {
		t.Errorf("receipt = %+v", rc)
	}
}

func TestStripeWebhook_DuplicateDeliveryIsSkipped(t *testing.T) {
	deps := newTestServer(t)
	deps.q.events["evt_3"] = db.StripeEvent{StripeEventID: "evt_3", ProcessedAt: sql.NullTime{Time: time.Now(), Valid: true}}
	deps.stripe.event = stripeinternal.Event{ID: "evt_3", Type: "payment_intent.succeeded", DataRaw: json.RawMessage(`{"id":"pi_1"}`)}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusOK)
	if len(deps.store.applied) != 0 {
		t.Error("processed events must not be re-applied")
	}
}

func TestStripeWebhook_PlanAlreadyAppliedIsSuccess(t *testing.T) {
	deps := newTestServer(t)
	deps.store.applyErr = store.ErrPlanAlreadyApplied
	deps.stripe.event = stripeinternal.Event{ID: "evt_4", Type: "payment_intent.succeeded", DataRaw: json.RawMessage(`{"id":"pi_1"}`)}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusOK)
	if len(deps.mailer.receipts) != 0 {
		t.Error("no second receipt on duplicate apply")
	}
}

func TestStripeWebhook_HandlerErrorReturns500AndRecordsFailure(t *testing.T) {
	deps := newTestServer(t)
	deps.store.applyErr = errors.New("serialization failure")
	deps.stripe.event = stripeinternal.Event{ID: "evt_5", Type: "payment_intent.succeeded", DataRaw: json.RawMessage(`{"id":"pi_1"}`)}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusInternalServerError)
	if len(deps.q.failed) != 1 || deps.q.failed[0] != "evt_5" {
		t.Errorf("failed = %v", deps.q.failed)
	}
	if len(deps.q.processed) != 0 {
		t.Error("failed event must not be marked processed")
	}
}

func TestStripeWebhook_PaymentFailedClearsPendingPlan(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.event = stripeinternal.Event{ID: "evt_6", Type: "payment_intent.payment_failed", DataRaw: json.RawMessage(`{"id":"pi_9"}`)}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusOK)
	if len(deps.q.cleared) != 1 || deps.q.cleared[0] != "pi_9" {
		t.Errorf("cleared = %v", deps.q.cleared)
	}
}

func TestStripeWebhook_ChargeRefundedIsLoggedOnly(t *testing.T) {
	deps := newTestServer(t)
	deps.stripe.event = stripeinternal.Event{ID: "evt_7", Type: "charge.refunded", DataRaw: json.RawMessage(`{"payment_intent":"pi_unknown"}`)}

	rr := postWebhook(t, deps)
	expectStatus(t, rr, http.StatusOK)
}
