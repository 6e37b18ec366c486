package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
)

// ─── CONTEXT KEYS ─────────────────────────────────────────────────────────────

type contextKey string

const (
	ctxKeyOrganisation contextKey = "organisation"
	ctxKeySurvey       contextKey = "survey"
)

// ─── ORG KEY AUTH ─────────────────────────────────────────────────────────────

// requireOrgKey is chi middleware that resolves the X-Org-Key header to an
// organisation. Missing or unknown keys get a 401 before the handler runs.
// On success the organisation row is stored in the request context.
func (s *Server) requireOrgKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get("X-Org-Key"))
		if key == "" {
			respondErr(w, http.StatusUnauthorized, "missing X-Org-Key header")
			return
		}

		org, err := s.q.GetOrganisationByApiKey(r.Context(), key)
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusUnauthorized, "invalid organisation key")
			return
		}
		if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("get organisation by key: %w", err))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyOrganisation, org)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireOwnedSurvey loads the {surveyID} URL param and confirms it belongs
// to the organisation from requireOrgKey. Another organisation's survey is
// reported as 404 so ids cannot be probed.
func (s *Server) requireOwnedSurvey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := parseUUID(chi.URLParam(r, "surveyID"))
		if err != nil {
			respondErr(w, http.StatusBadRequest, "invalid survey_id")
			return
		}

		survey, err := s.q.GetSurveyByID(r.Context(), surveyID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && survey.OrganisationID != orgFrom(r).ID) {
			respondErr(w, http.StatusNotFound, "survey not found")
			return
		}
		if err != nil {
			s.respondInternalErr(w, r, fmt.Errorf("get survey: %w", err))
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySurvey, survey)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// orgFrom returns the organisation stored by requireOrgKey.
func orgFrom(r *http.Request) db.Organisation {
	org, _ := r.Context().Value(ctxKeyOrganisation).(db.Organisation)
	return org
}

// surveyFrom returns the survey stored by requireOwnedSurvey.
func surveyFrom(r *http.Request) db.SurveyReport {
	survey, _ := r.Context().Value(ctxKeySurvey).(db.SurveyReport)
	return survey
}

// parseUUID wraps uuid.Parse with a cleaner error.
func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid UUID %q", s)
	}
	return id, nil
}

// ─── CORS ─────────────────────────────────────────────────────────────────────

// corsMiddleware handles preflight OPTIONS requests and sets CORS headers.
// Production only allows cfg.BaseURL; other environments echo the origin.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		allowed := origin
		if s.cfg.Env == "production" {
			if s.cfg.BaseURL == "" || origin != s.cfg.BaseURL {
				next.ServeHTTP(w, r)
				return
			}
			allowed = s.cfg.BaseURL
		}

		w.Header().Set("Access-Control-Allow-Origin", allowed)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Org-Key, X-Admin-Key, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ─── LOGGER MIDDLEWARE ────────────────────────────────────────────────────────

// loggerMiddleware logs each request with method, path, status, and duration.
func (s *Server) loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Info("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// ─── RESPONSE HELPERS ─────────────────────────────────────────────────────────

// respond writes a JSON body with the given status code.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondErr writes a standard JSON error envelope.
func respondErr(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}

// respondInternalErr logs an unexpected error and returns a 500 to the client
// without leaking internal details.
func (s *Server) respondInternalErr(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("internal error",
		"error", err,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	respondErr(w, http.StatusInternalServerError, "internal server error")
}

// logAndIgnoreEmailErr logs an email send error without surfacing it to the
// caller. Used where email failure must not fail the HTTP response.
func (s *Server) logAndIgnoreEmailErr(r *http.Request, err error, what string) {
	if err == nil {
		return
	}
	s.logger.Error("email send failed",
		"context", what,
		"error", err,
		"request_id", middleware.GetReqID(r.Context()),
	)
}

// ─── REQUEST PARSING HELPERS ─────────────────────────────────────────────────

// decode JSON-decodes r.Body into dst. Returns false and writes 400 if the
// body is missing, malformed, or too large. Callers should return immediately
// on false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB max
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// logField returns a slog.Attr using the request ID for correlation.
func logField(r *http.Request) slog.Attr {
	return slog.String("request_id", middleware.GetReqID(r.Context()))
}

// nullString converts an empty string to a NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
