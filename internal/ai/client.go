// Package ai defines the interface for AI-written report narrative and
// provides Anthropic and DeepSeek implementations plus a fallback wrapper.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
)

// NarrativeInput is what the worker knows about an evaluated survey.
type NarrativeInput struct {
	ClientName         string
	SiteName           string
	Sector             string
	SiteCombustibility *float64
	Assessment         scoring.Assessment
	// Actions should already be filtered to the ones worth commenting on.
	Actions []recommend.Action
}

// Narrative is the structured output from a successful Summarise call.
type Narrative struct {
	// ExecutiveSummary is a short plain-English paragraph for the report
	// header.
	ExecutiveSummary string

	// Commentary maps action key → site-specific commentary. May be nil.
	Commentary map[string]string
}

// Narrator is the interface the worker uses to generate report narrative.
// Implementations must be safe to call concurrently. A non-nil error means
// the whole call failed; the worker issues the report without narrative.
type Narrator interface {
	Summarise(ctx context.Context, in NarrativeInput) (Narrative, error)
}

// ─── SHARED PROMPT / PARSING ──────────────────────────────────────────────────

const systemPrompt = `You are a senior fire and property risk engineer writing for an insurance client.
You will receive the results of a site survey: the overall sector-weighted risk score (0-100, higher is better),
its band, the six dimension scores, the site combustibility (0-100, higher is worse) and the recommended actions.

Produce:
1. executive_summary: 3-4 sentences on the site's overall risk quality. Name the weakest dimensions. Be direct and specific; no marketing language.
2. commentary: for each action (keyed by its key), 1-3 sentences explaining why it matters at this site and what a good remediation looks like.

Respond ONLY with valid JSON matching this exact schema, no markdown fences, no preamble:
{
  "executive_summary": "...",
  "commentary": {
    "action_key_1": "...",
    "action_key_2": "..."
  }
}`

// narrativeJSON is the shape the model is asked to return.
type narrativeJSON struct {
	ExecutiveSummary string            `json:"executive_summary"`
	Commentary       map[string]string `json:"commentary"`
}

// parseNarrative strips markdown fences some models add and decodes the JSON.
// Commentary for keys not in the input is dropped.
func parseNarrative(raw string, in NarrativeInput) (Narrative, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed narrativeJSON
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return Narrative{}, fmt.Errorf("parse response JSON: %w (raw: %.200s)", err, raw)
	}

	known := make(map[string]bool, len(in.Actions))
	for _, a := range in.Actions {
		known[a.Key] = true
	}
	var commentary map[string]string
	for k, v := range parsed.Commentary {
		if !known[k] || strings.TrimSpace(v) == "" {
			continue
		}
		if commentary == nil {
			commentary = make(map[string]string, len(parsed.Commentary))
		}
		commentary[k] = strings.TrimSpace(v)
	}

	return Narrative{
		ExecutiveSummary: strings.TrimSpace(parsed.ExecutiveSummary),
		Commentary:       commentary,
	}, nil
}

// buildPrompt serialises the evaluated survey into a compact prompt.
func buildPrompt(in NarrativeInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "client: %s\nsite: %s\nsector: %s\n", in.ClientName, in.SiteName, in.Sector)
	if in.SiteCombustibility != nil {
		fmt.Fprintf(&sb, "site_combustibility: %.1f/100\n", *in.SiteCombustibility)
	}

	a := in.Assessment
	if a.Unassessable {
		sb.WriteString("overall: not assessable (no scored modules)\n")
	} else {
		fmt.Fprintf(&sb, "overall: %.1f/100 (%s)\n", a.Overall, a.Band)
	}
	sb.WriteString("dimensions:\n")
	for _, d := range a.Covered {
		fmt.Fprintf(&sb, "  %s: %.1f (weight %.0f)\n", d.Label(), a.Scores[d], a.Weights[d])
	}

	sb.WriteString("\nactions:\n")
	for _, act := range in.Actions {
		fmt.Fprintf(&sb, "key: %s\n", act.Key)
		fmt.Fprintf(&sb, "priority: %s\n", act.Priority)
		fmt.Fprintf(&sb, "module: %s (%s)\n", act.ModuleKey, act.Reason)
		fmt.Fprintf(&sb, "title: %s\n", act.Title)
		if act.Body != "" {
			fmt.Fprintf(&sb, "detail: %s\n", act.Body)
		}
		sb.WriteString("---\n")
	}
	return sb.String()
}
