// Package recommend turns completed survey modules into prioritised actions
// by evaluating recommendation templates against each module instance's
// outcome and rating.
package recommend

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
)

// ─── PRIORITY ─────────────────────────────────────────────────────────────────

// Priority is the urgency of an action. String values match the Postgres
// action_priority enum.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// priorityOrder runs from most to least urgent.
var priorityOrder = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// rank returns 0 for critical up to 3 for low; unknown priorities sort last.
func (p Priority) rank() int {
	if i := slices.Index(priorityOrder, p); i >= 0 {
		return i
	}
	return len(priorityOrder)
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return p.rank() < len(priorityOrder) }

// Escalate returns the next more urgent priority. Critical stays critical.
func (p Priority) Escalate() Priority {
	r := p.rank()
	switch {
	case r >= len(priorityOrder):
		return PriorityHigh
	case r == 0:
		return PriorityCritical
	default:
		return priorityOrder[r-1]
	}
}

// ─── TEMPLATES / INSTANCES ────────────────────────────────────────────────────

// Rating bounds for module instances; 1 is the worst.
const (
	MinRating = 1
	MaxRating = 5
)

// Template is one row of recommendation_templates.
type Template struct {
	ID              string            `json:"id" yaml:"id"`
	ModuleKey       string            `json:"module_key" yaml:"module_key"`
	TriggerOutcomes []scoring.Outcome `json:"trigger_outcomes" yaml:"trigger_outcomes"`
	// MaxRating fires the template for any instance rated at or below it.
	// Zero disables rating triggers.
	MaxRating int      `json:"max_rating" yaml:"max_rating"`
	Priority  Priority `json:"priority" yaml:"priority"`
	Title     string   `json:"title" yaml:"title"`
	Body      string   `json:"body" yaml:"body"`
}

// Validate checks the template can ever fire and carries a usable priority.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("template: id must not be empty")
	}
	if strings.TrimSpace(t.ModuleKey) == "" {
		return fmt.Errorf("template %q: module_key must not be empty", t.ID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("template %q: title must not be empty", t.ID)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("template %q: unknown priority %q", t.ID, t.Priority)
	}
	for _, o := range t.TriggerOutcomes {
		if !o.Valid() {
			return fmt.Errorf("template %q: unknown trigger outcome %q", t.ID, o)
		}
	}
	if t.MaxRating < 0 || t.MaxRating > MaxRating {
		return fmt.Errorf("template %q: max_rating=%d out of range [0,%d]", t.ID, t.MaxRating, MaxRating)
	}
	if len(t.TriggerOutcomes) == 0 && t.MaxRating == 0 {
		return fmt.Errorf("template %q: needs trigger_outcomes or max_rating", t.ID)
	}
	return nil
}

// ModuleInstance is the minimal slice of a module_instances row the
// evaluator needs. Rating is 0 when the surveyor gave none.
type ModuleInstance struct {
	ID        string
	ModuleKey string
	Outcome   scoring.Outcome
	Rating    int
}

// ─── EVALUATION ───────────────────────────────────────────────────────────────

// Action is a recommendation raised against a specific module instance.
type Action struct {
	Key              string          `json:"key"` // "<template>/<instance>"
	TemplateID       string          `json:"template_id"`
	ModuleInstanceID string          `json:"module_instance_id"`
	ModuleKey        string          `json:"module_key"`
	Outcome          scoring.Outcome `json:"outcome"`
	Priority         Priority        `json:"priority"`
	Title            string          `json:"title"`
	Body             string          `json:"body"`
	// Reason describes what fired the template, e.g. "outcome high_risk".
	Reason string `json:"reason"`
}

// coversModule reports whether a template keyed on templateKey applies to an
// instance of moduleKey. A parent key such as "sprinklers" also covers its
// sub-modules ("sprinklers.wet_pipe"); a sub-module key matches only itself.
func coversModule(templateKey, moduleKey string) bool {
	t := strings.ToLower(strings.TrimSpace(templateKey))
	m := strings.ToLower(strings.TrimSpace(moduleKey))
	if t == "" {
		return false
	}
	return m == t || strings.HasPrefix(m, t+".")
}

// fires reports whether t applies to inst and why.
func fires(t Template, inst ModuleInstance) (string, bool) {
	if !coversModule(t.ModuleKey, inst.ModuleKey) {
		return "", false
	}
	if slices.Contains(t.TriggerOutcomes, inst.Outcome) {
		return "outcome " + string(inst.Outcome), true
	}
	if t.MaxRating > 0 && inst.Rating >= MinRating && inst.Rating <= t.MaxRating {
		return fmt.Sprintf("rating %d <= %d", inst.Rating, t.MaxRating), true
	}
	return "", false
}

// Evaluate returns one action per (template, instance) pair that fires. A
// high_risk outcome escalates the template's priority by one step. Actions
// are ordered by priority, then module key, then template ID.
func Evaluate(instances []ModuleInstance, templates []Template) []Action {
	var actions []Action
	for _, inst := range instances {
		for _, t := range templates {
			reason, ok := fires(t, inst)
			if !ok {
				continue
			}
			p := t.Priority
			if inst.Outcome == scoring.OutcomeHighRisk {
				p = p.Escalate()
			}
			actions = append(actions, Action{
				Key:              t.ID + "/" + inst.ID,
				TemplateID:       t.ID,
				ModuleInstanceID: inst.ID,
				ModuleKey:        inst.ModuleKey,
				Outcome:          inst.Outcome,
				Priority:         p,
				Title:            t.Title,
				Body:             t.Body,
				Reason:           reason,
			})
		}
	}

	sort.SliceStable(actions, func(a, b int) bool {
		ra, rb := actions[a].Priority.rank(), actions[b].Priority.rank()
		if ra != rb {
			return ra < rb
		}
		if actions[a].ModuleKey != actions[b].ModuleKey {
			return actions[a].ModuleKey < actions[b].ModuleKey
		}
		if actions[a].TemplateID != actions[b].TemplateID {
			return actions[a].TemplateID < actions[b].TemplateID
		}
		return actions[a].ModuleInstanceID < actions[b].ModuleInstanceID
	})
	return actions
}

// ─── AGGREGATE HELPERS ────────────────────────────────────────────────────────

// PriorityCounts tallies actions per priority for the report header.
type PriorityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the number of counted actions.
func (c PriorityCounts) Total() int { return c.Critical + c.High + c.Medium + c.Low }

// Summarise counts actions by priority.
func Summarise(actions []Action) PriorityCounts {
	var c PriorityCounts
	for _, a := range actions {
		switch a.Priority {
		case PriorityCritical:
			c.Critical++
		case PriorityHigh:
			c.High++
		case PriorityMedium:
			c.Medium++
		case PriorityLow:
			c.Low++
		}
	}
	return c
}

// FilterByPriority returns actions at or above floor, preserving order.
func FilterByPriority(actions []Action, floor Priority) []Action {
	out := make([]Action, 0, len(actions))
	for _, a := range actions {
		if a.Priority.rank() <= floor.rank() {
			out = append(out, a)
		}
	}
	return out
}
