package scoring

import (
	"strings"
)

// ─── OUTCOMES ─────────────────────────────────────────────────────────────────

// Outcome is the classification a surveyor gives a module instance. String
// values match the Postgres module_outcome enum.
type Outcome string

const (
	OutcomeCompliant          Outcome = "compliant"
	OutcomeMinorDeficiency    Outcome = "minor_deficiency"
	OutcomeMaterialDeficiency Outcome = "material_deficiency"
	OutcomeHighRisk           Outcome = "high_risk"
	OutcomeInfoGap            Outcome = "info_gap"
	OutcomeNotApplicable      Outcome = "not_applicable"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeCompliant, OutcomeMinorDeficiency, OutcomeMaterialDeficiency,
		OutcomeHighRisk, OutcomeInfoGap, OutcomeNotApplicable:
		return true
	}
	return false
}

// OutcomeScore maps an outcome onto the 0–100 dimension scale. Information
// gaps and not-applicable modules carry no score.
func OutcomeScore(o Outcome) (float64, bool) {
	switch o {
	case OutcomeCompliant:
		return 100, true
	case OutcomeMinorDeficiency:
		return 75, true
	case OutcomeMaterialDeficiency:
		return 40, true
	case OutcomeHighRisk:
		return 10, true
	default:
		return 0, false
	}
}

// ─── MODULE → DIMENSION ───────────────────────────────────────────────────────

// moduleDimensions maps survey module keys to the dimension they feed. Keys
// are matched on their prefix before the first "." so sub-modules such as
// "sprinklers.wet_pipe" roll up with their parent.
var moduleDimensions = map[string]Dimension{
	"construction":          Construction,
	"compartmentation":      Construction,
	"building_services":     Construction,
	"sprinklers":            FireProtection,
	"fire_protection":       FireProtection,
	"hydrants":              FireProtection,
	"extinguishers":         FireProtection,
	"water_supply":          FireProtection,
	"detection":             Detection,
	"fire_alarm":            Detection,
	"security":              Detection,
	"management":            Management,
	"housekeeping":          Management,
	"hot_work":              Management,
	"maintenance":           Management,
	"training":              Management,
	"emergency_planning":    Management,
	"special_hazards":       SpecialHazards,
	"process_hazards":       SpecialHazards,
	"flammable_liquids":     SpecialHazards,
	"dust":                  SpecialHazards,
	"electrical":            SpecialHazards,
	"storage":               SpecialHazards,
	"business_continuity":   BusinessInterruption,
	"business_interruption": BusinessInterruption,
	"supply_chain":          BusinessInterruption,
	"utilities":             BusinessInterruption,
}

// ModuleDimension returns the dimension a module key feeds, if any.
func ModuleDimension(moduleKey string) (Dimension, bool) {
	key := strings.ToLower(strings.TrimSpace(moduleKey))
	if prefix, _, ok := strings.Cut(key, "."); ok {
		key = prefix
	}
	d, ok := moduleDimensions[key]
	return d, ok
}

// ─── DERIVATION ───────────────────────────────────────────────────────────────

// ModuleOutcome is the minimal slice of a module_instances row that scoring
// needs. Keeping it local keeps scoring/ free of the db package.
type ModuleOutcome struct {
	ModuleKey string
	Outcome   Outcome
}

// Coverage records which dimensions had at least one scored input.
type Coverage [numDimensions]bool

// Covered returns the covered dimensions in canonical order.
func (c Coverage) Covered() []Dimension {
	var out []Dimension
	for _, d := range Dimensions {
		if c[d] {
			out = append(out, d)
		}
	}
	return out
}

// DeriveDimensionScores averages module outcomes into dimension scores. When
// siteCombustibility is non-nil, 100 minus that figure is added as one more
// input to the construction dimension. Modules with unknown keys or unscored
// outcomes are skipped.
func DeriveDimensionScores(instances []ModuleOutcome, siteCombustibility *float64) (DimensionScores, Coverage) {
	var (
		sums   [numDimensions]float64
		counts [numDimensions]int
	)
	for _, inst := range instances {
		d, ok := ModuleDimension(inst.ModuleKey)
		if !ok {
			continue
		}
		s, ok := OutcomeScore(inst.Outcome)
		if !ok {
			continue
		}
		sums[d] += s
		counts[d]++
	}
	if siteCombustibility != nil {
		sums[Construction] += 100 - clampScore(*siteCombustibility)
		counts[Construction]++
	}

	var (
		scores DimensionScores
		cov    Coverage
	)
	for _, d := range Dimensions {
		if counts[d] == 0 {
			continue
		}
		scores[d] = sums[d] / float64(counts[d])
		cov[d] = true
	}
	return scores, cov
}

// ─── ASSESSMENT ───────────────────────────────────────────────────────────────

// Assessment is the full sector-weighted result for a survey.
type Assessment struct {
	Sector       string          `json:"sector"`
	Overall      float64         `json:"overall_score"`
	Band         RiskBand        `json:"band"`
	Scores       DimensionScores `json:"dimension_scores"`
	Weights      Weights         `json:"weights"`
	Covered      []Dimension     `json:"covered"`
	LowestThree  []Contribution  `json:"lowest_contributors"`
	Unassessable bool            `json:"unassessable"`
}

// lowestCount is the number of lowest contributors surfaced on reports.
const lowestCount = 3

// Assess derives dimension scores, zeroes the weight of uncovered dimensions
// and computes the overall score, band and lowest contributors. A survey with
// no covered dimension is marked Unassessable and scores 0.
func Assess(instances []ModuleOutcome, siteCombustibility *float64, weights Weights, sector string) Assessment {
	scores, cov := DeriveDimensionScores(instances, siteCombustibility)

	effective := weights
	for _, d := range Dimensions {
		if !cov[d] {
			effective[d] = 0
		}
	}

	a := Assessment{
		Sector:  sector,
		Scores:  scores,
		Weights: effective,
		Covered: cov.Covered(),
	}
	if len(a.Covered) == 0 || effective.Sum() == 0 {
		a.Unassessable = true
		a.Band = Band(0)
		return a
	}

	a.Overall = OverallScore(scores, effective)
	a.Band = Band(a.Overall)
	a.LowestThree = LowestContributors(scores, effective, lowestCount)
	return a
}
