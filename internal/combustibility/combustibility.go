// Package combustibility computes the 0–100 combustibility indicator for a
// building's wall and roof/ceiling construction and aggregates buildings into
// an area-weighted site figure. Higher values mean more of the construction is
// flammable.
//
// Like scoring/, it imports nothing from internal/ and is safe to call from
// handlers, the worker and the CLI without a database.
package combustibility

import (
	"fmt"
	"math"
)

// ─── CONSTANTS ────────────────────────────────────────────────────────────────

// Tier weights applied to the material percentages of a surface.
const (
	nonCombustibleWeight = 0.0
	transitionalWeight   = 0.5
	combustibleWeight    = 1.0
)

// Wall weighting when combining surfaces. The roof/ceiling always carries the
// remainder, so it dominates the building figure.
const (
	wallWeightCombustibleRoof    = 0.3 // roof surface score = 100
	wallWeightNonCombustibleRoof = 0.4 // roof surface score = 0
)

// percentTolerance is how far a surface total may drift from 100 before a
// warning is raised.
const percentTolerance = 0.5

// ─── TYPES ────────────────────────────────────────────────────────────────────

// MaterialBreakdown is the percentage split of one surface across the five
// construction materials captured on the survey form. The values are expected
// to sum to 100 but are used as entered.
type MaterialBreakdown struct {
	HeavyNonCombustible   float64 `json:"heavy_noncombustible" yaml:"heavy_noncombustible"`
	LightNonCombustible   float64 `json:"light_noncombustible" yaml:"light_noncombustible"`
	ApprovedFoamPlastic   float64 `json:"approved_foam_plastic" yaml:"approved_foam_plastic"`
	UnapprovedFoamPlastic float64 `json:"unapproved_foam_plastic" yaml:"unapproved_foam_plastic"`
	OtherCombustible      float64 `json:"other_combustible" yaml:"other_combustible"`
}

// Total returns the sum of all five percentages.
func (m MaterialBreakdown) Total() float64 {
	return m.HeavyNonCombustible + m.LightNonCombustible + m.ApprovedFoamPlastic +
		m.UnapprovedFoamPlastic + m.OtherCombustible
}

// Tiers collapses the five materials into non-combustible, transitional and
// combustible percentages.
func (m MaterialBreakdown) Tiers() (nonCombustible, transitional, combustible float64) {
	return m.HeavyNonCombustible + m.LightNonCombustible,
		m.ApprovedFoamPlastic,
		m.UnapprovedFoamPlastic + m.OtherCombustible
}

// Construction holds the two surfaces that feed the building figure.
type Construction struct {
	Walls       MaterialBreakdown `json:"walls" yaml:"walls"`
	RoofCeiling MaterialBreakdown `json:"roof_ceiling" yaml:"roof_ceiling"`
}

// Building is one structure on a surveyed site. Areas are in square metres;
// missing or negative areas count as zero weight.
type Building struct {
	ID           string       `json:"id" yaml:"id"`
	Name         string       `json:"name,omitempty" yaml:"name,omitempty"`
	Construction Construction `json:"construction" yaml:"construction"`
	FloorArea    float64      `json:"floor_area" yaml:"floor_area"`
	RoofArea     float64      `json:"roof_area" yaml:"roof_area"`
}

// Area returns the building's weight in the site aggregate.
func (b Building) Area() float64 {
	return math.Max(0, b.FloorArea) + math.Max(0, b.RoofArea)
}

// BuildingResult is the computed breakdown for one building.
type BuildingResult struct {
	BuildingID string  `json:"building_id"`
	Walls      float64 `json:"walls"`
	Roof       float64 `json:"roof_ceiling"`
	Score      float64 `json:"score"`
	Area       float64 `json:"area"`
}

// SiteSummary is the site-wide aggregate.
type SiteSummary struct {
	// Score is the site combustibility indicator. Only meaningful when OK.
	Score float64 `json:"score"`
	// OK is false for an empty building list.
	OK bool `json:"ok"`
	// AreaWeighted is false when every building had zero area and the plain
	// mean was used instead.
	AreaWeighted bool             `json:"area_weighted"`
	TotalArea    float64          `json:"total_area"`
	Buildings    []BuildingResult `json:"buildings"`
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SurfaceScore returns the 0–100 badness of one surface. 100% heavy
// non-combustible scores 0; 100% unapproved foam/plastic scores 100.
func SurfaceScore(m MaterialBreakdown) float64 {
	nonComb, trans, comb := m.Tiers()
	return clamp(nonComb*nonCombustibleWeight + trans*transitionalWeight + comb*combustibleWeight)
}

// wallWeight scales linearly between the two wall weights as the roof surface
// improves from fully combustible to fully non-combustible.
func wallWeight(roof float64) float64 {
	return wallWeightCombustibleRoof +
		(wallWeightNonCombustibleRoof-wallWeightCombustibleRoof)*(1-roof/100)
}

// Combine merges wall and roof/ceiling surface scores into the building
// figure.
func Combine(walls, roof float64) float64 {
	walls, roof = clamp(walls), clamp(roof)
	w := wallWeight(roof)
	return clamp(w*walls + (1-w)*roof)
}

// Score computes the full breakdown for a single building.
func Score(b Building) BuildingResult {
	walls := SurfaceScore(b.Construction.Walls)
	roof := SurfaceScore(b.Construction.RoofCeiling)
	return BuildingResult{
		BuildingID: b.ID,
		Walls:      walls,
		Roof:       roof,
		Score:      Combine(walls, roof),
		Area:       b.Area(),
	}
}

// BuildingScore returns only the combined building indicator.
func BuildingScore(b Building) float64 {
	return Score(b).Score
}

// Site aggregates buildings into an area-weighted site indicator, so larger
// buildings dominate. An empty list returns OK=false and the caller must not
// display the score.
func Site(buildings []Building) SiteSummary {
	sum := SiteSummary{Buildings: make([]BuildingResult, 0, len(buildings))}
	if len(buildings) == 0 {
		return sum
	}

	var weighted, plain float64
	for _, b := range buildings {
		r := Score(b)
		sum.Buildings = append(sum.Buildings, r)
		weighted += r.Score * r.Area
		plain += r.Score
		sum.TotalArea += r.Area
	}

	sum.OK = true
	if sum.TotalArea > 0 {
		sum.AreaWeighted = true
		sum.Score = clamp(weighted / sum.TotalArea)
		return sum
	}
	sum.Score = clamp(plain / float64(len(buildings)))
	return sum
}

// SiteScore is the single-number form of Site. Returns 0 for no buildings.
func SiteScore(buildings []Building) float64 {
	return Site(buildings).Score
}

// ─── ADVISORY VALIDATION ──────────────────────────────────────────────────────

// Warning is an advisory message about form input. Warnings never stop a
// calculation or a save.
type Warning struct {
	BuildingID string  `json:"building_id"`
	Surface    string  `json:"surface"`
	Total      float64 `json:"total"`
	Message    string  `json:"message"`
}

// Warnings returns one warning per surface whose percentages do not add up
// to 100.
func Warnings(b Building) []Warning {
	var out []Warning
	check := func(surface string, m MaterialBreakdown) {
		total := m.Total()
		if math.Abs(total-100) <= percentTolerance {
			return
		}
		out = append(out, Warning{
			BuildingID: b.ID,
			Surface:    surface,
			Total:      total,
			Message:    fmt.Sprintf("%s percentages total %.1f%%, expected 100%%", surface, total),
		})
	}
	check("walls", b.Construction.Walls)
	check("roof_ceiling", b.Construction.RoofCeiling)
	return out
}

// SiteWarnings collects Warnings for every building.
func SiteWarnings(buildings []Building) []Warning {
	var out []Warning
	for _, b := range buildings {
		out = append(out, Warnings(b)...)
	}
	return out
}
