// Package scoring implements the sector-weighted site risk score: six
// dimension sub-scores (0–100, lower = worse) are combined using per-sector
// weights into an overall score and a risk band. It is intentionally
// dependency-free: it imports nothing from internal/ and can be tested
// without a database.
package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// ─── DIMENSIONS ───────────────────────────────────────────────────────────────

// Dimension identifies one of the six sub-scores. The string values match the
// sector_weightings column names.
type Dimension int

const (
	Construction Dimension = iota
	FireProtection
	Detection
	Management
	SpecialHazards
	BusinessInterruption

	numDimensions
)

// Dimensions lists every dimension in canonical order.
var Dimensions = [numDimensions]Dimension{
	Construction, FireProtection, Detection, Management, SpecialHazards, BusinessInterruption,
}

var dimensionKeys = [numDimensions]string{
	"construction",
	"fire_protection",
	"detection",
	"management",
	"special_hazards",
	"business_interruption",
}

var dimensionLabels = [numDimensions]string{
	"Construction",
	"Fire Protection",
	"Detection",
	"Management",
	"Special Hazards",
	"Business Interruption",
}

// String returns the snake_case key.
func (d Dimension) String() string {
	if d < 0 || d >= numDimensions {
		return fmt.Sprintf("dimension(%d)", int(d))
	}
	return dimensionKeys[d]
}

// Label returns the human-readable name used in reports.
func (d Dimension) Label() string {
	if d < 0 || d >= numDimensions {
		return d.String()
	}
	return dimensionLabels[d]
}

// ParseDimension maps a snake_case key back to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	for i, k := range dimensionKeys {
		if k == s {
			return Dimension(i), nil
		}
	}
	return 0, fmt.Errorf("scoring: unknown dimension %q", s)
}

// MarshalText implements encoding.TextMarshaler so dimensions serialise as
// their keys.
func (d Dimension) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Dimension) UnmarshalText(b []byte) error {
	parsed, err := ParseDimension(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ─── SCORE / WEIGHT VECTORS ───────────────────────────────────────────────────

// vector is the shared JSON shape of DimensionScores and Weights.
type vector struct {
	Construction         float64 `json:"construction"`
	FireProtection       float64 `json:"fire_protection"`
	Detection            float64 `json:"detection"`
	Management           float64 `json:"management"`
	SpecialHazards       float64 `json:"special_hazards"`
	BusinessInterruption float64 `json:"business_interruption"`
}

func (v vector) array() [numDimensions]float64 {
	return [numDimensions]float64{
		v.Construction, v.FireProtection, v.Detection, v.Management, v.SpecialHazards, v.BusinessInterruption,
	}
}

func fromArray(a [numDimensions]float64) vector {
	return vector{a[0], a[1], a[2], a[3], a[4], a[5]}
}

// decodeVector reads the keyed object form. An unknown key is an error so a
// misspelled dimension never decodes as a zero score.
func decodeVector(b []byte) ([numDimensions]float64, error) {
	var v vector
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return [numDimensions]float64{}, fmt.Errorf("dimension object: %w", err)
	}
	return v.array(), nil
}

// DimensionScores holds one 0–100 score per dimension, lower = worse.
type DimensionScores [numDimensions]float64

// MarshalJSON writes the scores as an object keyed by dimension.
func (s DimensionScores) MarshalJSON() ([]byte, error) {
	return json.Marshal(fromArray(s))
}

// UnmarshalJSON reads the keyed object form. Missing keys are zero; unknown
// keys are rejected.
func (s *DimensionScores) UnmarshalJSON(b []byte) error {
	a, err := decodeVector(b)
	if err != nil {
		return err
	}
	*s = a
	return nil
}

// Weights holds one relative weight per dimension. Weights need not sum to
// any particular total.
type Weights [numDimensions]float64

// MarshalJSON writes the weights as an object keyed by dimension.
func (w Weights) MarshalJSON() ([]byte, error) {
	return json.Marshal(fromArray(w))
}

// UnmarshalJSON reads the keyed object form. Missing keys are zero; unknown
// keys are rejected.
func (w *Weights) UnmarshalJSON(b []byte) error {
	a, err := decodeVector(b)
	if err != nil {
		return err
	}
	*w = a
	return nil
}

// Sum returns the total of all weights, ignoring negative values.
func (w Weights) Sum() float64 {
	total := 0.0
	for _, v := range w {
		total += math.Max(0, v)
	}
	return total
}

// EqualWeights gives every dimension the same share.
func EqualWeights() Weights {
	var w Weights
	for i := range w {
		w[i] = 1
	}
	return w
}

// ─── RISK BANDS ───────────────────────────────────────────────────────────────

// RiskBand is the label derived from the overall score.
type RiskBand string

const (
	BandVeryGood  RiskBand = "Very Good"
	BandGood      RiskBand = "Good"
	BandTolerable RiskBand = "Tolerable"
	BandPoor      RiskBand = "Poor"
	BandVeryPoor  RiskBand = "Very Poor"
)

// Band thresholds; a score at or above the threshold earns the band.
const (
	veryGoodThreshold  = 85
	goodThreshold      = 70
	tolerableThreshold = 50
	poorThreshold      = 30
)

// Bands lists the bands from worst to best.
var Bands = []RiskBand{BandVeryPoor, BandPoor, BandTolerable, BandGood, BandVeryGood}

// Rank returns the band's position in Bands (0 = Very Poor), or -1.
func (b RiskBand) Rank() int {
	for i, band := range Bands {
		if band == b {
			return i
		}
	}
	return -1
}

// Band maps an overall score onto a risk band. A higher score never yields a
// worse band.
func Band(score float64) RiskBand {
	switch {
	case score >= veryGoodThreshold:
		return BandVeryGood
	case score >= goodThreshold:
		return BandGood
	case score >= tolerableThreshold:
		return BandTolerable
	case score >= poorThreshold:
		return BandPoor
	default:
		return BandVeryPoor
	}
}

// ─── CORE FUNCTIONS ───────────────────────────────────────────────────────────

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// normalise returns non-negative weights and their total. A zero total falls
// back to equal weights so the score is always defined.
func normalise(w Weights) (Weights, float64) {
	var out Weights
	for i, v := range w {
		out[i] = math.Max(0, v)
	}
	total := out.Sum()
	if total == 0 {
		out = EqualWeights()
		total = out.Sum()
	}
	return out, total
}

// OverallScore computes Σ(score × weight) / Σweight. Because the result is
// normalised by total weight, scaling every weight by the same positive
// constant leaves it unchanged.
func OverallScore(scores DimensionScores, weights Weights) float64 {
	w, total := normalise(weights)
	sum := 0.0
	for i, s := range scores {
		sum += clampScore(s) * w[i]
	}
	return clampScore(sum / total)
}

// Contribution is one dimension's share of the overall score.
type Contribution struct {
	Dimension Dimension `json:"dimension"`
	Label     string    `json:"label"`
	Score     float64   `json:"score"`
	Weight    float64   `json:"weight"`
	// Points is the dimension's contribution to the overall score.
	Points float64 `json:"points"`
	// Shortfall is how many overall points the dimension loses against a
	// perfect 100.
	Shortfall float64 `json:"shortfall"`
}

// Contributions returns every dimension's contribution in canonical order.
func Contributions(scores DimensionScores, weights Weights) []Contribution {
	w, total := normalise(weights)
	out := make([]Contribution, 0, numDimensions)
	for _, d := range Dimensions {
		s := clampScore(scores[d])
		out = append(out, Contribution{
			Dimension: d,
			Label:     d.Label(),
			Score:     s,
			Weight:    w[d],
			Points:    s * w[d] / total,
			Shortfall: (100 - s) * w[d] / total,
		})
	}
	return out
}

// LowestContributors ranks dimensions by how much they depress the overall
// score (largest shortfall first, ties in canonical order) and returns the
// first n. n <= 0 returns all six.
func LowestContributors(scores DimensionScores, weights Weights, n int) []Contribution {
	cs := Contributions(scores, weights)
	sort.SliceStable(cs, func(a, b int) bool {
		return cs[a].Shortfall > cs[b].Shortfall
	})
	if n > 0 && n < len(cs) {
		cs = cs[:n]
	}
	return cs
}
