package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DefaultSector is the name of the fallback sector_weightings row.
const DefaultSector = "Default"

// SectorWeighting is one row of the sector_weightings table: the relative
// importance of each dimension for an industry sector. Admins edit these rows;
// the weights are conventionally percentages summing to 100, but the scorer
// only relies on them being non-negative with a positive total.
//
// DB / seed JSON shape:
//
//	{
//	  "sector":  "Food Processing",
//	  "weights": {
//	    "construction": 25, "fire_protection": 20, "detection": 15,
//	    "management": 15, "special_hazards": 15, "business_interruption": 10
//	  }
//	}
type SectorWeighting struct {
	Sector  string  `json:"sector" yaml:"sector"`
	Weights Weights `json:"weights" yaml:"-"`
}

// Validate checks that the sector is named and every weight is a finite,
// non-negative number with a positive total. Call this when a row is written,
// not on every score.
func (sw SectorWeighting) Validate() error {
	if strings.TrimSpace(sw.Sector) == "" {
		return fmt.Errorf("sector weighting: sector must not be empty")
	}
	for _, d := range Dimensions {
		v := sw.Weights[d]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sector weighting %q: %s is not a finite number", sw.Sector, d)
		}
		if v < 0 {
			return fmt.Errorf("sector weighting %q: %s=%g must be >= 0", sw.Sector, d, v)
		}
	}
	if sw.Weights.Sum() == 0 {
		return fmt.Errorf("sector weighting %q: weights must not all be zero", sw.Sector)
	}
	return nil
}

// SumsTo100 reports whether the weights follow the percentage convention.
// It is advisory; OverallScore normalises regardless.
func (sw SectorWeighting) SumsTo100() bool {
	return math.Abs(sw.Weights.Sum()-100) < 0.01
}

// ParseSectorWeighting unmarshals and validates a JSON blob.
func ParseSectorWeighting(raw json.RawMessage) (SectorWeighting, error) {
	if len(raw) == 0 {
		return SectorWeighting{}, fmt.Errorf("sector weighting: empty JSON")
	}
	var sw SectorWeighting
	if err := json.Unmarshal(raw, &sw); err != nil {
		return SectorWeighting{}, fmt.Errorf("sector weighting: %w", err)
	}
	if err := sw.Validate(); err != nil {
		return SectorWeighting{}, err
	}
	return sw, nil
}

// ResolveWeights picks the weights for sector: an exact (case-insensitive)
// match first, then the Default row, then equal weights. The returned name is
// the row actually used.
func ResolveWeights(rows []SectorWeighting, sector string) (Weights, string) {
	sector = strings.TrimSpace(sector)
	var fallback *SectorWeighting
	for i := range rows {
		if sector != "" && strings.EqualFold(rows[i].Sector, sector) {
			return rows[i].Weights, rows[i].Sector
		}
		if fallback == nil && strings.EqualFold(rows[i].Sector, DefaultSector) {
			fallback = &rows[i]
		}
	}
	if fallback != nil {
		return fallback.Weights, fallback.Sector
	}
	return EqualWeights(), ""
}
