// Package catalog loads the reference data that admins maintain outside the
// survey flow (sector weightings and recommendation templates) from a YAML
// seed file.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
)

// Catalog is the parsed seed file.
type Catalog struct {
	SectorWeightings []WeightingEntry     `yaml:"sector_weightings"`
	Templates        []recommend.Template `yaml:"recommendation_templates"`
}

// WeightingEntry is one sector row as written in YAML. Weights are keyed by
// dimension name so a typo is reported rather than silently zeroed.
type WeightingEntry struct {
	Sector  string             `yaml:"sector"`
	Weights map[string]float64 `yaml:"weights"`
}

// SectorWeighting converts the entry into the scoring type.
func (e WeightingEntry) SectorWeighting() (scoring.SectorWeighting, error) {
	sw := scoring.SectorWeighting{Sector: strings.TrimSpace(e.Sector)}
	for key, v := range e.Weights {
		d, err := scoring.ParseDimension(key)
		if err != nil {
			return scoring.SectorWeighting{}, fmt.Errorf("sector %q: %w", e.Sector, err)
		}
		sw.Weights[d] = v
	}
	return sw, nil
}

// Load reads and parses a catalog YAML file. It does not validate; call
// Validate before writing the catalog anywhere.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML from memory.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return &c, nil
}

// Weightings converts every entry. The first conversion error is returned.
func (c *Catalog) Weightings() ([]scoring.SectorWeighting, error) {
	out := make([]scoring.SectorWeighting, 0, len(c.SectorWeightings))
	for _, e := range c.SectorWeightings {
		sw, err := e.SectorWeighting()
		if err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	return out, nil
}

// Validate reports every problem in the catalog at once: invalid weightings,
// duplicate sectors, a missing Default row, invalid or duplicate templates.
func (c *Catalog) Validate() error {
	var errs []error

	sectors := make(map[string]bool, len(c.SectorWeightings))
	for _, e := range c.SectorWeightings {
		sw, err := e.SectorWeighting()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := sw.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		key := strings.ToLower(sw.Sector)
		if sectors[key] {
			errs = append(errs, fmt.Errorf("sector weighting %q: duplicate sector", sw.Sector))
		}
		sectors[key] = true
	}
	if !sectors[strings.ToLower(scoring.DefaultSector)] {
		errs = append(errs, fmt.Errorf("sector weightings: a %q row is required", scoring.DefaultSector))
	}

	ids := make(map[string]bool, len(c.Templates))
	for _, t := range c.Templates {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if ids[t.ID] {
			errs = append(errs, fmt.Errorf("template %q: duplicate id", t.ID))
		}
		ids[t.ID] = true
	}

	return errors.Join(errs...)
}
