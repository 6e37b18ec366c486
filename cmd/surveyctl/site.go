package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nyashahama/property-risk-survey-backend/internal/catalog"
	"github.com/nyashahama/property-risk-survey-backend/internal/combustibility"
	"github.com/nyashahama/property-risk-survey-backend/internal/recommend"
	"github.com/nyashahama/property-risk-survey-backend/internal/scoring"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

// Site is a surveyed site written by hand or exported from the survey form.
type Site struct {
	Name      string                    `yaml:"name"`
	Sector    string                    `yaml:"sector"`
	Buildings []combustibility.Building `yaml:"buildings"`
	Modules   []SiteModule              `yaml:"modules"`
}

// SiteModule is one completed survey module. Rating is optional (0 = none).
type SiteModule struct {
	Key     string          `yaml:"key"`
	Outcome scoring.Outcome `yaml:"outcome"`
	Rating  int             `yaml:"rating"`
}

// loadSite reads and parses a site file.
func loadSite(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site file: %w", err)
	}
	return parseSite(data)
}

// parseSite decodes a site file and checks the fields the scorers cannot
// repair themselves. Percentage totals are left to the warnings.
func parseSite(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing site YAML: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(s.Buildings))
	for i, b := range s.Buildings {
		if strings.TrimSpace(b.ID) == "" {
			errs = append(errs, fmt.Errorf("buildings[%d]: id is required", i))
			continue
		}
		if seen[b.ID] {
			errs = append(errs, fmt.Errorf("buildings[%d]: duplicate id %q", i, b.ID))
		}
		seen[b.ID] = true
	}
	for i, m := range s.Modules {
		if strings.TrimSpace(m.Key) == "" {
			errs = append(errs, fmt.Errorf("modules[%d]: key is required", i))
		}
		if !m.Outcome.Valid() {
			errs = append(errs, fmt.Errorf("modules[%d]: unknown outcome %q", i, m.Outcome))
		}
		if m.Rating != 0 && (m.Rating < recommend.MinRating || m.Rating > recommend.MaxRating) {
			errs = append(errs, fmt.Errorf("modules[%d]: rating %d out of range [%d,%d]",
				i, m.Rating, recommend.MinRating, recommend.MaxRating))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &s, nil
}

// input builds the evaluator input for the site. A nil catalog scores with
// equal weights and raises no actions.
func (s *Site) input(c *catalog.Catalog) (survey.Input, error) {
	in := survey.Input{
		Sector:    s.Sector,
		Buildings: s.Buildings,
		Modules:   make([]recommend.ModuleInstance, len(s.Modules)),
	}
	for i, m := range s.Modules {
		in.Modules[i] = recommend.ModuleInstance{
			ID:        fmt.Sprintf("m%d", i+1),
			ModuleKey: m.Key,
			Outcome:   m.Outcome,
			Rating:    m.Rating,
		}
	}
	if c == nil {
		return in, nil
	}

	weightings, err := c.Weightings()
	if err != nil {
		return survey.Input{}, err
	}
	in.Weightings = weightings
	in.Templates = c.Templates
	return in, nil
}
