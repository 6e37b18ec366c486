package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"github.com/nyashahama/property-risk-survey-backend/internal/catalog"
	"github.com/nyashahama/property-risk-survey-backend/internal/db"
	"github.com/nyashahama/property-risk-survey-backend/internal/store"
	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

// loadCatalog loads and validates a catalog. An empty path means none.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return nil, nil
	}
	c, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s is invalid:\n%w", path, err)
	}
	return c, nil
}

func runScore(out io.Writer, sitePath, catalogPath string, asJSON bool) error {
	site, err := loadSite(sitePath)
	if err != nil {
		return err
	}
	c, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	in, err := site.input(c)
	if err != nil {
		return err
	}

	res := survey.Evaluate(in)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(out, site, res)
	return nil
}

func runValidate(out io.Writer, catalogPath string) error {
	c, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "catalog OK: %d sector weightings, %d recommendation templates\n",
		len(c.SectorWeightings), len(c.Templates))
	return nil
}

func runSeed(ctx context.Context, out io.Writer, catalogPath, databaseURL string) error {
	if databaseURL == "" {
		return fmt.Errorf("no database: pass --database-url or set DATABASE_URL")
	}

	c, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}
	weightings, err := c.Weightings()
	if err != nil {
		return err
	}

	pool, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	st := store.New(pool, db.New(pool))
	if err := st.SeedCatalog(ctx, weightings, c.Templates); err != nil {
		return err
	}

	fmt.Fprintf(out, "seeded %d sector weightings and %d recommendation templates\n",
		len(weightings), len(c.Templates))
	return nil
}
