package main

import (
	"fmt"
	"io"

	"github.com/nyashahama/property-risk-survey-backend/internal/survey"
)

func printResult(out io.Writer, site *Site, res survey.Result) {
	if site.Name != "" {
		fmt.Fprintf(out, "SITE: %s\n\n", site.Name)
	}

	fmt.Fprintln(out, "COMBUSTIBILITY")
	if !res.Combustibility.OK {
		fmt.Fprintln(out, "  no buildings captured")
	} else {
		for _, b := range res.Combustibility.Buildings {
			fmt.Fprintf(out, "  %-16s walls %6.1f  roof %6.1f  building %6.1f  area %8.0f\n",
				b.BuildingID, b.Walls, b.Roof, b.Score, b.Area)
		}
		weighting := "area-weighted"
		if !res.Combustibility.AreaWeighted {
			weighting = "unweighted mean"
		}
		fmt.Fprintf(out, "  site: %.1f (%s)\n", res.Combustibility.Score, weighting)
	}
	fmt.Fprintln(out)

	if len(res.Warnings) > 0 {
		fmt.Fprintf(out, "WARNINGS (%d):\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [%s/%s] %s\n", w.BuildingID, w.Surface, w.Message)
		}
		fmt.Fprintln(out)
	}

	if len(site.Modules) == 0 {
		return
	}

	a := res.Assessment
	sector := a.Sector
	if sector == "" {
		sector = "(none)"
	}
	fmt.Fprintf(out, "ASSESSMENT  sector %s", sector)
	if res.WeightingSector != "" && res.WeightingSector != a.Sector {
		fmt.Fprintf(out, " using %s weights", res.WeightingSector)
	} else if res.WeightingSector == "" {
		fmt.Fprint(out, " using equal weights")
	}
	fmt.Fprintln(out)

	if a.Unassessable {
		fmt.Fprintln(out, "  unassessable: no module maps to a scored dimension")
		fmt.Fprintln(out)
	} else {
		fmt.Fprintf(out, "  overall: %.1f  band: %s\n", a.Overall, a.Band)
		for _, d := range a.Covered {
			fmt.Fprintf(out, "  %-22s %6.1f  weight %5.1f\n", d.Label(), a.Scores[d], a.Weights[d])
		}
		if len(a.LowestThree) > 0 {
			fmt.Fprintln(out, "  lowest contributors:")
			for _, c := range a.LowestThree {
				fmt.Fprintf(out, "    * %s (-%.1f)\n", c.Label, c.Shortfall)
			}
		}
		fmt.Fprintln(out)
	}

	if len(res.Actions) > 0 {
		fmt.Fprintf(out, "ACTIONS (%d):\n", len(res.Actions))
		for _, act := range res.Actions {
			fmt.Fprintf(out, "  [%s] %s: %s (%s)\n", act.Priority, act.ModuleKey, act.Title, act.Reason)
		}
	}
}
