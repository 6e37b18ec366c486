// Command surveyctl scores survey site files offline and manages the shared
// catalog of sector weightings and recommendation templates.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

const defaultCatalogPath = "db/seed/catalog.yaml"

func main() {
	rootCmd := &cobra.Command{
		Use:          "surveyctl",
		Short:        "Property risk survey scoring and catalog tools",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scoreCmd() *cobra.Command {
	var (
		catalogPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "score [site.yaml]",
		Short: "Compute combustibility, the sector assessment and actions for a site file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), args[0], catalogPath, asJSON)
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", defaultCatalogPath, "catalog YAML with sector weightings and templates")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [catalog.yaml]",
		Short: "Validate a catalog file without writing it anywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0])
		},
	}
}

func seedCmd() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "seed [catalog.yaml]",
		Short: "Validate a catalog file and upsert it into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			return runSeed(cmd.Context(), cmd.OutOrStdout(), args[0], databaseURL)
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (default $DATABASE_URL)")
	return cmd
}
