package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"classlib-backend/internal/domains/importer/model"
	"classlib-backend/pkg/container"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import items|borrowers",
	Short: "Reconcile a CSV or XLSX file into the catalog",
	Long: `Import runs a file through the same pipeline as POST /api/v1/imports.
Bad rows are reported and skipped; the run is recorded like any other.

Examples:
  # Merge a borrower roster
  classlib import borrowers --file roster.csv

  # Merge the catalog from a spreadsheet
  classlib import items --file catalog.xlsx`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(model.KindItems), string(model.KindBorrowers)},
	RunE:      runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path of the CSV or XLSX file")
	_ = importCmd.MarkFlagRequired("file")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind := model.Kind(args[0])

	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}

	c, err := container.NewContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	run, err := c.ImportService.ImportFile(ctx, kind, filepath.Base(importFile), data)
	if err != nil {
		return err
	}

	printRun(run)
	if run.Status == model.RunStatusFailed {
		return fmt.Errorf("import failed: %s", failureOf(run))
	}
	return nil
}

func printRun(run *model.ImportRun) {
	log.Info().
		Str("run_id", run.ID.String()).
		Str("status", run.Status).
		Int("total_rows", run.TotalRows).
		Int("inserted", run.InsertedCount).
		Int("updated", run.UpdatedCount).
		Int("row_errors", len(run.Errors)).
		Msg("Import finished")

	for _, rowErr := range run.Errors {
		fmt.Fprintf(os.Stderr, "row %d: %s\n", rowErr.Row, rowErr.Message)
	}
}

func failureOf(run *model.ImportRun) string {
	if run.Failure == nil {
		return "unknown error"
	}
	return *run.Failure
}
