package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/bootstrap"
	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analyses, newest first",
	RunE:  runHistory,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one stored analysis as JSON",
	RunE:  runShow,
}

var (
	historyLimit int
	historyJSON  bool
	showID       string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultListLimit, "Maximum number of analyses to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the analyses as JSON")
	showCmd.Flags().StringVar(&showID, "id", "", "Analysis ID (required)")
	_ = showCmd.MarkFlagRequired("id")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}

// openStore opens the configured store or explains how to enable one
func openStore(ctx context.Context, app *bootstrap.App) (db.Store, error) {
	store, err := app.OpenStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("analysis history is disabled; set database.driver to postgres or sqlite")
	}
	return store, nil
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", historyLimit)
	}

	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := openStore(cmd.Context(), app)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analyses, err := store.ListAnalyses(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	if historyJSON {
		return writeJSON(cmd.OutOrStdout(), analyses)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSCORE\tSOURCE\tJOB DESCRIPTION")
	for _, a := range analyses {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\n",
			a.ID, a.CreatedAt.Local().Format("2006-01-02 15:04"), a.TotalScore, a.ResumeSource,
			logger.TruncateForLog(oneLine(a.JobDescription), 40))
	}
	return tw.Flush()
}

func runShow(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(showID)
	if err != nil {
		return fmt.Errorf("invalid --id %q: %w", showID, err)
	}

	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := openStore(cmd.Context(), app)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	analysis, err := store.GetAnalysis(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load analysis: %w", err)
	}
	if analysis == nil {
		return fmt.Errorf("analysis %s not found", id)
	}
	return writeJSON(cmd.OutOrStdout(), analysis)
}

// oneLine collapses whitespace so table rows stay on one line
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
