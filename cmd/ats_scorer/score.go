package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-scorer/internal/bootstrap"
	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/fetch"
	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/observability"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a résumé against a job description",
	Long: `Extract a résumé (pdf, docx, txt, md, html or json) and score it against a job
description read from a file or fetched from a URL. The analysis is written as JSON.`,
	RunE: runScore,
}

var (
	scoreResume  string
	scoreJob     string
	scoreJobURL  string
	scoreOut     string
	scoreSave    bool
	scoreVerbose bool
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to the résumé file (required)")
	scoreCmd.Flags().StringVarP(&scoreJob, "job", "j", "", "Path to a job description text or HTML file")
	scoreCmd.Flags().StringVarP(&scoreJobURL, "job-url", "u", "", "URL of a job posting to fetch")
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "Write the analysis to this file instead of stdout")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "Persist the analysis in the configured database")
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "Print a readable report to stderr")

	_ = scoreCmd.MarkFlagRequired("resume")
	scoreCmd.MarkFlagsMutuallyExclusive("job", "job-url")
	scoreCmd.MarkFlagsOneRequired("job", "job-url")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()

	extracted, err := app.Ingestion.ExtractFile(scoreResume)
	if err != nil {
		return fmt.Errorf("failed to extract résumé: %w", err)
	}
	doc := extracted.Document

	jobDescription, err := loadJobDescription(ctx, app)
	if err != nil {
		return err
	}

	result, err := app.Scorer.Score(ctx, doc, jobDescription)
	if err != nil {
		return err
	}

	if scoreVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintAnalysis(&doc, result)
	}

	if scoreSave {
		id, err := saveAnalysis(ctx, app, &db.Analysis{
			JobDescription: jobDescription,
			ResumeHash:     doc.Metadata.ContentHash,
			ResumeSource:   doc.Metadata.Source,
			Result:         *result,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved analysis %s\n", id)
	}

	if scoreOut != "" {
		if err := writeJSONFile(scoreOut, result); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Analysis written to %s (score %.1f)\n", scoreOut, result.TotalScore)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// loadJobDescription reads --job or fetches --job-url
func loadJobDescription(ctx context.Context, app *bootstrap.App) (string, error) {
	if scoreJobURL != "" {
		posting, err := fetch.JobDescription(ctx, scoreJobURL, app.JobOptions())
		if err != nil {
			return "", fmt.Errorf("failed to fetch job description: %w", err)
		}
		app.Logger.Info("fetched job description",
			zap.String("platform", string(posting.Platform)),
			zap.Bool("rendered", posting.Rendered))
		return posting.Text, nil
	}

	data, err := os.ReadFile(scoreJob)
	if err != nil {
		return "", fmt.Errorf("failed to read job description: %w", err)
	}
	switch ingestion.Extension(scoreJob) {
	case ".html", ".htm":
		text, err := fetch.ExtractMainText(string(data), fetch.JobPostingSelectors())
		if err != nil {
			return "", fmt.Errorf("failed to extract job description: %w", err)
		}
		return text, nil
	default:
		return strings.TrimSpace(ingestion.CleanText(string(data))), nil
	}
}

// saveAnalysis persists a into the configured store and returns its id
func saveAnalysis(ctx context.Context, app *bootstrap.App, a *db.Analysis) (string, error) {
	store, err := app.OpenStore(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to open database: %w", err)
	}
	if store == nil {
		return "", fmt.Errorf("--save requires database.driver to be postgres or sqlite")
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveAnalysis(ctx, a); err != nil {
		return "", fmt.Errorf("failed to save analysis: %w", err)
	}
	return a.ID.String(), nil
}
