package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/bootstrap"
)

const defaultTopKeywords = 20

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract weighted keywords from a document",
	RunE:  runKeywords,
}

var (
	keywordsFile string
	keywordsTop  int
)

func init() {
	keywordsCmd.Flags().StringVarP(&keywordsFile, "file", "f", "", "Path to the document (required)")
	keywordsCmd.Flags().IntVarP(&keywordsTop, "top", "n", defaultTopKeywords, "Number of keywords to return")
	_ = keywordsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	if keywordsTop < 1 {
		return fmt.Errorf("--top must be positive, got %d", keywordsTop)
	}

	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	text, err := documentText(app, keywordsFile)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), app.Skills.ExtractKeywords(text, keywordsTop))
}

// documentText extracts the text of any supported document
func documentText(app *bootstrap.App, path string) (string, error) {
	res, err := app.Ingestion.ExtractFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", path, err)
	}
	return res.Document.Text, nil
}
