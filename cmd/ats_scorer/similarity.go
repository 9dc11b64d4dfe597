package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/types"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Compare two documents lexically and, optionally, semantically",
	RunE:  runSimilarity,
}

var (
	similarityA        string
	similarityB        string
	similaritySemantic bool
)

// similarityOutput is the JSON printed by the similarity command
type similarityOutput struct {
	Lexical  types.LexicalSimilarity   `json:"lexical"`
	Semantic *types.SemanticSimilarity `json:"semantic,omitempty"`
}

func init() {
	similarityCmd.Flags().StringVarP(&similarityA, "a", "a", "", "Path to the first document (required)")
	similarityCmd.Flags().StringVarP(&similarityB, "b", "b", "", "Path to the second document (required)")
	similarityCmd.Flags().BoolVar(&similaritySemantic, "semantic", false, "Also compute embedding similarity and sentence alignments")
	_ = similarityCmd.MarkFlagRequired("a")
	_ = similarityCmd.MarkFlagRequired("b")

	rootCmd.AddCommand(similarityCmd)
}

func runSimilarity(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	textA, err := documentText(app, similarityA)
	if err != nil {
		return err
	}
	textB, err := documentText(app, similarityB)
	if err != nil {
		return err
	}

	out := similarityOutput{Lexical: app.Lexical.LexicalSimilarity(textA, textB)}
	if similaritySemantic {
		out.Semantic, err = app.Semantic.Similarity(cmd.Context(), textA, textB)
		if err != nil {
			return err
		}
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
