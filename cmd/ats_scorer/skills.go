package main

import (
	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Detect catalog and candidate skills in a document",
	RunE:  runSkills,
}

var skillsFile string

func init() {
	skillsCmd.Flags().StringVarP(&skillsFile, "file", "f", "", "Path to the document (required)")
	_ = skillsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(skillsCmd)
}

func runSkills(cmd *cobra.Command, _ []string) error {
	app, cleanup, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	text, err := documentText(app, skillsFile)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), app.Skills.ExtractSkills(text))
}
