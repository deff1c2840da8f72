package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/extraction"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text from a resume PDF",
	Long:  "Extract and normalize the text of a resume document. No model is called.",
	RunE:  runExtract,
}

var (
	extractResume string
	extractOut    string
)

func init() {
	extractCmd.Flags().StringVarP(&extractResume, "resume", "r", "", "Path to the resume file (required)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = extractCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := readDocument(extractResume)
	if err != nil {
		return err
	}

	text, err := extraction.New(cfg.ExtractionOptions()).Extract(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	if p := printer(); p != nil {
		p.PrintExtractedText(text)
	}
	return writeOutput(cmd.OutOrStdout(), extractOut, text)
}
