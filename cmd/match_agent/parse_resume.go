package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/pipeline"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Extract a structured resume from a resume PDF",
	Long:  "Extract the text of a resume document and structure it into StructuredResume JSON with the configured model.",
	RunE:  runParseResume,
}

var (
	parseResume string
	parseOut    string
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResume, "resume", "r", "", "Path to the resume file (required)")
	parseResumeCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = parseResumeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := readDocument(parseResume)
	if err != nil {
		return err
	}
	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	text, err := runner.Extractor.Extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	resume, err := runner.ParseResume(ctx, text, pipeline.Options{OnProgress: progress()})
	if err != nil {
		return err
	}

	if p := printer(); p != nil {
		p.PrintExtractedText(text)
		p.PrintResume(resume)
	}
	return writeOutput(cmd.OutOrStdout(), parseOut, resume)
}
