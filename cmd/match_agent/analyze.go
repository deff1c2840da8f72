package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Explain the skills gap between a structured resume and one job",
	Long:  "Compare a StructuredResume JSON file against a single job listing JSON file and report aligned skills, missing skills, strengths and suggestions.",
	RunE:  runAnalyze,
}

var (
	analyzeResume string
	analyzeJob    string
	analyzeOut    string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to StructuredResume JSON (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job listing JSON (required)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = analyzeCmd.MarkFlagRequired("resume")
	_ = analyzeCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var resume types.StructuredResume
	if err := readJSON(analyzeResume, &resume); err != nil {
		return err
	}
	var job types.JobListing
	if err := readJSON(analyzeJob, &job); err != nil {
		return err
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job listing: %w", err)
	}

	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	result, err := runner.Analyzer.Analyze(ctx, &resume, &job)
	if err != nil {
		return err
	}

	if p := printer(); p != nil {
		p.PrintAnalysis(&job, result)
	}
	return writeOutput(cmd.OutOrStdout(), analyzeOut, result)
}
