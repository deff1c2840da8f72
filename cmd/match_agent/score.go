package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/pipeline"
	"github.com/jonathan/internship-matcher/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank jobs for a structured resume without calling a model",
	Long:  "Score a StructuredResume JSON file against a JSON array of job listings and print the ranked matches.",
	RunE:  runScore,
}

var (
	scoreResume string
	scoreJobs   string
	scoreOut    string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResume, "resume", "r", "", "Path to StructuredResume JSON (required)")
	scoreCmd.Flags().StringVarP(&scoreJobs, "jobs", "j", "", "Path to a JSON array of job listings (required)")
	scoreCmd.Flags().StringVarP(&scoreOut, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = scoreCmd.MarkFlagRequired("resume")
	_ = scoreCmd.MarkFlagRequired("jobs")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var resume types.StructuredResume
	if err := readJSON(scoreResume, &resume); err != nil {
		return err
	}
	jobs, err := readJobs(scoreJobs)
	if err != nil {
		return err
	}

	scorer, err := newScorer(cfg)
	if err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	runner := &pipeline.Runner{Scorer: scorer}
	result, err := runner.Match(cmd.Context(), &resume, jobs, pipeline.Options{OnProgress: progress()})
	if err != nil {
		return err
	}

	if p := printer(); p != nil {
		p.PrintMatches(result.Matches, jobs)
		p.PrintFailures("SKIPPED JOBS", result.Skipped)
	}
	return writeOutput(cmd.OutOrStdout(), scoreOut, result)
}
