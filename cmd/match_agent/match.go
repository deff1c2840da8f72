package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/internship-matcher/internal/db"
	"github.com/jonathan/internship-matcher/internal/pipeline"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run the full pipeline for a resume PDF against job listings",
	Long: `Extract, structure and score a resume against a JSON array of job listings.
With --analyze the best matches also get a skills-gap analysis. With --save the
matches are stored in PostgreSQL (DATABASE_URL).`,
	RunE: runMatch,
}

var (
	matchResume   string
	matchJobs     string
	matchOut      string
	matchResumeID string
	matchAnalyze  bool
	matchTopK     int
	matchMinScore int
	matchSave     bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchResume, "resume", "r", "", "Path to the resume file (required)")
	matchCmd.Flags().StringVarP(&matchJobs, "jobs", "j", "", "Path to a JSON array of job listings (required)")
	matchCmd.Flags().StringVarP(&matchOut, "out", "o", "", "Path to output JSON file (default stdout)")
	matchCmd.Flags().StringVar(&matchResumeID, "resume-id", "", "Resume ID recorded on matches (generated when empty)")
	matchCmd.Flags().BoolVar(&matchAnalyze, "analyze", false, "Run skills-gap analysis on the best matches")
	matchCmd.Flags().IntVar(&matchTopK, "top-k", -1, "Analyze at most this many matches (default analysis.top_k)")
	matchCmd.Flags().IntVar(&matchMinScore, "min-score", -1, "Analyze only matches scoring at least this (default scoring.min_match_score)")
	matchCmd.Flags().BoolVar(&matchSave, "save", false, "Persist matches to the database")
	_ = matchCmd.MarkFlagRequired("resume")
	_ = matchCmd.MarkFlagRequired("jobs")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	doc, err := readDocument(matchResume)
	if err != nil {
		return err
	}
	jobs, err := readJobs(matchJobs)
	if err != nil {
		return err
	}

	runner, client, err := newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if matchSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--save requires DATABASE_URL")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		runner.Store = database
	}

	opts := pipeline.Options{
		ResumeID:   matchResumeID,
		Analyze:    matchAnalyze,
		TopK:       cfg.Analysis.TopK,
		MinScore:   cfg.Scoring.MinMatchScore,
		OnProgress: progress(),
	}
	if matchTopK >= 0 {
		opts.TopK = matchTopK
	}
	if matchMinScore >= 0 {
		opts.MinScore = matchMinScore
	}

	result, err := runner.Run(ctx, doc, jobs, opts)
	if err != nil {
		return err
	}
	if matchSave {
		log.Printf("[match] saved %d matches for resume %s", len(result.Matches), result.ResumeID)
	}

	if p := printer(); p != nil {
		p.PrintResume(result.Resume)
		p.PrintMatches(result.Matches, jobs)
		for _, m := range result.Matches {
			if m.Analysis == nil {
				continue
			}
			for i := range jobs {
				if jobs[i].Key() == m.JobID {
					p.PrintAnalysis(&jobs[i], m.Analysis)
					break
				}
			}
		}
		p.PrintFailures("SKIPPED JOBS", result.Skipped)
		p.PrintFailures("ANALYSIS FAILURES", result.AnalysisErrors)
	}
	return writeOutput(cmd.OutOrStdout(), matchOut, result)
}
