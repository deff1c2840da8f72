package analysis

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/internship-matcher/internal/types"
)

// JobAnalysis is the outcome of analyzing one job in a batch.
type JobAnalysis struct {
	Job      *types.JobListing
	Analysis *types.SkillsAnalysis
	Err      error
}

// AnalyzeAll analyzes resume against every job, at most the configured number
// at a time and within the shared request quota. Results are in input order.
// A failed job does not stop the others; its error is reported in Err.
func (a *Analyzer) AnalyzeAll(ctx context.Context, resume *types.StructuredResume, jobs []types.JobListing) []JobAnalysis {
	results := make([]JobAnalysis, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i := range jobs {
		job := &jobs[i]
		results[i].Job = job
		g.Go(func() error {
			analysis, err := a.Analyze(gctx, resume, job)
			results[i].Analysis = analysis
			results[i].Err = err
			return nil
		})
	}

	_ = g.Wait()
	return results
}
