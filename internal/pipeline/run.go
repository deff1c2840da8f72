// Package pipeline orchestrates resume matching: text extraction, structured
// parsing, scoring against job listings and skills-gap analysis.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/parsing"
	"github.com/jonathan/internship-matcher/internal/ranking"
	"github.com/jonathan/internship-matcher/internal/types"
)

// DefaultMinMatchScore is the score a match needs to be analyzed and reported as a strong match.
const DefaultMinMatchScore = 75

// Step names reported in progress events.
const (
	StepExtract = "extract"
	StepParse   = "parse_resume"
	StepScore   = "score"
	StepAnalyze = "analyze"
	StepSave    = "save"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Message  string `json:"message"`
	ResumeID string `json:"resume_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// MatchSaver persists match results.
type MatchSaver interface {
	SaveMatch(ctx context.Context, match *types.MatchResult) error
}

// Options holds per-run settings.
type Options struct {
	ResumeID   string // generated when empty
	Analyze    bool   // run skills-gap analysis on the best matches
	TopK       int    // analyze at most this many matches; 0 means no cap
	MinScore   int    // analyze only matches scoring at least this
	OnProgress ProgressCallback
}

// Result is the outcome of one run.
type Result struct {
	ResumeID string                  `json:"resume_id"`
	Text     *types.ExtractedText    `json:"-"`
	Resume   *types.StructuredResume `json:"resume"`
	Matches  []*types.MatchResult    `json:"matches"`
	// Skipped maps job keys to the reason the job was not scored
	Skipped map[string]string `json:"skipped,omitempty"`
	// AnalysisErrors maps job keys to analysis failures; the match is still reported
	AnalysisErrors map[string]string `json:"analysis_errors,omitempty"`
}

// Runner wires the pipeline stages together. Its components are injected so
// tests can substitute fakes for the external services.
type Runner struct {
	Extractor *extraction.Extractor
	Parser    *parsing.Parser
	Analyzer  *analysis.Analyzer
	Scorer    *ranking.Scorer
	Store     MatchSaver // optional
	Retry     RetryPolicy
}

// Run processes one resume document against jobs.
func (r *Runner) Run(ctx context.Context, doc types.Document, jobs []types.JobListing, opts Options) (*Result, error) {
	if opts.ResumeID == "" {
		opts.ResumeID = uuid.NewString()
	}
	start := time.Now()

	emit(opts, StepExtract, fmt.Sprintf("Extracting text from %s", describe(doc)), nil)
	text, err := r.Extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("resume extraction failed: %w", err)
	}

	resume, err := r.ParseResume(ctx, text, opts)
	if err != nil {
		return nil, err
	}

	result, err := r.Match(ctx, resume, jobs, opts)
	if err != nil {
		return nil, err
	}
	result.Text = text

	log.Printf("[pipeline] resume %s matched against %d jobs in %s", opts.ResumeID, len(jobs), time.Since(start).Round(time.Millisecond))
	return result, nil
}

// ParseResume structures extracted text, retrying transient failures.
func (r *Runner) ParseResume(ctx context.Context, text *types.ExtractedText, opts Options) (*types.StructuredResume, error) {
	emit(opts, StepParse, "Extracting structured resume", nil)
	resume, err := retry(ctx, r.Retry, "parse resume", func() (*types.StructuredResume, error) {
		return r.Parser.ExtractResume(ctx, *text)
	})
	if err != nil {
		return nil, fmt.Errorf("resume parsing failed: %w", err)
	}
	emit(opts, StepParse, fmt.Sprintf("Found %d skills", len(resume.Skills)), resume)
	return resume, nil
}

// Match scores an already structured resume against jobs, analyzes the best
// matches when requested and persists the results when a store is set.
func (r *Runner) Match(ctx context.Context, resume *types.StructuredResume, jobs []types.JobListing, opts Options) (*Result, error) {
	if opts.ResumeID == "" {
		opts.ResumeID = uuid.NewString()
	}
	result := &Result{
		ResumeID:       opts.ResumeID,
		Resume:         resume,
		Matches:        []*types.MatchResult{},
		Skipped:        map[string]string{},
		AnalysisErrors: map[string]string{},
	}

	keys := uniqueKeys(jobs)
	valid := make([]types.JobListing, 0, len(jobs))
	for i := range jobs {
		if err := jobs[i].Validate(); err != nil {
			result.Skipped[keys[i]] = err.Error()
			log.Printf("[pipeline] skipping job %s: %v", keys[i], err)
			continue
		}
		job := jobs[i]
		job.ID = keys[i]
		valid = append(valid, job)
	}

	emit(opts, StepScore, fmt.Sprintf("Scoring %d jobs", len(valid)), nil)
	ranked, err := r.Scorer.Rank(ctx, resume, valid)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	for _, rj := range ranked {
		result.Matches = append(result.Matches, types.NewMatchResult(
			opts.ResumeID, rj.Job.Key(), rj.Breakdown, rj.MatchingSkills, ranking.Suggestions(rj.MissingSkills)))
	}

	if opts.Analyze && r.Analyzer != nil {
		r.analyzeTop(ctx, resume, ranked, result, opts)
	}

	if r.Store != nil {
		emit(opts, StepSave, fmt.Sprintf("Saving %d matches", len(result.Matches)), nil)
		for _, m := range result.Matches {
			if err := r.Store.SaveMatch(ctx, m); err != nil {
				return nil, fmt.Errorf("failed to save match %s: %w", m.ID, err)
			}
		}
	}

	return result, nil
}

// analyzeTop analyzes the ranked jobs that clear the minimum score, up to TopK,
// and attaches each analysis to its match. Failures are recorded, not fatal.
func (r *Runner) analyzeTop(ctx context.Context, resume *types.StructuredResume, ranked []ranking.RankedJob, result *Result, opts Options) {
	var selected []types.JobListing
	var positions []int
	for i, rj := range ranked {
		if opts.TopK > 0 && len(selected) == opts.TopK {
			break
		}
		if rj.Breakdown.Total < opts.MinScore {
			break
		}
		selected = append(selected, *rj.Job)
		positions = append(positions, i)
	}
	if len(selected) == 0 {
		emit(opts, StepAnalyze, "No matches clear the minimum score; skipping analysis", nil)
		return
	}

	emit(opts, StepAnalyze, fmt.Sprintf("Analyzing %d top matches", len(selected)), nil)
	outcomes := r.Analyzer.AnalyzeAll(ctx, resume, selected)
	for i, outcome := range outcomes {
		analyzed, err := outcome.Analysis, outcome.Err
		if err != nil && IsRetryable(err) {
			job := outcome.Job
			policy := r.Retry
			policy.Attempts = max(policy.Attempts-1, 1)
			analyzed, err = retry(ctx, policy, "analyze "+job.Key(), func() (*types.SkillsAnalysis, error) {
				return r.Analyzer.Analyze(ctx, resume, job)
			})
		}
		if err != nil {
			result.AnalysisErrors[outcome.Job.Key()] = err.Error()
			continue
		}
		result.Matches[positions[i]].Analysis = analyzed
	}
}

// uniqueKeys returns one key per job: its Key, qualified with the 1-based input
// position when an earlier job already uses that key.
func uniqueKeys(jobs []types.JobListing) []string {
	keys := make([]string, len(jobs))
	seen := make(map[string]bool, len(jobs))
	for i := range jobs {
		key := jobs[i].Key()
		if seen[key] {
			key = fmt.Sprintf("%s#%d", key, i+1)
		}
		seen[key] = true
		keys[i] = key
	}
	return keys
}

func emit(opts Options, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, ResumeID: opts.ResumeID, Content: content})
	}
}

func describe(doc types.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	return doc.MediaType
}
