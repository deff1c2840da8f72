// Package analysis compares a structured resume against a job listing with an LLM
// and produces a skills-gap report.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/prompts"
	"github.com/jonathan/internship-matcher/internal/schemas"
	"github.com/jonathan/internship-matcher/internal/types"
)

const (
	analysisTemperature = 0.2

	// DefaultConcurrency caps in-flight analyses in AnalyzeAll.
	DefaultConcurrency = 3
	// DefaultRequestsPerMinute is the default generation quota shared by all analyses.
	DefaultRequestsPerMinute = 30
)

// Analyzer produces SkillsAnalysis reports through an injected LLM client.
type Analyzer struct {
	client      llm.Client
	timeout     time.Duration
	tier        llm.ModelTier
	concurrency int
	limiter     *rate.Limiter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithTier selects the model tier.
func WithTier(tier llm.ModelTier) Option {
	return func(a *Analyzer) {
		a.tier = tier
	}
}

// WithConcurrency caps the number of analyses AnalyzeAll runs at once.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithRequestsPerMinute sets the generation quota. Zero or less disables limiting.
func WithRequestsPerMinute(rpm int) Option {
	return func(a *Analyzer) {
		a.limiter = newLimiter(rpm)
	}
}

func newLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

// NewAnalyzer creates an Analyzer. The client is owned by the caller.
func NewAnalyzer(client llm.Client, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:      client,
		timeout:     llm.DefaultTimeout,
		tier:        llm.TierStandard,
		concurrency: DefaultConcurrency,
		limiter:     newLimiter(DefaultRequestsPerMinute),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze compares resume against job. Failures are *Error values.
func (a *Analyzer) Analyze(ctx context.Context, resume *types.StructuredResume, job *types.JobListing) (*types.SkillsAnalysis, error) {
	if err := checkInputs(resume, job); err != nil {
		return nil, err
	}

	prompt, err := buildAnalysisPrompt(resume, job)
	if err != nil {
		return nil, fmt.Errorf("failed to build analysis prompt: %w", err)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, &Error{Kind: KindTimeout, Hint: "The analysis quota did not free up before the deadline. Please try again.", Cause: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.client.GenerateJSON(callCtx, llm.Request{
		System:      prompts.MustGet("analysis.json", "analysis-system"),
		Prompt:      prompt,
		Temperature: analysisTemperature,
		Tier:        a.tier,
	})
	if err != nil {
		log.Printf("[analyze] %s: generation failed after %s: %v", job.Key(), time.Since(start).Round(time.Millisecond), err)
		return nil, fromCallError(err)
	}

	result, err := decodeAnalysis(raw)
	if err != nil {
		log.Printf("[analyze] %s: unusable response: %v", job.Key(), err)
		return nil, err
	}

	log.Printf("[analyze] %s: %d aligned, %d missing in %s",
		job.Key(), len(result.AlignedSkills), len(result.MissingSkills), time.Since(start).Round(time.Millisecond))
	return result, nil
}

func checkInputs(resume *types.StructuredResume, job *types.JobListing) error {
	if resume == nil || resume.Skills == nil || resume.Experience == nil || resume.Projects == nil {
		return &Error{Kind: KindInvalidResume, Hint: "The resume is missing skills, experience or projects. Parse the resume before analyzing it."}
	}
	if job == nil || !job.HasIdentity() {
		return &Error{Kind: KindInvalidJob, Hint: "The job listing must have a company and a title."}
	}
	if !job.HasContent() {
		return &Error{Kind: KindInvalidJob, Hint: "The job listing needs a description, requirements or required skills to compare against."}
	}
	return nil
}

// decodeAnalysis validates the completion's shape before trusting any of it
func decodeAnalysis(raw string) (*types.SkillsAnalysis, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateSkillsAnalysis(cleaned); err != nil {
		return nil, invalidResponse(err)
	}

	var result types.SkillsAnalysis
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, invalidResponse(err)
	}

	normalized := Normalize(result)
	return &normalized, nil
}

// resumeSummary is the view of the resume embedded in the prompt
type resumeSummary struct {
	Name              string                  `json:"name"`
	Degree            string                  `json:"degree"`
	DegreeLevel       string                  `json:"degreeLevel"`
	GraduationDate    string                  `json:"graduationDate"`
	GPA               types.Optional[float64] `json:"gpa"`
	Skills            []string                `json:"skills"`
	Experience        []types.ExperienceEntry `json:"experience"`
	Projects          []types.ProjectEntry    `json:"projects"`
	WorkAuthorization string                  `json:"workAuthorization"`
}

// jobSummary is the view of the job embedded in the prompt
type jobSummary struct {
	Company              string   `json:"company"`
	Title                string   `json:"title"`
	Locations            []string `json:"locations,omitempty"`
	Description          string   `json:"description,omitempty"`
	Requirements         string   `json:"requirements,omitempty"`
	RequiredSkills       []string `json:"requiredSkills,omitempty"`
	RequiredGradYear     string   `json:"requiredGradYear"`
	MinDegree            string   `json:"minDegree"`
	SponsorshipAvailable string   `json:"sponsorshipAvailable"`
}

func buildAnalysisPrompt(resume *types.StructuredResume, job *types.JobListing) (string, error) {
	rs := resumeSummary{
		Name:              resume.Name,
		Degree:            resume.Degree,
		DegreeLevel:       resume.DegreeLevel.Label(),
		GraduationDate:    resume.GraduationDate,
		GPA:               resume.GPA,
		Skills:            resume.Skills,
		Experience:        resume.Experience,
		Projects:          resume.Projects,
		WorkAuthorization: types.NotSpecified,
	}
	if auth, ok := resume.WorkAuthorization.Get(); ok {
		rs.WorkAuthorization = string(auth)
	}

	js := jobSummary{
		Company:              job.Company,
		Title:                job.Title,
		Locations:            job.Locations,
		Description:          job.Description,
		Requirements:         job.Requirements,
		RequiredSkills:       job.RequiredSkills,
		RequiredGradYear:     types.NotSpecified,
		MinDegree:            types.NotSpecified,
		SponsorshipAvailable: types.NotSpecified,
	}
	if year, ok := job.RequiredGradYear.Get(); ok {
		js.RequiredGradYear = strconv.Itoa(year)
	}
	if level, ok := job.MinDegree.Get(); ok {
		js.MinDegree = level.Label()
	}
	if sponsor, ok := job.SponsorshipAvailable.Get(); ok {
		js.SponsorshipAvailable = strconv.FormatBool(sponsor)
	}

	resumeJSON, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return "", err
	}
	jobJSON, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return "", err
	}

	return prompts.Render("analysis.json", "analysis-user", map[string]string{
		"Resume":         string(resumeJSON),
		"Job":            string(jobJSON),
		"MaxAligned":     strconv.Itoa(types.MaxAlignedSkills),
		"MaxMissing":     strconv.Itoa(types.MaxMissingSkills),
		"MaxStrengths":   strconv.Itoa(types.MaxStrengths),
		"MaxSuggestions": strconv.Itoa(types.MaxSuggestions),
	})
}
