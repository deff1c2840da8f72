package ranking

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/internship-matcher/internal/skills"
	"github.com/jonathan/internship-matcher/internal/types"
)

// Scorer computes deterministic match scores. It is safe for concurrent use.
type Scorer struct {
	weights  Weights
	synonyms skills.SynonymTable
}

// NewScorer creates a Scorer. A nil synonym table uses the built-in defaults.
func NewScorer(weights Weights, synonyms skills.SynonymTable) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	if synonyms == nil {
		synonyms = skills.DefaultSynonyms()
	}
	return &Scorer{weights: weights, synonyms: synonyms}, nil
}

// DefaultScorer returns a Scorer with the default weights and synonyms.
func DefaultScorer() *Scorer {
	return &Scorer{weights: DefaultWeights(), synonyms: skills.DefaultSynonyms()}
}

// Weights returns the scorer's component weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Evaluation is the full scoring result for one resume and job.
type Evaluation struct {
	Breakdown      types.ScoreBreakdown
	MatchingSkills []string
	MissingSkills  []string
	Notes          string
}

// Evaluate scores resume against job and explains the result.
func (s *Scorer) Evaluate(resume *types.StructuredResume, job *types.JobListing) Evaluation {
	skillFraction, matched, missing := computeSkillOverlapScore(resume, job, s.synonyms)
	experienceFraction := computeExperienceScore(resume, job, s.synonyms)
	educationFraction := computeEducationScore(resume, job)
	eligibilityFraction := computeEligibilityScore(resume, job)

	breakdown := types.ScoreBreakdown{
		Skills:      points(s.weights.Skills, skillFraction),
		Experience:  points(s.weights.Experience, experienceFraction),
		Education:   points(s.weights.Education, educationFraction),
		Eligibility: points(s.weights.Eligibility, eligibilityFraction),
	}
	total := breakdown.Skills + breakdown.Experience + breakdown.Education + breakdown.Eligibility
	breakdown.Total = min(max(total, 0), 100)

	return Evaluation{
		Breakdown:      breakdown,
		MatchingSkills: matched,
		MissingSkills:  missing,
		Notes:          generateNotes(skillFraction, experienceFraction, educationFraction, eligibilityFraction, matched),
	}
}

// Breakdown returns the points earned per component.
func (s *Scorer) Breakdown(resume *types.StructuredResume, job *types.JobListing) types.ScoreBreakdown {
	return s.Evaluate(resume, job).Breakdown
}

// Score returns the 0-100 match score of resume for job.
func (s *Scorer) Score(resume *types.StructuredResume, job *types.JobListing) int {
	return s.Breakdown(resume, job).Total
}

// points scales a 0-1 fraction to a component's weight, clamped to [0, weight]
func points(weight int, fraction float64) int {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return int(math.Round(float64(weight) * fraction))
}

// RankedJob is a job with its evaluation and original position.
type RankedJob struct {
	Index int
	Job   *types.JobListing
	Evaluation
}

// Rank scores resume against every job concurrently and returns the jobs
// ordered by score, highest first. Jobs with equal scores keep their input order.
func (s *Scorer) Rank(ctx context.Context, resume *types.StructuredResume, jobs []types.JobListing) ([]RankedJob, error) {
	ranked := make([]RankedJob, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ranked[i] = RankedJob{Index: i, Job: &jobs[i], Evaluation: s.Evaluate(resume, &jobs[i])}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ranking canceled: %w", err)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Breakdown.Total > ranked[j].Breakdown.Total
	})
	return ranked, nil
}

// Suggestions summarizes the skills gap as a short sentence for a match record.
func Suggestions(missing []string) string {
	switch len(missing) {
	case 0:
		return "Your skills cover this role's requirements."
	case 1:
		return fmt.Sprintf("Consider building experience with %s.", missing[0])
	default:
		return fmt.Sprintf("Consider building experience with %s and %s.",
			strings.Join(missing[:len(missing)-1], ", "), missing[len(missing)-1])
	}
}

// generateNotes creates a brief explanation of the score.
func generateNotes(skillOverlap, experience, education, eligibility float64, matchedSkills []string) string {
	var parts []string

	switch {
	case len(matchedSkills) == 0:
		parts = append(parts, "No required skill matches")
	case skillOverlap >= 0.7:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(matchedSkills, ", ")))
	case skillOverlap >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(matchedSkills, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(matchedSkills, ", ")))
	}

	switch {
	case experience >= 0.75:
		parts = append(parts, "Highly relevant experience")
	case experience >= 0.4:
		parts = append(parts, "Some relevant experience or projects")
	default:
		parts = append(parts, "Little relevant experience")
	}

	if education < 0.5 {
		parts = append(parts, "Education below the stated requirement")
	}
	if eligibility < 0.5 {
		parts = append(parts, "Eligibility concerns (graduation year or work authorization)")
	}

	return strings.Join(parts, ". ")
}
