package ranking

import (
	"github.com/jonathan/internship-matcher/internal/types"
)

// computeEducationScore weighs degree-level fit (80%) and GPA (20%).
func computeEducationScore(resume *types.StructuredResume, job *types.JobListing) float64 {
	return 0.8*degreeFit(resume, job) + 0.2*gpaFit(resume)
}

// degreeFit compares the resume's degree level with the job's minimum
func degreeFit(resume *types.StructuredResume, job *types.JobListing) float64 {
	required, ok := job.MinDegree.Get()
	if !ok || required.Rank() == 0 {
		return 1.0 // No requirement = full score
	}

	have := resume.DegreeLevel.Rank()
	switch {
	case have == 0:
		return 0.25
	case have >= required.Rank():
		return 1.0
	case have == required.Rank()-1:
		// One level below
		return 0.5
	default:
		return 0.0
	}
}

// gpaFit maps a 4.0-scale GPA to a 0-1 score; an absent GPA is neutral
func gpaFit(resume *types.StructuredResume) float64 {
	gpa, ok := resume.GPA.Get()
	switch {
	case !ok:
		return 0.5
	case gpa >= 3.5:
		return 1.0
	case gpa >= 3.0:
		return 0.75
	case gpa >= 2.5:
		return 0.5
	default:
		return 0.25
	}
}
