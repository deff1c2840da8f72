package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/internship-matcher/internal/types"
)

func TestPrintExtractedText(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	text := &types.ExtractedText{
		Text:        "Jane Doe\njane@example.com\nB.S. Computer Science",
		MediaType:   types.MediaTypePDF,
		SourceBytes: 2048,
		Pages:       1,
		Hash:        "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
	}
	p.PrintExtractedText(text)

	output := buf.String()
	assert.Contains(t, output, "EXTRACTED TEXT")
	assert.Contains(t, output, "application/pdf")
	assert.Contains(t, output, "2048 bytes")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "9f86d081884c7d65...")
	assert.NotContains(t, output, "more lines")
}

func TestPrintExtractedText_ManyLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	lines := make([]string, maxItemsToShow+3)
	for i := range lines {
		lines[i] = "line"
	}
	p.PrintExtractedText(&types.ExtractedText{Text: strings.Join(lines, "\n"), MediaType: types.MediaTypePDF})

	assert.Contains(t, buf.String(), "... 3 more lines")
}

func TestPrintExtractedText_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintExtractedText(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := &types.StructuredResume{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		GraduationDate:    "2026-05",
		Degree:            "B.S. Computer Science",
		DegreeLevel:       types.DegreeBachelor,
		GPA:               types.Some(3.8),
		WorkAuthorization: types.Some(types.WorkAuthUSCitizen),
		Skills:            []string{"Go", "Python", "SQL"},
		Experience: []types.ExperienceEntry{
			{Company: "Acme", Role: "Backend Intern", Duration: "Summer 2025"},
		},
		Projects: []types.ProjectEntry{
			{Name: "Matcher", Tech: []string{"Go"}},
		},
	}
	p.PrintResume(resume)

	output := buf.String()
	assert.Contains(t, output, "STRUCTURED RESUME")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "3.80")
	assert.Contains(t, output, "US_CITIZEN")
	assert.Contains(t, output, "Skills (3):")
	assert.Contains(t, output, "Go, Python, SQL")
	assert.Contains(t, output, "Backend Intern at Acme")
	assert.Contains(t, output, "Matcher")
}

func TestPrintResume_OmitsAbsentOptionals(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(&types.StructuredResume{Name: "Sam", DegreeLevel: types.DegreeUnspecified})

	output := buf.String()
	assert.Contains(t, output, "Sam")
	assert.NotContains(t, output, "GPA:")
	assert.NotContains(t, output, "Work auth:")
}

func TestPrintResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResume(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	job := &types.JobListing{Company: "Acme", Title: "Platform Intern"}
	analysis := &types.SkillsAnalysis{
		AlignedSkills: []types.AlignedSkill{
			{Skill: "Go", MatchedFrom: types.MatchedFromExperience, Relevance: types.TierHigh},
		},
		MissingSkills: []types.MissingSkill{
			{Skill: "Kubernetes", Priority: types.PriorityRequired, Category: types.CategoryTechnical},
		},
		ImprovementSuggestions: []types.Suggestion{
			{Category: types.SuggestProjects, Priority: types.TierHigh, Suggestion: "Deploy a service to a cluster"},
		},
		OverallFit: "Strong backend fundamentals.",
	}
	p.PrintAnalysis(job, analysis)

	output := buf.String()
	assert.Contains(t, output, "SKILLS ANALYSIS")
	assert.Contains(t, output, "Platform Intern at Acme")
	assert.Contains(t, output, "Aligned (1):")
	assert.Contains(t, output, "Go [high, from experience]")
	assert.Contains(t, output, "Missing (1):")
	assert.Contains(t, output, "Kubernetes [required]")
	assert.Contains(t, output, "Deploy a service to a cluster")
	assert.Contains(t, output, "Strong backend fundamentals.")
}

func TestPrintAnalysis_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAnalysis(&types.JobListing{Title: "x"}, nil)
	assert.Empty(t, buf.String())
}

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	jobs := []types.JobListing{
		{ID: "job-1", Company: "Acme", Title: "Backend Intern"},
	}
	first := types.NewMatchResult("r1", "job-1",
		types.ScoreBreakdown{Skills: 40, Experience: 20, Education: 15, Eligibility: 10, Total: 85},
		[]string{"Go", "SQL"}, "")
	first.Analysis = &types.SkillsAnalysis{OverallFit: "good"}
	second := types.NewMatchResult("r1", "Globex/Data Intern",
		types.ScoreBreakdown{Skills: 10, Total: 10}, nil, "")

	p.PrintMatches([]*types.MatchResult{first, second}, jobs)

	output := buf.String()
	assert.Contains(t, output, "RANKED MATCHES")
	assert.Contains(t, output, "Backend Intern at Acme")
	assert.Contains(t, output, " 85 *")
	assert.Contains(t, output, "skills 40 · experience 20 · education 15 · eligibility 10")
	assert.Contains(t, output, "matched: Go, SQL")
	assert.Contains(t, output, "Globex/Data Intern")
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatches(nil, nil)
	assert.Contains(t, buf.String(), "No jobs could be scored.")
}

func TestPrintFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFailures("SKIPPED JOBS", map[string]string{
		"b-job": "missing title",
		"a-job": "no description",
	})

	output := buf.String()
	assert.Contains(t, output, "SKIPPED JOBS")
	assert.Less(t, strings.Index(output, "a-job"), strings.Index(output, "b-job"))
	assert.Contains(t, output, "missing title")
}

func TestPrintFailures_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintFailures("SKIPPED JOBS", nil)
	assert.Empty(t, buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo", truncate("héllo", 5))
}
