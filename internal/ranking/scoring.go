// Package ranking scores structured resumes against job listings and orders jobs by fit.
package ranking

import (
	"strings"
	"unicode"

	"github.com/jonathan/internship-matcher/internal/skills"
	"github.com/jonathan/internship-matcher/internal/types"
)

// neutralSkillCredit is awarded when the job lists no required skills
const neutralSkillCredit = 0.5

// titleStopwords are job-title words too generic to signal relevance
var titleStopwords = map[string]bool{
	"intern": true, "interns": true, "internship": true, "co-op": true, "coop": true,
	"summer": true, "fall": true, "spring": true, "winter": true,
	"junior": true, "senior": true, "entry": true, "level": true, "new": true, "grad": true, "graduate": true,
	"i": true, "ii": true, "and": true, "or": true, "of": true, "the": true, "for": true, "a": true, "an": true, "in": true, "to": true,
}

// computeSkillOverlapScore returns the fraction of the job's required skills
// present on the resume, with the matched and missing skill names in job order.
func computeSkillOverlapScore(resume *types.StructuredResume, job *types.JobListing, table skills.SynonymTable) (float64, []string, []string) {
	required := uniqueSkills(job.RequiredSkills, table)
	if len(required) == 0 {
		return neutralSkillCredit, []string{}, []string{}
	}

	have := make(map[string]bool, len(resume.Skills))
	for _, s := range resume.Skills {
		have[table.Key(s)] = true
	}

	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, skill := range required {
		if have[table.Key(skill)] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(len(matched)) / float64(len(required)), matched, missing
}

// uniqueSkills trims names and drops blanks and synonym duplicates, keeping first spellings
func uniqueSkills(names []string, table skills.SynonymTable) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := table.Key(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// titleKeywords extracts the distinctive words of a job title
func titleKeywords(title string) []string {
	var keywords []string
	for _, word := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune("/,()&|", r)
	}) {
		word = strings.Trim(word, ".:;")
		if len(word) < 2 || titleStopwords[word] || strings.Trim(word, "0123456789") == "" {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// entryRelevant reports whether an entry evidences any job skill or title keyword
func entryRelevant(tags []string, text string, job *types.JobListing, keywords []string, table skills.SynonymTable) bool {
	for _, skill := range job.RequiredSkills {
		if scoreEntryAgainstSkill(tags, text, skill, table) > 0 {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if containsTerm(lower, kw) {
			return true
		}
	}
	return false
}

// computeExperienceScore rates the resume's experience and projects against the job.
// Relevant work experience can earn full credit; relevant projects earn up to 0.8
// and stand in for missing experience.
func computeExperienceScore(resume *types.StructuredResume, job *types.JobListing, table skills.SynonymTable) float64 {
	keywords := titleKeywords(job.Title)

	experiencePart := 0.0
	if n := len(resume.Experience); n > 0 {
		relevant := 0
		for _, e := range resume.Experience {
			if entryRelevant(nil, e.Role+" "+e.Company, job, keywords, table) {
				relevant++
			}
		}
		experiencePart = 0.25
		if relevant > 0 {
			experiencePart = 0.5 + 0.5*float64(relevant)/float64(n)
		}
	}

	projectPart := 0.0
	if n := len(resume.Projects); n > 0 {
		relevant := 0
		for _, p := range resume.Projects {
			if entryRelevant(p.Tech, p.Name+" "+p.Description, job, keywords, table) {
				relevant++
			}
		}
		projectPart = 0.2
		if relevant > 0 {
			projectPart = 0.4 + 0.4*float64(relevant)/float64(n)
		}
	}

	return max(experiencePart, projectPart)
}

// computeEligibilityScore combines graduation-year alignment (60%) with
// work-authorization compatibility (40%).
func computeEligibilityScore(resume *types.StructuredResume, job *types.JobListing) float64 {
	return 0.6*gradYearFit(resume, job) + 0.4*workAuthFit(resume, job)
}

func gradYearFit(resume *types.StructuredResume, job *types.JobListing) float64 {
	required, ok := job.RequiredGradYear.Get()
	if !ok {
		return 1.0
	}
	year, ok := resume.GraduationYear()
	if !ok {
		return 0.5
	}
	switch diff := year - required; {
	case diff == 0:
		return 1.0
	case diff == 1 || diff == -1:
		return 0.5
	default:
		return 0.0
	}
}

func workAuthFit(resume *types.StructuredResume, job *types.JobListing) float64 {
	sponsors, ok := job.SponsorshipAvailable.Get()
	if !ok || sponsors {
		return 1.0
	}
	auth, ok := resume.WorkAuthorization.Get()
	if !ok {
		return 0.5
	}
	if auth.NeedsSponsorship() {
		return 0.0
	}
	return 1.0
}
