package analysis

import (
	"strings"

	"github.com/jonathan/internship-matcher/internal/types"
)

var (
	matchedFromValues = []string{types.MatchedFromResume, types.MatchedFromExperience, types.MatchedFromProjects, types.MatchedFromEducation}
	tierValues        = []string{types.TierHigh, types.TierMedium, types.TierLow}
	priorityValues    = []string{types.PriorityRequired, types.PriorityPreferred, types.PriorityNiceToHave}
	categoryValues    = []string{types.CategoryTechnical, types.CategorySoft, types.CategoryDomain}
	suggestValues     = []string{types.SuggestSkills, types.SuggestProjects, types.SuggestExperience, types.SuggestEducation}
)

// Normalize coerces enum fields to their known values, drops empty items,
// caps every list and fills in the default overall fit.
func Normalize(a types.SkillsAnalysis) types.SkillsAnalysis {
	out := types.SkillsAnalysis{
		AlignedSkills:          make([]types.AlignedSkill, 0, min(len(a.AlignedSkills), types.MaxAlignedSkills)),
		MissingSkills:          make([]types.MissingSkill, 0, min(len(a.MissingSkills), types.MaxMissingSkills)),
		StrengthsToHighlight:   make([]types.Strength, 0, min(len(a.StrengthsToHighlight), types.MaxStrengths)),
		ImprovementSuggestions: make([]types.Suggestion, 0, min(len(a.ImprovementSuggestions), types.MaxSuggestions)),
		OverallFit:             strings.TrimSpace(a.OverallFit),
	}

	for _, s := range a.AlignedSkills {
		if len(out.AlignedSkills) == types.MaxAlignedSkills {
			break
		}
		if s.Skill = strings.TrimSpace(s.Skill); s.Skill == "" {
			continue
		}
		s.MatchedFrom = coerce(s.MatchedFrom, matchedFromValues, types.MatchedFromResume)
		s.Relevance = coerce(s.Relevance, tierValues, types.TierMedium)
		s.Evidence = strings.TrimSpace(s.Evidence)
		out.AlignedSkills = append(out.AlignedSkills, s)
	}

	for _, s := range a.MissingSkills {
		if len(out.MissingSkills) == types.MaxMissingSkills {
			break
		}
		if s.Skill = strings.TrimSpace(s.Skill); s.Skill == "" {
			continue
		}
		s.Priority = coerce(s.Priority, priorityValues, types.PriorityPreferred)
		s.Category = coerce(s.Category, categoryValues, types.CategoryTechnical)
		out.MissingSkills = append(out.MissingSkills, s)
	}

	for _, s := range a.StrengthsToHighlight {
		if len(out.StrengthsToHighlight) == types.MaxStrengths {
			break
		}
		if s.Title = strings.TrimSpace(s.Title); s.Title == "" {
			continue
		}
		s.Description = strings.TrimSpace(s.Description)
		s.Impact = strings.TrimSpace(s.Impact)
		out.StrengthsToHighlight = append(out.StrengthsToHighlight, s)
	}

	for _, s := range a.ImprovementSuggestions {
		if len(out.ImprovementSuggestions) == types.MaxSuggestions {
			break
		}
		if s.Suggestion = strings.TrimSpace(s.Suggestion); s.Suggestion == "" {
			continue
		}
		s.Category = coerce(s.Category, suggestValues, types.SuggestSkills)
		s.Priority = coerce(s.Priority, tierValues, types.TierMedium)
		s.Rationale = strings.TrimSpace(s.Rationale)
		out.ImprovementSuggestions = append(out.ImprovementSuggestions, s)
	}

	if out.OverallFit == "" {
		out.OverallFit = types.DefaultOverallFit
	}
	return out
}

// coerce lower-cases value and returns it when known, otherwise def.
// Separators are folded so "Nice to have" matches "nice-to-have".
func coerce(value string, known []string, def string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	for _, k := range known {
		if key == k {
			return k
		}
	}
	return def
}
