package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/internship-matcher/internal/types"
)

func TestNormalize_EmptyAnalysis(t *testing.T) {
	got := Normalize(types.SkillsAnalysis{})

	assert.NotNil(t, got.AlignedSkills)
	assert.NotNil(t, got.MissingSkills)
	assert.NotNil(t, got.StrengthsToHighlight)
	assert.NotNil(t, got.ImprovementSuggestions)
	assert.Equal(t, types.DefaultOverallFit, got.OverallFit)
}

func TestNormalize_DropsBlankItems(t *testing.T) {
	got := Normalize(types.SkillsAnalysis{
		AlignedSkills:          []types.AlignedSkill{{Skill: "  "}, {Skill: " Go "}},
		MissingSkills:          []types.MissingSkill{{Skill: ""}},
		StrengthsToHighlight:   []types.Strength{{Title: "", Description: "orphan"}},
		ImprovementSuggestions: []types.Suggestion{{Suggestion: " "}},
		OverallFit:             "  Good fit.  ",
	})

	assert.Equal(t, []types.AlignedSkill{{Skill: "Go", MatchedFrom: types.MatchedFromResume, Relevance: types.TierMedium}}, got.AlignedSkills)
	assert.Empty(t, got.MissingSkills)
	assert.Empty(t, got.StrengthsToHighlight)
	assert.Empty(t, got.ImprovementSuggestions)
	assert.Equal(t, "Good fit.", got.OverallFit)
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"HIGH", types.TierHigh},
		{" low ", types.TierLow},
		{"critical", types.TierMedium},
		{"", types.TierMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coerce(tt.value, tierValues, types.TierMedium), tt.value)
	}

	assert.Equal(t, types.PriorityNiceToHave, coerce("nice_to_have", priorityValues, types.PriorityPreferred))
	assert.Equal(t, types.PriorityNiceToHave, coerce("Nice to have", priorityValues, types.PriorityPreferred))
}

func TestNormalize_Idempotent(t *testing.T) {
	in := types.SkillsAnalysis{
		AlignedSkills: []types.AlignedSkill{{Skill: "Python", MatchedFrom: "PROJECTS", Relevance: "Low"}},
		MissingSkills: []types.MissingSkill{{Skill: "Rust", Priority: "must have", Category: "Soft"}},
	}
	once := Normalize(in)
	assert.Equal(t, once, Normalize(once))
	assert.Equal(t, types.MatchedFromProjects, once.AlignedSkills[0].MatchedFrom)
	assert.Equal(t, types.PriorityPreferred, once.MissingSkills[0].Priority)
	assert.Equal(t, types.CategorySoft, once.MissingSkills[0].Category)
}
