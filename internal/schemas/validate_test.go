package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAnalysis = `{
	"alignedSkills": [{"skill": "Python", "matchedFrom": "resume", "relevance": "high"}],
	"missingSkills": [],
	"strengthsToHighlight": [],
	"improvementSuggestions": [{"category": "skills", "priority": "high", "suggestion": "Learn Go", "rationale": "Required"}],
	"overallFit": "Good fit."
}`

func TestValidateSkillsAnalysis_Valid(t *testing.T) {
	assert.NoError(t, ValidateSkillsAnalysis(validAnalysis))
}

func TestValidateSkillsAnalysis_ShapeFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing list",
			input: `{"alignedSkills": [], "missingSkills": [], "strengthsToHighlight": [], "overallFit": "ok"}`,
		},
		{
			name:  "list is a string",
			input: `{"alignedSkills": "Python", "missingSkills": [], "strengthsToHighlight": [], "improvementSuggestions": [], "overallFit": "ok"}`,
		},
		{
			name:  "overallFit not a string",
			input: `{"alignedSkills": [], "missingSkills": [], "strengthsToHighlight": [], "improvementSuggestions": [], "overallFit": 7}`,
		},
		{
			name:  "top level array",
			input: `[]`,
		},
		{
			name:  "not json",
			input: `the candidate is a great fit`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSkillsAnalysis(tt.input)
			require.Error(t, err)
			validationErr, ok := err.(*ValidationError)
			require.True(t, ok, "expected ValidationError, got %T", err)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateSkillsAnalysis_AllowsIncompleteItems(t *testing.T) {
	// Blank or partial items are dropped by analysis.Normalize, not rejected here.
	input := `{
		"alignedSkills": [{"matchedFrom": "resume"}],
		"missingSkills": [{"skill": null, "priority": "required"}],
		"strengthsToHighlight": [{"title": "Projects", "impact": null}],
		"improvementSuggestions": [{"suggestion": "Learn Go", "rationale": null}],
		"overallFit": "ok"
	}`
	assert.NoError(t, ValidateSkillsAnalysis(input))
}

func TestValidateSkillsAnalysis_AllowsMissingOverallFitValue(t *testing.T) {
	// An empty narrative passes shape validation; the analyzer substitutes a default.
	input := `{"alignedSkills": [], "missingSkills": [], "strengthsToHighlight": [], "improvementSuggestions": [], "overallFit": ""}`
	assert.NoError(t, ValidateSkillsAnalysis(input))
}

func TestValidateJobListing(t *testing.T) {
	assert.NoError(t, ValidateJobListing(`{"company": "Acme", "title": "Intern", "requiredGradYear": 2026, "minDegree": "BACHELOR"}`))
	assert.NoError(t, ValidateJobListing(`{"company": "Acme", "title": "Intern", "requiredGradYear": null, "sponsorshipAvailable": null}`))
	assert.Error(t, ValidateJobListing(`{"company": "Acme"}`))
	assert.Error(t, ValidateJobListing(`{"company": "Acme", "title": "Intern", "minDegree": "ASSOCIATE"}`))
	assert.Error(t, ValidateJobListing(`{"company": "Acme", "title": "Intern", "requiredSkills": "Go"}`))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("missing.schema.json", `{}`)
	require.Error(t, err)
	_, ok := err.(*SchemaLoadError)
	assert.True(t, ok)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`

	err := ValidateJSONString(schemaContent, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
