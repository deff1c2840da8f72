package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare resume object",
			input:    `{"name": "Jane Doe", "skills": ["Go"]}`,
			expected: `{"name": "Jane Doe", "skills": ["Go"]}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"overallFit\": \"Strong fit.\"}\n```",
			expected: `{"overallFit": "Strong fit."}`,
		},
		{
			name:     "unlabeled fence",
			input:    "```\n{\"skills\": [\"Python\", \"SQL\"]}\n```",
			expected: `{"skills": ["Python", "SQL"]}`,
		},
		{
			name:     "fence after preamble with trailing chatter",
			input:    "Sure! Here is the parsed resume:\n```json\n{\"name\": \"Jane Doe\", \"skills\": [\"Python\"]}\n```\nHope this helps.",
			expected: `{"name": "Jane Doe", "skills": ["Python"]}`,
		},
		{
			name:     "preamble without fence",
			input:    "Here is the skills analysis: {\"alignedSkills\": [], \"overallFit\": \"Partial fit.\"}",
			expected: `{"alignedSkills": [], "overallFit": "Partial fit."}`,
		},
		{
			name:     "trailing explanation",
			input:    "{\"missingSkills\": [{\"skill\": \"Kubernetes\"}]}\n\nThe candidate lacks container experience.",
			expected: `{"missingSkills": [{"skill": "Kubernetes"}]}`,
		},
		{
			name:     "braces and quotes inside strings",
			input:    `Result: {"evidence": "Built a {templated} \"CLI\" tool"}`,
			expected: `{"evidence": "Built a {templated} \"CLI\" tool"}`,
		},
		{
			name:     "top level array",
			input:    "Skills found:\n[\"Go\", \"React\"]",
			expected: `["Go", "React"]`,
		},
		{
			name:     "unbalanced object is returned as is",
			input:    `{"name": "Jane"`,
			expected: `{"name": "Jane"`,
		},
		{
			name:     "no json at all",
			input:    "  I cannot read this resume.  ",
			expected: "I cannot read this resume.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	assert.Equal(t, `{"projects": [{"tech": ["Go"]}]}`, extractJSONObject(`{"projects": [{"tech": ["Go"]}]} extra`))
	assert.Equal(t, `[{"skill": "Go"}, {"skill": "SQL"}]`, extractJSONArray(`[{"skill": "Go"}, {"skill": "SQL"}] extra`))
	assert.Empty(t, extractJSONObject(`["Go"]`))
	assert.Empty(t, extractJSONArray(`{"skills": []}`))
	assert.Empty(t, extractJSONObject(""))
}
