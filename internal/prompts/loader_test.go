package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ResumePrompts(t *testing.T) {
	ClearCache()

	system, err := Get("resume.json", "resume-system")
	require.NoError(t, err)
	assert.Contains(t, system, "resume parser")
	assert.Contains(t, system, "Not specified")

	instructions, err := Get("resume.json", "resume-instructions")
	require.NoError(t, err)
	assert.Contains(t, instructions, "YYYY-MM")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("analysis.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	result := Format("Hello {{.Name}}, welcome to {{.Company}}!", map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	})
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_MissingValueLeftInPlace(t *testing.T) {
	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", map[string]string{}))
}

func TestFormat_ValueContainingPlaceholderIsNotExpanded(t *testing.T) {
	result := Format("{{.A}} {{.B}}", map[string]string{"A": "{{.B}}", "B": "b"})
	assert.Equal(t, "{{.B}} b", result)
}

func TestRender_AnalysisPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Render("analysis.json", "analysis-user", map[string]string{
		"Resume":         `{"name":"Jane"}`,
		"Job":            `{"title":"Intern"}`,
		"MaxAligned":     "20",
		"MaxMissing":     "15",
		"MaxStrengths":   "5",
		"MaxSuggestions": "10",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, `{"name":"Jane"}`)
	assert.Contains(t, prompt, "At most 20 items")
	assert.NotContains(t, prompt, "{{.")
}

func TestRender_MissingValues(t *testing.T) {
	ClearCache()

	_, err := Render("analysis.json", "analysis-user", map[string]string{"Resume": "{}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Job")
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("analysis.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"analysis-system", "analysis-user"}, keys)
}
