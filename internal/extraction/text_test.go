package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	result := CleanText("Line    with \t  multiple    spaces")
	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	result := CleanText("Line 1\n\n\n\n\nLine 2")
	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	result := CleanText("Line 1\r\nLine 2\rLine 3\nLine 4")
	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_InvisibleCharacters(t *testing.T) {
	result := CleanText("\ufeffJane Doe\u200b\fPage two")
	assert.Equal(t, "Jane Doe\nPage two", result)
}

func TestCleanText_BulletGlyphs(t *testing.T) {
	result := CleanText("• Built a compiler\n  ● Shipped an app\n- Already dashed")
	assert.Equal(t, "- Built a compiler\n- Shipped an app\n- Already dashed", result)
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n\n \t "))
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
	assert.Equal(t, CleanText(input), CleanText(CleanText(input)))
}

func TestComputeHash(t *testing.T) {
	h1 := computeHash("resume text")
	h2 := computeHash("resume text")
	h3 := computeHash("other text")

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
