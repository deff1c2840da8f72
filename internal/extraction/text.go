package extraction

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	multiSpace      = regexp.MustCompile(`[ \t]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
	invisibleChars  = strings.NewReplacer(
		"\u00a0", " ", // non-breaking space
		"\u200b", "", // zero-width space
		"\ufeff", "", // byte order mark
		"\f", "\n", // page break
	)
)

// CleanText normalizes extracted text while preserving line structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = invisibleChars.Replace(content)

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := excessiveBlanks.ReplaceAllString(strings.Join(cleaned, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses runs of spaces and tidies bullet glyphs
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	for _, glyph := range []string{"•", "·", "▪", "◦", "●"} {
		if strings.HasPrefix(trimmed, glyph) {
			trimmed = "- " + strings.TrimSpace(strings.TrimPrefix(trimmed, glyph))
			break
		}
	}

	return multiSpace.ReplaceAllString(trimmed, " ")
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
