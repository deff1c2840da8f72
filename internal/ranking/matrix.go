package ranking

import (
	"strings"
	"unicode"

	"github.com/jonathan/internship-matcher/internal/skills"
)

// scoreEntryAgainstSkill returns how strongly a resume entry evidences skill:
// 1.0 when one of its tags is the skill (or a synonym of it), 0.8 when the
// skill or one of its synonyms is only mentioned in its text, 0 otherwise.
func scoreEntryAgainstSkill(tags []string, text, skill string, table skills.SynonymTable) float64 {
	if strings.TrimSpace(skill) == "" {
		return 0.0
	}

	for _, tag := range tags {
		if table.Same(tag, skill) {
			return 1.0
		}
	}

	lower := strings.ToLower(text)
	for _, term := range table.Variants(skill) {
		if containsTerm(lower, term) {
			return 0.8
		}
	}
	return 0.0
}

// containsTerm reports whether term occurs in text delimited by non-alphanumerics,
// so "go" matches "built in go" but not "google"
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(text[i-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r := rune(text[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}
