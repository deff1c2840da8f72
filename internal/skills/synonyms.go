// Package skills provides the skill synonym table used to decide when two skill names mean the same thing.
package skills

import (
	"sort"
	"strings"
)

// SynonymTable maps lower-cased skill variants to a canonical display name.
type SynonymTable map[string]string

// defaultSynonyms maps common skill name variants to canonical names
var defaultSynonyms = map[string]string{
	"golang":      "Go",
	"go lang":     "Go",
	"javascript":  "JavaScript",
	"js":          "JavaScript",
	"ecmascript":  "JavaScript",
	"typescript":  "TypeScript",
	"ts":          "TypeScript",
	"python":      "Python",
	"python3":     "Python",
	"py":          "Python",
	"c++":         "C++",
	"cpp":         "C++",
	"c plus plus": "C++",
	"c#":          "C#",
	"csharp":      "C#",

	"react":        "React",
	"react.js":     "React",
	"reactjs":      "React",
	"vue":          "Vue",
	"vue.js":       "Vue",
	"vuejs":        "Vue",
	"node":         "Node.js",
	"node.js":      "Node.js",
	"nodejs":       "Node.js",
	"next.js":      "Next.js",
	"nextjs":       "Next.js",
	"html":         "HTML",
	"html5":        "HTML",
	"css":          "CSS",
	"css3":         "CSS",
	"rest":         "REST APIs",
	"rest api":     "REST APIs",
	"rest apis":    "REST APIs",
	"restful apis": "REST APIs",

	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"sql":        "SQL",

	"aws":                 "AWS",
	"amazon web services": "AWS",
	"gcp":                 "GCP",
	"google cloud":        "GCP",
	"k8s":                 "Kubernetes",
	"kubernetes":          "Kubernetes",
	"docker":              "Docker",
	"git":                 "Git",
	"github":              "Git",

	"ml":               "Machine Learning",
	"machine learning": "Machine Learning",
	"dl":               "Deep Learning",
	"deep learning":    "Deep Learning",
	"tf":               "TensorFlow",
	"tensorflow":       "TensorFlow",
	"pytorch":          "PyTorch",
	"torch":            "PyTorch",
}

// DefaultSynonyms returns a copy of the built-in synonym table.
func DefaultSynonyms() SynonymTable {
	table := make(SynonymTable, len(defaultSynonyms))
	for k, v := range defaultSynonyms {
		table[k] = v
	}
	return table
}

// Merge returns a new table with overrides applied on top of t.
// Override keys are matched case-insensitively.
func (t SynonymTable) Merge(overrides map[string]string) SynonymTable {
	merged := make(SynonymTable, len(t)+len(overrides))
	for k, v := range t {
		merged[k] = v
	}
	for k, v := range overrides {
		key := normalizeKey(k)
		if key == "" || strings.TrimSpace(v) == "" {
			continue
		}
		merged[key] = strings.TrimSpace(v)
	}
	return merged
}

// Canonical returns the canonical display name for a skill, or the trimmed input
// when the table has no entry for it.
func (t SynonymTable) Canonical(name string) string {
	trimmed := strings.TrimSpace(name)
	if canonical, ok := t[normalizeKey(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Key returns the comparison key for a skill: its canonical name, lower-cased.
// Two skills match when their keys are equal.
func (t SynonymTable) Key(name string) string {
	return strings.ToLower(t.Canonical(name))
}

// Same reports whether a and b name the same skill.
func (t SynonymTable) Same(a, b string) bool {
	ka := t.Key(a)
	return ka != "" && ka == t.Key(b)
}

// Variants returns every lower-cased spelling the table treats as name,
// including the comparison key itself, sorted.
func (t SynonymTable) Variants(name string) []string {
	key := t.Key(name)
	if key == "" {
		return nil
	}
	seen := map[string]bool{key: true}
	if n := normalizeKey(name); n != "" {
		seen[n] = true
	}
	for variant, canonical := range t {
		if strings.ToLower(canonical) == key {
			seen[variant] = true
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// normalizeKey lower-cases and collapses internal whitespace
func normalizeKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
