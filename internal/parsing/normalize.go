package parsing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/internship-matcher/internal/types"
)

// graduationLayouts are the date spellings accepted for graduationDate
var graduationLayouts = []string{"2006-01", "January 2006", "Jan 2006", "01/2006", "1/2006", "2006-01-02"}

// seasonMonths maps an academic term to the month its commencement usually falls in.
var seasonMonths = map[string]int{"spring": 5, "summer": 8, "fall": 12, "autumn": 12, "winter": 12}

var graduationQualifiers = []string{"expected", "anticipated", "estimated", "graduating", "graduation", "est."}

// Normalize resolves every absent or malformed field of r to its documented
// default. The result never has nil lists, and Normalize(Normalize(r)) equals
// Normalize(r).
func Normalize(r types.StructuredResume) types.StructuredResume {
	out := types.StructuredResume{
		Name:              orSentinel(r.Name),
		Email:             orSentinel(r.Email),
		GraduationDate:    normalizeGraduationDate(r.GraduationDate),
		Degree:            orSentinel(r.Degree),
		DegreeLevel:       r.DegreeLevel,
		GPA:               r.GPA,
		WorkAuthorization: r.WorkAuthorization,
		Skills:            dedupe(r.Skills),
		Experience:        make([]types.ExperienceEntry, 0, len(r.Experience)),
		Projects:          make([]types.ProjectEntry, 0, len(r.Projects)),
	}

	if !out.DegreeLevel.Valid() || out.DegreeLevel == types.DegreeUnspecified {
		out.DegreeLevel = types.ParseDegreeLevel(out.Degree)
	}

	if gpa, ok := r.GPA.Get(); ok && (math.IsNaN(gpa) || gpa < 0 || gpa > 4.0) {
		out.GPA = types.None[float64]()
	}

	if auth, ok := r.WorkAuthorization.Get(); ok {
		if parsed, known := types.ParseWorkAuthorization(string(auth)); known {
			out.WorkAuthorization = types.Some(parsed)
		} else {
			out.WorkAuthorization = types.None[types.WorkAuthorization]()
		}
	}

	for _, e := range r.Experience {
		entry := types.ExperienceEntry{
			Company:  orSentinel(e.Company),
			Role:     orSentinel(e.Role),
			Duration: orSentinel(e.Duration),
		}
		if isBlank(entry.Company) && isBlank(entry.Role) && isBlank(entry.Duration) {
			continue
		}
		out.Experience = append(out.Experience, entry)
	}

	for _, p := range r.Projects {
		project := types.ProjectEntry{
			Name:        orSentinel(p.Name),
			Description: collapse(p.Description),
			Tech:        dedupe(p.Tech),
		}
		if isBlank(project.Name) && project.Description == "" && len(project.Tech) == 0 {
			continue
		}
		out.Projects = append(out.Projects, project)
	}

	return out
}

// collapse trims s and squeezes internal whitespace runs to one space
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orSentinel(s string) string {
	if s = collapse(s); s == "" || strings.EqualFold(s, types.NotSpecified) ||
		strings.EqualFold(s, "null") || strings.EqualFold(s, "n/a") {
		return types.NotSpecified
	}
	return s
}

func isBlank(s string) bool {
	return s == "" || s == types.NotSpecified
}

// dedupe trims entries, drops empties and removes case-insensitive duplicates,
// keeping the first spelling seen
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = collapse(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// normalizeGraduationDate rewrites recognized dates as YYYY-MM and leaves
// anything else as written
func normalizeGraduationDate(s string) string {
	s = orSentinel(s)
	if s == types.NotSpecified {
		return s
	}
	date := stripQualifiers(s)
	for _, layout := range graduationLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2006-01")
		}
	}
	if fields := strings.Fields(date); len(fields) == 2 {
		month, ok := seasonMonths[strings.ToLower(fields[0])]
		year, err := strconv.Atoi(fields[1])
		if ok && err == nil && year >= 1900 && year <= 2100 {
			return fmt.Sprintf("%04d-%02d", year, month)
		}
	}
	return s
}

// stripQualifiers drops leading words like "Expected" so "Expected May 2026"
// parses as "May 2026".
func stripQualifiers(s string) string {
	for {
		lower := strings.ToLower(s)
		trimmed := false
		for _, q := range graduationQualifiers {
			if strings.HasPrefix(lower, q+" ") || strings.HasPrefix(lower, q+":") {
				s = strings.TrimLeft(s[len(q):], " :")
				trimmed = true
				break
			}
		}
		if !trimmed {
			return s
		}
	}
}
