package types

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// NotSpecified is the sentinel stored in scalar fields the resume did not provide.
const NotSpecified = "Not specified"

// DegreeLevel is the normalized level of a candidate's degree or a job's degree requirement.
type DegreeLevel string

// Degree levels, ordered from lowest to highest.
const (
	DegreeUnspecified DegreeLevel = "UNSPECIFIED"
	DegreeBachelor    DegreeLevel = "BACHELOR"
	DegreeMaster      DegreeLevel = "MASTER"
	DegreePhD         DegreeLevel = "PHD"
)

// degreeRank maps degree levels to numeric ranks for comparison
var degreeRank = map[DegreeLevel]int{
	DegreeBachelor: 1,
	DegreeMaster:   2,
	DegreePhD:      3,
}

var (
	phdTokens      = map[string]bool{"phd": true, "dphil": true}
	masterTokens   = map[string]bool{"ms": true, "msc": true, "meng": true, "mba": true, "ma": true, "mtech": true, "mphil": true, "mcs": true}
	bachelorTokens = map[string]bool{"bs": true, "bsc": true, "ba": true, "beng": true, "btech": true, "bse": true, "bcs": true, "ab": true}
)

var degreeLabels = map[DegreeLevel]string{
	DegreeBachelor: "Bachelor's",
	DegreeMaster:   "Master's",
	DegreePhD:      "PhD",
}

// Rank returns the comparable rank of the level. Unspecified ranks 0.
func (d DegreeLevel) Rank() int {
	return degreeRank[d]
}

// Label returns the display label for the level.
func (d DegreeLevel) Label() string {
	if label, ok := degreeLabels[d]; ok {
		return label
	}
	return NotSpecified
}

// Valid reports whether d is one of the known levels.
func (d DegreeLevel) Valid() bool {
	switch d {
	case DegreeUnspecified, DegreeBachelor, DegreeMaster, DegreePhD:
		return true
	}
	return false
}

// ParseDegreeLevel derives a DegreeLevel from free-form degree text such as
// "B.S. Computer Science" or "Master of Engineering".
func ParseDegreeLevel(text string) DegreeLevel {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" || lower == strings.ToLower(NotSpecified) {
		return DegreeUnspecified
	}

	switch DegreeLevel(strings.ToUpper(lower)) {
	case DegreeBachelor, DegreeMaster, DegreePhD:
		return DegreeLevel(strings.ToUpper(lower))
	}

	tokens := strings.FieldsFunc(strings.ReplaceAll(lower, ".", ""), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	has := func(set map[string]bool) bool {
		for _, tok := range tokens {
			if set[tok] {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(lower, "doctor") || has(phdTokens):
		return DegreePhD
	case strings.Contains(lower, "master") || has(masterTokens):
		return DegreeMaster
	case strings.Contains(lower, "bachelor") || strings.Contains(lower, "undergraduate") || has(bachelorTokens):
		return DegreeBachelor
	}
	return DegreeUnspecified
}

// WorkAuthorization describes a candidate's authorization to work.
type WorkAuthorization string

// Work authorization statuses.
const (
	WorkAuthUSCitizen        WorkAuthorization = "US_CITIZEN"
	WorkAuthGreenCard        WorkAuthorization = "GREEN_CARD"
	WorkAuthNeedsVisa        WorkAuthorization = "NEEDS_VISA"
	WorkAuthNeedsSponsorship WorkAuthorization = "NEEDS_SPONSORSHIP"
)

// NeedsSponsorship reports whether the candidate requires employer sponsorship.
func (w WorkAuthorization) NeedsSponsorship() bool {
	return w == WorkAuthNeedsVisa || w == WorkAuthNeedsSponsorship
}

// ParseWorkAuthorization maps free text or enum names to a WorkAuthorization.
// Negated sponsorship ("no sponsorship required") never yields a status that
// needs sponsorship; authorization without a stated citizenship maps to
// GREEN_CARD, the closest status that needs none.
func ParseWorkAuthorization(text string) (WorkAuthorization, bool) {
	key := strings.NewReplacer("'", "", "\u2019", "").Replace(strings.ToLower(strings.TrimSpace(text)))
	fields := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	key = strings.Join(fields, " ")
	words := make(map[string]bool, len(fields))
	for _, w := range fields {
		words[w] = true
	}

	citizen := words["citizen"] && !words["non"] && !strings.Contains(key, "not a citizen")
	resident := strings.Contains(key, "green card") || strings.Contains(key, "permanent resident")
	sponsorship := strings.Contains(key, "sponsor") || words["h1b"] || strings.Contains(key, "h 1b")
	visa := words["visa"] || words["opt"] || words["cpt"] || words["f1"]
	negated := negatedSponsorship(fields)
	unauthorized := words["unauthorized"] || strings.Contains(key, "not authorized") || strings.Contains(key, "not eligible")

	switch {
	case key == "":
		return "", false
	case unauthorized:
		return WorkAuthNeedsSponsorship, true
	case (sponsorship || visa) && negated:
		if citizen {
			return WorkAuthUSCitizen, true
		}
		return WorkAuthGreenCard, true
	case sponsorship:
		return WorkAuthNeedsSponsorship, true
	case visa:
		return WorkAuthNeedsVisa, true
	case resident:
		return WorkAuthGreenCard, true
	case citizen:
		return WorkAuthUSCitizen, true
	}
	return "", false
}

var negators = map[string]bool{
	"no": true, "not": true, "without": true, "never": true,
	"doesnt": true, "dont": true, "wont": true, "nor": true,
}

// negatedSponsorship reports whether a sponsorship or visa term follows a
// negator within three words, as in "does not require visa sponsorship".
func negatedSponsorship(fields []string) bool {
	for i, w := range fields {
		term := strings.Contains(w, "sponsor") || w == "visa" || w == "h1b" || w == "1b"
		if !term {
			continue
		}
		for _, prev := range fields[max(0, i-3):i] {
			if negators[prev] {
				return true
			}
		}
	}
	return false
}

// ExperienceEntry is one prior role or internship.
type ExperienceEntry struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Duration string `json:"duration"`
}

// ProjectEntry is one personal, academic or open-source project.
type ProjectEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tech        []string `json:"tech"`
}

// StructuredResume is the normalized candidate profile extracted from resume text.
type StructuredResume struct {
	Name              string                      `json:"name"`
	Email             string                      `json:"email"`
	GraduationDate    string                      `json:"graduationDate"` // YYYY-MM or NotSpecified
	Degree            string                      `json:"degree"`
	DegreeLevel       DegreeLevel                 `json:"degreeLevel"`
	GPA               Optional[float64]           `json:"gpa"`
	WorkAuthorization Optional[WorkAuthorization] `json:"workAuthorization"`
	Skills            []string                    `json:"skills"`
	Experience        []ExperienceEntry           `json:"experience"`
	Projects          []ProjectEntry              `json:"projects"`
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// GraduationYear returns the year portion of GraduationDate. Dates not in
// YYYY-MM form fall back to the first four-digit year they mention.
func (r *StructuredResume) GraduationYear() (int, bool) {
	date := strings.TrimSpace(r.GraduationDate)
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil && year >= 1900 && year <= 2100 {
			return year, true
		}
	}
	match := yearPattern.FindString(date)
	if match == "" {
		return 0, false
	}
	year, _ := strconv.Atoi(match)
	return year, true
}
