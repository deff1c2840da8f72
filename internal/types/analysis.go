package types

// Caps on SkillsAnalysis list lengths.
const (
	MaxAlignedSkills = 20
	MaxMissingSkills = 15
	MaxStrengths     = 5
	MaxSuggestions   = 10
)

// DefaultOverallFit is used when the analysis omits its overall-fit narrative.
const DefaultOverallFit = "Unable to determine fit based on available data."

// Where an aligned skill was found on the resume.
const (
	MatchedFromResume     = "resume"
	MatchedFromExperience = "experience"
	MatchedFromProjects   = "projects"
	MatchedFromEducation  = "education"
)

// Relevance and suggestion priority tiers.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Missing-skill priority tiers.
const (
	PriorityRequired   = "required"
	PriorityPreferred  = "preferred"
	PriorityNiceToHave = "nice-to-have"
)

// Missing-skill categories.
const (
	CategoryTechnical = "technical"
	CategorySoft      = "soft"
	CategoryDomain    = "domain"
)

// Suggestion categories.
const (
	SuggestSkills     = "skills"
	SuggestProjects   = "projects"
	SuggestExperience = "experience"
	SuggestEducation  = "education"
)

// AlignedSkill is a job skill the candidate demonstrably has.
type AlignedSkill struct {
	Skill       string `json:"skill"`
	MatchedFrom string `json:"matchedFrom"`
	Relevance   string `json:"relevance"`
	Evidence    string `json:"evidence,omitempty"`
}

// MissingSkill is a job skill the candidate lacks.
type MissingSkill struct {
	Skill    string `json:"skill"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// Strength is a candidate strength worth highlighting for the job.
type Strength struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Suggestion is an actionable improvement for the candidate.
type Suggestion struct {
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
	Rationale  string `json:"rationale"`
}

// SkillsAnalysis is the qualitative comparison between one resume and one job.
type SkillsAnalysis struct {
	AlignedSkills          []AlignedSkill `json:"alignedSkills"`
	MissingSkills          []MissingSkill `json:"missingSkills"`
	StrengthsToHighlight   []Strength     `json:"strengthsToHighlight"`
	ImprovementSuggestions []Suggestion   `json:"improvementSuggestions"`
	OverallFit             string         `json:"overallFit"`
}
