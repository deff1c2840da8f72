package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MatchStatus tracks what the candidate has done with a match.
type MatchStatus string

// Match statuses. NEW is assigned on creation.
const (
	StatusNew       MatchStatus = "NEW"
	StatusViewed    MatchStatus = "VIEWED"
	StatusApplied   MatchStatus = "APPLIED"
	StatusDismissed MatchStatus = "DISMISSED"
)

// Valid reports whether s is in the closed set of statuses.
func (s MatchStatus) Valid() bool {
	switch s {
	case StatusNew, StatusViewed, StatusApplied, StatusDismissed:
		return true
	}
	return false
}

// ScoreBreakdown holds the points earned per scoring component.
type ScoreBreakdown struct {
	Skills      int `json:"skills"`
	Experience  int `json:"experience"`
	Education   int `json:"education"`
	Eligibility int `json:"eligibility"`
	Total       int `json:"total"`
}

// MatchResult is one resume-versus-job evaluation.
// Only Status may change after creation.
type MatchResult struct {
	ID             uuid.UUID       `json:"id"`
	ResumeID       string          `json:"resumeId"`
	JobID          string          `json:"jobId"`
	Score          int             `json:"score"`
	MatchingSkills []string        `json:"matchingSkills"`
	Suggestions    string          `json:"suggestions"`
	Status         MatchStatus     `json:"status"`
	Breakdown      ScoreBreakdown  `json:"breakdown"`
	Analysis       *SkillsAnalysis `json:"analysis,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewMatchResult creates a MatchResult in the NEW status.
func NewMatchResult(resumeID, jobID string, breakdown ScoreBreakdown, matchingSkills []string, suggestions string) *MatchResult {
	if matchingSkills == nil {
		matchingSkills = []string{}
	}
	return &MatchResult{
		ID:             uuid.New(),
		ResumeID:       resumeID,
		JobID:          jobID,
		Score:          breakdown.Total,
		MatchingSkills: matchingSkills,
		Suggestions:    suggestions,
		Status:         StatusNew,
		Breakdown:      breakdown,
		CreatedAt:      time.Now().UTC(),
	}
}

// SetStatus moves the match to status, rejecting values outside the closed set.
func (m *MatchResult) SetStatus(status MatchStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid match status: %q", status)
	}
	m.Status = status
	return nil
}

// UpdateStatusRequest is the request body for changing a match's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW VIEWED APPLIED DISMISSED"`
}

// Validate validates the UpdateStatusRequest using the validator.
func (r *UpdateStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
