package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// JobListing is an already-structured internship or job posting.
type JobListing struct {
	ID                   string                `json:"id"`
	Company              string                `json:"company" validate:"max=200"`
	Title                string                `json:"title" validate:"max=200"`
	Locations            []string              `json:"locations" validate:"omitempty,dive,required"`
	Description          string                `json:"description"`
	Requirements         string                `json:"requirements"`
	RequiredSkills       []string              `json:"requiredSkills,omitempty" validate:"omitempty,dive,required"`
	RequiredGradYear     Optional[int]         `json:"requiredGradYear"`
	MinDegree            Optional[DegreeLevel] `json:"minDegree"`
	SponsorshipAvailable Optional[bool]        `json:"sponsorshipAvailable"`
	ApplicationURL       string                `json:"applicationUrl,omitempty" validate:"omitempty,url"`
}

// Key returns a stable identifier for the job, falling back to company and title.
func (j *JobListing) Key() string {
	if j.ID != "" {
		return j.ID
	}
	return j.Company + "/" + j.Title
}

// HasIdentity reports whether both company and title are set.
func (j *JobListing) HasIdentity() bool {
	return strings.TrimSpace(j.Company) != "" && strings.TrimSpace(j.Title) != ""
}

// HasContent reports whether the job carries anything a resume can be compared against.
func (j *JobListing) HasContent() bool {
	return strings.TrimSpace(j.Description) != "" ||
		strings.TrimSpace(j.Requirements) != "" ||
		len(j.RequiredSkills) > 0
}

// Validate validates the JobListing using the validator plus range checks on optional fields.
func (j *JobListing) Validate() error {
	validate := validator.New()
	if err := validate.Struct(j); err != nil {
		return err
	}
	if year, ok := j.RequiredGradYear.Get(); ok && (year < 2000 || year > 2100) {
		return fmt.Errorf("requiredGradYear out of range: %d", year)
	}
	if level, ok := j.MinDegree.Get(); ok && !level.Valid() {
		return fmt.Errorf("unknown minDegree: %q", level)
	}
	return nil
}
