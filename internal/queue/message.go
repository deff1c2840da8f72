// Package queue runs the matching pipeline for requests consumed from RabbitMQ
// and publishes status updates as it goes.
package queue

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/internship-matcher/internal/pipeline"
	"github.com/jonathan/internship-matcher/internal/types"
)

// Update statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// MatchRequest asks for one stored resume to be matched against jobs.
type MatchRequest struct {
	ID        string             `json:"id" validate:"required"`
	ResumeID  string             `json:"resume_id,omitempty"`
	ObjectKey string             `json:"object_key" validate:"required"`
	MediaType string             `json:"media_type,omitempty"`
	Jobs      []types.JobListing `json:"jobs" validate:"required,min=1"`
	Analyze   bool               `json:"analyze,omitempty"`
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// MatchUpdate reports the progress of a MatchRequest.
type MatchUpdate struct {
	RequestID string           `json:"request_id"`
	Status    string           `json:"status"`
	Message   string           `json:"message"`
	Result    *pipeline.Result `json:"result,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

func newUpdate(requestID, status, message string) MatchUpdate {
	return MatchUpdate{
		RequestID: requestID,
		Status:    status,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// RoutingKey is the topic routing key updates for requestID are published under.
func RoutingKey(requestID string) string {
	return "match." + requestID
}
