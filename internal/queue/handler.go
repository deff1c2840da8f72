package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/parsing"
	"github.com/jonathan/internship-matcher/internal/pipeline"
	"github.com/jonathan/internship-matcher/internal/storage"
	"github.com/jonathan/internship-matcher/internal/types"
)

// Outcome tells the consumer how to settle a delivery.
type Outcome int

const (
	// Ack removes the message; the request completed or failed for good.
	Ack Outcome = iota
	// Reject drops a message that can never be processed.
	Reject
	// Requeue returns the message to the queue for another attempt.
	Requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Reject:
		return "reject"
	case Requeue:
		return "requeue"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// MatchRunner runs the matching pipeline. *pipeline.Runner satisfies it.
type MatchRunner interface {
	Run(ctx context.Context, doc types.Document, jobs []types.JobListing, opts pipeline.Options) (*pipeline.Result, error)
}

// Publisher delivers status updates.
type Publisher interface {
	Publish(ctx context.Context, update MatchUpdate) error
}

// Handler processes one delivery body.
type Handler struct {
	Source    storage.Source
	Runner    MatchRunner
	Publisher Publisher
	TopK      int
	MinScore  int
}

// Handle decodes, runs and reports one request. Malformed requests are
// rejected. A transient failure is requeued once; a redelivered message that
// fails again is reported as failed.
func (h *Handler) Handle(ctx context.Context, body []byte, redelivered bool) Outcome {
	var req MatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Printf("[worker] rejecting malformed message: %v", err)
		return Reject
	}
	if err := req.Validate(); err != nil {
		log.Printf("[worker] rejecting invalid request %q: %v", req.ID, err)
		if req.ID != "" {
			h.publish(ctx, newUpdate(req.ID, StatusFailed, "invalid match request"))
		}
		return Reject
	}

	log.Printf("[worker] processing request %s (%s, %d jobs)", req.ID, req.ObjectKey, len(req.Jobs))
	h.publish(ctx, newUpdate(req.ID, StatusProcessing, "matching started"))

	result, err := h.process(ctx, &req)
	if err != nil {
		if transient(err) && !redelivered {
			log.Printf("[worker] request %s failed transiently, requeueing: %v", req.ID, err)
			return Requeue
		}
		log.Printf("[worker] request %s failed: %v", req.ID, err)
		h.publish(ctx, newUpdate(req.ID, StatusFailed, failureMessage(err)))
		return Ack
	}

	update := newUpdate(req.ID, StatusCompleted, fmt.Sprintf("matched %d jobs", len(result.Matches)))
	update.Result = result
	h.publish(ctx, update)
	return Ack
}

func (h *Handler) process(ctx context.Context, req *MatchRequest) (*pipeline.Result, error) {
	data, err := h.Source.Fetch(ctx, req.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}

	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = storage.MediaTypeFromKey(req.ObjectKey)
	}
	doc := types.Document{Name: req.ObjectKey, MediaType: mediaType, Data: data}

	return h.Runner.Run(ctx, doc, req.Jobs, pipeline.Options{
		ResumeID: req.ResumeID,
		Analyze:  req.Analyze,
		TopK:     h.TopK,
		MinScore: h.MinScore,
	})
}

func (h *Handler) publish(ctx context.Context, update MatchUpdate) {
	if h.Publisher == nil {
		return
	}
	if err := h.Publisher.Publish(ctx, update); err != nil {
		log.Printf("[worker] failed to publish %s update for %s: %v", update.Status, update.RequestID, err)
	}
}

// transient reports whether retrying the request could succeed.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if pipeline.IsRetryable(err) {
		return true
	}
	var extractErr *extraction.Error
	if errors.As(err, &extractErr) || errors.Is(err, storage.ErrNotFound) {
		return false
	}
	// storage and transport faults without a classification
	var parseErr *parsing.Error
	var analysisErr *analysis.Error
	return !errors.As(err, &parseErr) && !errors.As(err, &analysisErr)
}

// failureMessage returns the user-facing part of err.
func failureMessage(err error) string {
	var extractErr *extraction.Error
	var parseErr *parsing.Error
	var analysisErr *analysis.Error
	switch {
	case errors.As(err, &extractErr):
		return extractErr.Hint
	case errors.As(err, &parseErr):
		return parseErr.Hint
	case errors.As(err, &analysisErr):
		return analysisErr.Hint
	case errors.Is(err, storage.ErrNotFound):
		return "resume file not found"
	}
	return "matching failed"
}
