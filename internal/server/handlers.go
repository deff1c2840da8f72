package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/internship-matcher/internal/pipeline"
	"github.com/jonathan/internship-matcher/internal/types"
)

var validate = validator.New()

// ExtractResponse summarizes an extracted document. Text is included so
// clients can show what was read.
type ExtractResponse struct {
	MediaType   string `json:"media_type"`
	SourceBytes int    `json:"source_bytes"`
	Pages       int    `json:"pages,omitempty"`
	Characters  int    `json:"characters"`
	Hash        string `json:"hash"`
	Text        string `json:"text"`
}

// AnalyzeRequest is the request body for /analyze
type AnalyzeRequest struct {
	Resume *types.StructuredResume `json:"resume" validate:"required"`
	Job    *types.JobListing       `json:"job" validate:"required"`
}

// ScoreRequest is the request body for /score
type ScoreRequest struct {
	Resume *types.StructuredResume `json:"resume" validate:"required"`
	Jobs   []types.JobListing      `json:"jobs" validate:"required,min=1"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleExtract returns the plain text of an uploaded resume
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}

	text, err := s.runner.Extractor.Extract(r.Context(), doc)
	if err != nil {
		s.failure(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		MediaType:   text.MediaType,
		SourceBytes: text.SourceBytes,
		Pages:       text.Pages,
		Characters:  len([]rune(text.Text)),
		Hash:        text.Hash,
		Text:        text.Text,
	})
}

// handleParseResume extracts and structures an uploaded resume
func (s *Server) handleParseResume(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readDocument(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}

	text, err := s.runner.Extractor.Extract(r.Context(), doc)
	if err != nil {
		s.failure(w, err)
		return
	}

	resume, err := s.runner.ParseResume(r.Context(), text, pipeline.Options{})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleAnalyze compares one structured resume with one job
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.runner.Analyzer.Analyze(r.Context(), req.Resume, req.Job)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleScore ranks jobs for a structured resume without calling the model
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	scorer := *s.runner
	scorer.Store = nil
	result, err := scorer.Match(r.Context(), req.Resume, req.Jobs, pipeline.Options{})
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleMatch runs the whole pipeline for an uploaded resume
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	doc, jobs, opts, err := s.readMatchForm(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}

	result, err := s.runner.Run(r.Context(), doc, jobs, opts)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleMatchStream runs the pipeline and streams progress via SSE
func (s *Server) handleMatchStream(w http.ResponseWriter, r *http.Request) {
	doc, jobs, opts, err := s.readMatchForm(w, r)
	if err != nil {
		s.failure(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	result, err := s.runner.Run(r.Context(), doc, jobs, opts)
	if err != nil {
		sse.WriteError(err)
		return
	}
	sse.WriteEvent("complete", result) //nolint:errcheck
}

func (s *Server) readMatchForm(w http.ResponseWriter, r *http.Request) (types.Document, []types.JobListing, pipeline.Options, error) {
	opts := pipeline.Options{TopK: s.config.TopK, MinScore: s.config.MinMatchScore}

	// readDocument parses the form under the upload limit; read fields after it
	doc, err := s.readDocument(w, r)
	if err != nil {
		return doc, nil, opts, err
	}
	jobs, err := formJobs(r)
	if err != nil {
		return doc, nil, opts, err
	}
	if opts.Analyze, err = formBool(r, "analyze"); err != nil {
		return doc, nil, opts, err
	}
	opts.ResumeID = r.FormValue("resume_id")
	return doc, jobs, opts, nil
}

// handleGetMatch returns one persisted match
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.matchID(w, r)
	if !ok {
		return
	}

	match, err := s.store.GetMatch(r.Context(), id)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, match)
}

// handleUpdateMatchStatus moves a match to a new status
func (s *Server) handleUpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.matchID(w, r)
	if !ok {
		return
	}

	var req types.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, err)
		return
	}

	match, err := s.store.UpdateMatchStatus(r.Context(), id, types.MatchStatus(req.Status))
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, match)
}

// handleListMatches lists a resume's stored matches, best first
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	minScore := 0
	if raw := r.URL.Query().Get("min_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > 100 {
			s.errorResponse(w, http.StatusBadRequest, "validation_error", "min_score must be an integer between 0 and 100")
			return
		}
		minScore = v
	}

	matches, err := s.store.ListMatches(r.Context(), r.PathValue("id"), minScore)
	if err != nil {
		s.failure(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"matches": matches, "count": len(matches)})
}

func (s *Server) matchID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "Invalid match id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes and validates a JSON request body, writing the error
// response itself on failure.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "validation_error", "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.failure(w, err)
		return false
	}
	return true
}
