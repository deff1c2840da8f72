package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/internship-matcher/internal/types"
)

const resumeField = "resume"

// readDocument reads the uploaded resume from a multipart request. The media
// type comes from the part header and is sniffed when the client sent none.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (types.Document, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.Document{}, tooLarge
		}
		return types.Document{}, &ErrValidation{Field: resumeField, Message: "request must be multipart/form-data"}
	}

	file, header, err := r.FormFile(resumeField)
	if err != nil {
		return types.Document{}, &ErrValidation{Field: resumeField, Message: "a resume file is required"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to read upload: %w", err)
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || strings.HasPrefix(mediaType, "application/octet-stream") {
		mediaType = mimetype.Detect(data).String()
	}
	return types.Document{Name: header.Filename, MediaType: mediaType, Data: data}, nil
}

// formJobs decodes the JSON array of job listings in the "jobs" form field.
func formJobs(r *http.Request) ([]types.JobListing, error) {
	raw := strings.TrimSpace(r.FormValue("jobs"))
	if raw == "" {
		return nil, &ErrValidation{Field: "jobs", Message: "at least one job is required"}
	}
	var jobs []types.JobListing
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		return nil, &ErrValidation{Field: "jobs", Message: "must be a JSON array of job listings"}
	}
	if len(jobs) == 0 {
		return nil, &ErrValidation{Field: "jobs", Message: "at least one job is required"}
	}
	return jobs, nil
}

// formBool reads an optional boolean form field.
func formBool(r *http.Request, name string) (bool, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ErrValidation{Field: name, Message: "must be true or false"}
	}
	return v, nil
}
