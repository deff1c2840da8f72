// Package parsing turns extracted resume text into a StructuredResume using an LLM.
package parsing

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/prompts"
	"github.com/jonathan/internship-matcher/internal/types"
)

// resumeTemperature keeps extraction close to deterministic
const resumeTemperature = 0.1

// Parser extracts structured resumes through an injected LLM client.
type Parser struct {
	client  llm.Client
	timeout time.Duration
	tier    llm.ModelTier
}

// Option configures a Parser.
type Option func(*Parser)

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithTier selects the model tier used for extraction.
func WithTier(tier llm.ModelTier) Option {
	return func(p *Parser) {
		p.tier = tier
	}
}

// NewParser creates a Parser. The client is owned by the caller.
func NewParser(client llm.Client, opts ...Option) *Parser {
	p := &Parser{
		client:  client,
		timeout: llm.DefaultTimeout,
		tier:    llm.TierStandard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResumeSchema describes the JSON object the model is asked to return.
func ResumeSchema() llm.ExtractionSchema {
	return llm.ExtractionSchema{
		Name: "StructuredResume",
		Fields: []llm.SchemaField{
			{Name: "name", Description: "candidate's full name", Required: true},
			{Name: "email", Description: "contact email", Required: true},
			{Name: "graduationDate", Description: "YYYY-MM", Required: true},
			{Name: "degree", Description: "degree and major as written", Required: true},
			{Name: "gpa", Type: "number | null"},
			{Name: "workAuthorization", Type: `"US_CITIZEN" | "GREEN_CARD" | "NEEDS_VISA" | "NEEDS_SPONSORSHIP" | null`},
			{Name: "skills", Type: `["string"]`, Required: true},
			{Name: "experience", Type: `[{"company": "string", "role": "string", "duration": "string"}]`, Required: true},
			{Name: "projects", Type: `[{"name": "string", "description": "string", "tech": ["string"]}]`, Required: true},
		},
	}
}

// ExtractResume asks the model for a structured view of text and normalizes
// whatever comes back. Failures are *Error values.
func (p *Parser) ExtractResume(ctx context.Context, text types.ExtractedText) (*types.StructuredResume, error) {
	if strings.TrimSpace(text.Text) == "" {
		return nil, &Error{Kind: KindEmptyInput, Hint: "The resume text is empty. Please upload a resume with readable text."}
	}

	req := llm.Request{
		System:      prompts.MustGet("resume.json", "resume-system"),
		Prompt:      buildResumePrompt(text.Text),
		Temperature: resumeTemperature,
		Tier:        p.tier,
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.client.GenerateJSON(callCtx, req)
	if err != nil {
		parseErr := fromCallError(err)
		log.Printf("[parse] resume extraction failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return nil, parseErr
	}

	decoded, err := decodeResume(raw)
	if err != nil {
		log.Printf("[parse] unusable model response (%d bytes): %v", len(raw), err)
		return nil, err
	}

	resume := Normalize(*decoded)
	log.Printf("[parse] extracted resume with %d skills, %d experience entries, %d projects in %s",
		len(resume.Skills), len(resume.Experience), len(resume.Projects), time.Since(start).Round(time.Millisecond))
	return &resume, nil
}

func buildResumePrompt(resumeText string) string {
	instructions := prompts.MustGet("resume.json", "resume-instructions")
	return "Parse this resume and extract the following information.\n\n" +
		llm.BuildExtractionPrompt(ResumeSchema(), instructions, resumeText)
}
