package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/config"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/observability"
	"github.com/jonathan/internship-matcher/internal/parsing"
	"github.com/jonathan/internship-matcher/internal/pipeline"
	"github.com/jonathan/internship-matcher/internal/ranking"
	"github.com/jonathan/internship-matcher/internal/schemas"
	"github.com/jonathan/internship-matcher/internal/skills"
	"github.com/jonathan/internship-matcher/internal/types"
)

// loadConfig loads and validates configuration from --config and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newScorer builds the match scorer with any configured synonym overrides.
func newScorer(cfg *config.Config) (*ranking.Scorer, error) {
	synonyms := skills.DefaultSynonyms().Merge(cfg.Scoring.Synonyms)
	return ranking.NewScorer(cfg.Scoring.Weights, synonyms)
}

// newRunner wires every pipeline stage. The returned client must be closed
// by the caller.
func newRunner(ctx context.Context, cfg *config.Config) (*pipeline.Runner, llm.Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, nil, fmt.Errorf("API key is required (set GEMINI_API_KEY, GROQ_API_KEY or OPENAI_API_KEY, or llm.api_key in the config file)")
	}
	scorer, err := newScorer(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid scoring config: %w", err)
	}
	client, err := llm.NewClient(ctx, cfg.LLMOptions(), cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	runner := &pipeline.Runner{
		Extractor: extraction.New(cfg.ExtractionOptions()),
		Parser:    parsing.NewParser(client, parsing.WithTimeout(cfg.LLM.Timeout)),
		Analyzer: analysis.NewAnalyzer(client,
			analysis.WithTimeout(cfg.LLM.Timeout),
			analysis.WithConcurrency(cfg.Analysis.Concurrency),
			analysis.WithRequestsPerMinute(cfg.Analysis.RequestsPerMinute),
		),
		Scorer: scorer,
		Retry:  cfg.RetryPolicy(),
	}
	return runner, client, nil
}

// readDocument loads a resume file, detecting its media type from content.
func readDocument(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to read resume file: %w", err)
	}
	mediaType := mimetype.Detect(data).String()
	return types.Document{Name: filepath.Base(path), MediaType: mediaType, Data: data}, nil
}

// readJSON decodes a JSON file into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// readJobs loads a JSON array of job listings. Listings that do not match the
// job listing schema are reported on stderr and left for the pipeline to skip.
func readJobs(path string) ([]types.JobListing, error) {
	var raw []json.RawMessage
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s contains no jobs", path)
	}

	jobs := make([]types.JobListing, len(raw))
	for i, item := range raw {
		if err := schemas.ValidateJobListing(string(item)); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: job %d in %s: %v\n", i, path, err)
		}
		if err := json.Unmarshal(item, &jobs[i]); err != nil {
			return nil, fmt.Errorf("failed to parse job %d in %s: %w", i, path, err)
		}
	}
	return jobs, nil
}

// writeOutput writes v as indented JSON to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// printer returns a verbose-mode printer, or nil when --verbose is off.
func printer() *observability.Printer {
	if !verbose {
		return nil
	}
	return observability.NewPrinter(os.Stderr)
}

// progress logs pipeline steps to stderr in verbose mode.
func progress() pipeline.ProgressCallback {
	if !verbose {
		return nil
	}
	return func(e pipeline.ProgressEvent) {
		fmt.Fprintf(os.Stderr, "→ [%s] %s\n", e.Step, e.Message)
	}
}
