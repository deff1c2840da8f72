package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internship-matcher/internal/analysis"
	"github.com/jonathan/internship-matcher/internal/extraction"
	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/llm/llmtest"
	"github.com/jonathan/internship-matcher/internal/parsing"
	"github.com/jonathan/internship-matcher/internal/ranking"
	"github.com/jonathan/internship-matcher/internal/types"
)

type textBackend string

func (b textBackend) Extract(_ []byte) (extraction.Result, error) {
	return extraction.Result{Text: string(b), Pages: 1}, nil
}

const resumeCompletion = `{
	"name": "Jane Doe",
	"email": "jane@x.edu",
	"graduationDate": "2026-05",
	"degree": "B.S. Computer Science",
	"gpa": 3.8,
	"skills": ["Python", "Go", "React"],
	"experience": [{"company": "Acme", "role": "Software Engineering Intern", "duration": "Summer 2025"}],
	"projects": []
}`

const analysisCompletion = `{
	"alignedSkills": [{"skill": "Go", "matchedFrom": "resume", "relevance": "high"}],
	"missingSkills": [],
	"strengthsToHighlight": [],
	"improvementSuggestions": [],
	"overallFit": "Strong fit."
}`

type memoryStore struct {
	mu      sync.Mutex
	matches []*types.MatchResult
}

func (m *memoryStore) SaveMatch(_ context.Context, match *types.MatchResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches = append(m.matches, match)
	return nil
}

func testDocument() types.Document {
	return types.Document{Name: "resume.pdf", MediaType: types.MediaTypePDF, Data: []byte("%PDF-1.7\n" + strings.Repeat("0", 200))}
}

func testJobs() []types.JobListing {
	return []types.JobListing{
		{
			ID:             "weak",
			Company:        "Initech",
			Title:          "Data Intern",
			Description:    "Spreadsheets.",
			RequiredSkills: []string{"Excel", "Tableau"},
		},
		{
			ID:               "strong",
			Company:          "Globex",
			Title:            "Software Engineering Intern",
			Description:      "Build services.",
			RequiredSkills:   []string{"Go", "Python"},
			RequiredGradYear: types.Some(2026),
		},
		{
			ID:          "invalid",
			Company:     "Bad Co",
			Title:       "Intern",
			Description: "x",
			MinDegree:   types.Some(types.DegreeLevel("ASSOCIATE")),
		},
	}
}

func routingClient(analysisErr error) *llmtest.MockClient {
	return &llmtest.MockClient{
		GenerateJSONFunc: func(_ context.Context, req llm.Request) (string, error) {
			if strings.Contains(req.System, "resume parser") {
				return resumeCompletion, nil
			}
			if analysisErr != nil {
				return "", analysisErr
			}
			return analysisCompletion, nil
		},
	}
}

func newRunner(client llm.Client, store MatchSaver) *Runner {
	resumeText := "Jane Doe\njane@x.edu\n" + strings.Repeat("Software engineering student with Go and Python experience. ", 3)
	return &Runner{
		Extractor: extraction.New(extraction.DefaultConfig()).WithBackend(types.MediaTypePDF, textBackend(resumeText)),
		Parser:    parsing.NewParser(client),
		Analyzer:  analysis.NewAnalyzer(client, analysis.WithRequestsPerMinute(0)),
		Scorer:    ranking.DefaultScorer(),
		Store:     store,
		Retry:     RetryPolicy{Attempts: 3, Backoff: time.Millisecond},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	store := &memoryStore{}
	runner := newRunner(routingClient(nil), store)

	var steps []string
	result, err := runner.Run(context.Background(), testDocument(), testJobs(), Options{
		ResumeID:   "resume-1",
		Analyze:    true,
		MinScore:   DefaultMinMatchScore,
		OnProgress: func(e ProgressEvent) { steps = append(steps, e.Step) },
	})
	require.NoError(t, err)

	assert.Equal(t, "resume-1", result.ResumeID)
	assert.Equal(t, "Jane Doe", result.Resume.Name)
	require.Len(t, result.Matches, 2)
	assert.Contains(t, result.Skipped, "invalid")

	top := result.Matches[0]
	assert.Equal(t, "strong", top.JobID)
	assert.Equal(t, types.StatusNew, top.Status)
	assert.Equal(t, top.Breakdown.Total, top.Score)
	assert.GreaterOrEqual(t, top.Score, DefaultMinMatchScore)
	require.NotNil(t, top.Analysis)
	assert.Equal(t, "Strong fit.", top.Analysis.OverallFit)

	bottom := result.Matches[1]
	assert.Equal(t, "weak", bottom.JobID)
	assert.Nil(t, bottom.Analysis)
	assert.Contains(t, bottom.Suggestions, "Excel")

	assert.Len(t, store.matches, 2)
	assert.Equal(t, []string{StepExtract, StepParse, StepParse, StepScore, StepAnalyze, StepSave}, steps)
}

func TestRun_ExtractionFailureStopsEarly(t *testing.T) {
	client := routingClient(nil)
	runner := newRunner(client, nil)

	doc := types.Document{MediaType: "image/png", Data: []byte("not a resume")}
	_, err := runner.Run(context.Background(), doc, testJobs(), Options{})
	require.Error(t, err)

	kind, ok := extraction.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, extraction.KindInvalidFormat, kind)
	assert.Equal(t, 0, client.Calls())
}

func TestRun_RetriesTransientParseFailure(t *testing.T) {
	var calls int32
	client := &llmtest.MockClient{
		GenerateJSONFunc: func(_ context.Context, _ llm.Request) (string, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return "", &llm.CallError{Kind: llm.FailureUnavailable, Message: "503"}
			}
			return resumeCompletion, nil
		},
	}
	runner := newRunner(client, nil)

	result, err := runner.Run(context.Background(), testDocument(), testJobs(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", result.Resume.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRun_DoesNotRetryPermanentParseFailure(t *testing.T) {
	client := llmtest.Returning(`["not", "an", "object"]`)
	runner := newRunner(client, nil)

	_, err := runner.Run(context.Background(), testDocument(), testJobs(), Options{})
	kind, ok := parsing.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, parsing.KindInvalidResponse, kind)
	assert.Equal(t, 1, client.Calls())
}

func TestMatch_AnalysisFailureIsRecorded(t *testing.T) {
	client := routingClient(&llm.CallError{Kind: llm.FailureTimeout, Message: "slow"})
	runner := newRunner(client, nil)

	resume, err := runner.ParseResume(context.Background(), &types.ExtractedText{Text: "Jane Doe resume"}, Options{})
	require.NoError(t, err)

	result, err := runner.Match(context.Background(), resume, testJobs(), Options{Analyze: true, MinScore: 0, TopK: 1})
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Nil(t, result.Matches[0].Analysis)
	assert.Contains(t, result.AnalysisErrors, "strong")
	assert.NotContains(t, result.AnalysisErrors, "weak")
	// one parse call, then one batch attempt plus two retries for the single analyzed job
	assert.Equal(t, 4, client.Calls())
}

func TestMatch_WithoutAnalysis(t *testing.T) {
	client := routingClient(nil)
	runner := newRunner(client, nil)

	resume := &types.StructuredResume{Skills: []string{"Excel"}, Experience: []types.ExperienceEntry{}, Projects: []types.ProjectEntry{}}
	result, err := runner.Match(context.Background(), resume, testJobs(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ResumeID)
	assert.Equal(t, "weak", result.Matches[0].JobID)
	assert.Equal(t, 0, client.Calls())
}

type failingStore struct{}

func (failingStore) SaveMatch(context.Context, *types.MatchResult) error {
	return errors.New("connection refused")
}

func TestMatch_StoreFailure(t *testing.T) {
	runner := newRunner(routingClient(nil), failingStore{})

	resume := &types.StructuredResume{Skills: []string{"Go"}, Experience: []types.ExperienceEntry{}, Projects: []types.ProjectEntry{}}
	_, err := runner.Match(context.Background(), resume, testJobs(), Options{})
	assert.ErrorContains(t, err, "connection refused")
}

func TestMatch_DuplicateKeysStayDistinct(t *testing.T) {
	client := routingClient(&llm.CallError{Kind: llm.FailureBadResponse, Message: "bad"})
	runner := newRunner(client, nil)
	runner.Retry = RetryPolicy{Attempts: 1}

	posting := types.JobListing{Company: "Globex", Title: "Software Engineering Intern", Description: "Build services.", RequiredSkills: []string{"Go"}}
	broken := types.JobListing{Company: "Bad Co", Title: "Intern", Description: "x", MinDegree: types.Some(types.DegreeLevel("ASSOCIATE"))}
	jobs := []types.JobListing{posting, posting, broken, broken}

	resume := &types.StructuredResume{Skills: []string{"Go"}, Experience: []types.ExperienceEntry{}, Projects: []types.ProjectEntry{}}
	result, err := runner.Match(context.Background(), resume, jobs, Options{Analyze: true, MinScore: 0, TopK: 2})
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	ids := []string{result.Matches[0].JobID, result.Matches[1].JobID}
	assert.ElementsMatch(t, []string{"Globex/Software Engineering Intern", "Globex/Software Engineering Intern#2"}, ids)

	assert.Len(t, result.AnalysisErrors, 2)
	assert.Contains(t, result.AnalysisErrors, "Globex/Software Engineering Intern#2")

	assert.Len(t, result.Skipped, 2)
	assert.Contains(t, result.Skipped, "Bad Co/Intern#3")
	assert.Contains(t, result.Skipped, "Bad Co/Intern#4")
	assert.NotContains(t, result.Skipped, "Bad Co/Intern")
}
