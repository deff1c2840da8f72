package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/internship-matcher/internal/llm"
	"github.com/jonathan/internship-matcher/internal/llm/llmtest"
	"github.com/jonathan/internship-matcher/internal/types"
)

func janeText() types.ExtractedText {
	return types.ExtractedText{Text: "Jane Doe, jane@x.edu, Skills: Python, React, SQL. B.S. Computer Science, expected May 2026."}
}

func TestExtractResume_HappyPath(t *testing.T) {
	client := llmtest.Returning(`{
		"name": "Jane Doe",
		"email": "jane@x.edu",
		"graduationDate": "2026-05",
		"degree": "B.S. Computer Science",
		"gpa": 3.7,
		"workAuthorization": null,
		"skills": ["Python", "React", "SQL"],
		"experience": [],
		"projects": []
	}`)
	parser := NewParser(client)

	resume, err := parser.ExtractResume(context.Background(), janeText())
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", resume.Name)
	assert.Equal(t, "jane@x.edu", resume.Email)
	assert.Contains(t, resume.Skills, "Python")
	assert.Contains(t, resume.Skills, "React")
	assert.NotNil(t, resume.Experience)
	assert.Empty(t, resume.Experience)
	assert.NotNil(t, resume.Projects)
	assert.Empty(t, resume.Projects)
	assert.Equal(t, types.DegreeBachelor, resume.DegreeLevel)
	assert.Equal(t, 3.7, resume.GPA.OrElse(0))
	assert.False(t, resume.WorkAuthorization.IsPresent())

	year, ok := resume.GraduationYear()
	require.True(t, ok)
	assert.Equal(t, 2026, year)
}

func TestExtractResume_MalformedFields(t *testing.T) {
	client := llmtest.Returning(`{"skills": "Python, React"}`)
	parser := NewParser(client)

	resume, err := parser.ExtractResume(context.Background(), janeText())
	require.NoError(t, err)

	assert.Equal(t, []string{}, resume.Skills)
	assert.Equal(t, []types.ExperienceEntry{}, resume.Experience)
	assert.Equal(t, []types.ProjectEntry{}, resume.Projects)
	assert.Equal(t, types.NotSpecified, resume.Name)
	assert.Equal(t, types.NotSpecified, resume.Email)
	assert.Equal(t, types.NotSpecified, resume.GraduationDate)
	assert.Equal(t, types.DegreeUnspecified, resume.DegreeLevel)
}

func TestExtractResume_RequestShape(t *testing.T) {
	client := llmtest.Returning(`{"name": "Jane Doe"}`)
	parser := NewParser(client)

	_, err := parser.ExtractResume(context.Background(), janeText())
	require.NoError(t, err)

	requests := client.Requests()
	require.Len(t, requests, 1)
	req := requests[0]
	assert.Contains(t, req.System, "resume parser")
	assert.Contains(t, req.Prompt, "Jane Doe, jane@x.edu")
	assert.Contains(t, req.Prompt, `"graduationDate"`)
	assert.InDelta(t, 0.1, req.Temperature, 1e-6)
	assert.Equal(t, llm.TierStandard, req.Tier)
}

func TestExtractResume_EmptyInputSkipsCall(t *testing.T) {
	client := llmtest.Returning(`{}`)
	parser := NewParser(client)

	_, err := parser.ExtractResume(context.Background(), types.ExtractedText{Text: "  \n\t "})
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindEmptyInput, kind)
	assert.Equal(t, 0, client.Calls())
}

func TestExtractResume_FailureMapping(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      Kind
		retryable bool
	}{
		{
			name:      "timeout",
			err:       &llm.CallError{Kind: llm.FailureTimeout, Message: "deadline", Cause: context.DeadlineExceeded},
			want:      KindTimeout,
			retryable: true,
		},
		{
			name:      "unavailable",
			err:       &llm.CallError{Kind: llm.FailureUnavailable, Message: "quota exceeded"},
			want:      KindServiceUnavailable,
			retryable: true,
		},
		{
			name:      "empty completion",
			err:       &llm.CallError{Kind: llm.FailureBadResponse, Message: "no candidates"},
			want:      KindInvalidResponse,
			retryable: false,
		},
		{
			name:      "unclassified error",
			err:       errors.New("connection reset"),
			want:      KindServiceUnavailable,
			retryable: true,
		},
		{
			name:      "wrapped deadline",
			err:       fmt.Errorf("generate: %w", context.DeadlineExceeded),
			want:      KindTimeout,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser(llmtest.Failing(tt.err))

			_, err := parser.ExtractResume(context.Background(), janeText())
			require.Error(t, err)

			var parseErr *Error
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, tt.want, parseErr.Kind)
			assert.Equal(t, tt.retryable, parseErr.Retryable())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExtractResume_TimeoutBoundsCall(t *testing.T) {
	client := &llmtest.MockClient{
		GenerateJSONFunc: func(ctx context.Context, _ llm.Request) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	parser := NewParser(client, WithTimeout(20*time.Millisecond))

	_, err := parser.ExtractResume(context.Background(), janeText())
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, kind)
}

func TestExtractResume_InvalidResponse(t *testing.T) {
	for _, completion := range []string{"not json at all", `["Python", "React"]`, `"just a string"`, `{"name": `} {
		t.Run(completion, func(t *testing.T) {
			parser := NewParser(llmtest.Returning(completion))

			_, err := parser.ExtractResume(context.Background(), janeText())
			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, KindInvalidResponse, kind)
		})
	}
}

func TestExtractResume_FencedCompletion(t *testing.T) {
	parser := NewParser(llmtest.Returning("Here you go:\n```json\n{\"name\": \"Jane Doe\", \"skills\": [\"Go\"]}\n```"))

	resume, err := parser.ExtractResume(context.Background(), janeText())
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resume.Name)
	assert.Equal(t, []string{"Go"}, resume.Skills)
}

func TestResumeSchema(t *testing.T) {
	schema := ResumeSchema()
	names := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, "name,email,graduationDate,degree,gpa,workAuthorization,skills,experience,projects", strings.Join(names, ","))
}
