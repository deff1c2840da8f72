package db

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/internship-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *int:
			*p = r.values[i].(int)
		case *[]byte:
			if r.values[i] != nil {
				*p = r.values[i].([]byte)
			}
		case *time.Time:
			*p = r.values[i].(time.Time)
		}
	}
	return nil
}

func sampleMatch() *types.MatchResult {
	m := types.NewMatchResult("resume-1", "job-1",
		types.ScoreBreakdown{Skills: 30, Experience: 20, Education: 16, Eligibility: 15, Total: 81},
		[]string{"Python", "SQL"}, "Consider building experience with Docker.")
	m.Analysis = &types.SkillsAnalysis{
		AlignedSkills: []types.AlignedSkill{{Skill: "Python", MatchedFrom: types.MatchedFromProjects, Relevance: types.TierHigh}},
		MissingSkills: []types.MissingSkill{{Skill: "Docker", Priority: types.PriorityPreferred, Category: types.CategoryTechnical}},
		OverallFit:    "Strong fit.",
	}
	return m
}

func TestEncodeDecodeMatch(t *testing.T) {
	m := sampleMatch()

	skills, breakdown, analysis, err := encodeMatch(m)
	require.NoError(t, err)
	assert.JSONEq(t, `["Python","SQL"]`, string(skills))
	assert.JSONEq(t, `{"skills":30,"experience":20,"education":16,"eligibility":15,"total":81}`, string(breakdown))
	require.NotNil(t, analysis)

	var got types.MatchResult
	require.NoError(t, decodeMatch(&got, skills, breakdown, analysis))
	assert.Equal(t, m.MatchingSkills, got.MatchingSkills)
	assert.Equal(t, m.Breakdown, got.Breakdown)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, "Strong fit.", got.Analysis.OverallFit)
	assert.Equal(t, "Docker", got.Analysis.MissingSkills[0].Skill)
}

func TestEncodeMatch_NilFields(t *testing.T) {
	m := sampleMatch()
	m.MatchingSkills = nil
	m.Analysis = nil

	skills, _, analysis, err := encodeMatch(m)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(skills))
	assert.Nil(t, analysis, "absent analysis is stored as NULL")
}

func TestDecodeMatch_NullAnalysis(t *testing.T) {
	var m types.MatchResult
	require.NoError(t, decodeMatch(&m, nil, []byte(`{"total":10}`), []byte("null")))
	assert.Nil(t, m.Analysis)
	assert.Equal(t, []string{}, m.MatchingSkills)
	assert.Equal(t, 10, m.Breakdown.Total)
}

func TestDecodeMatch_Corrupt(t *testing.T) {
	var m types.MatchResult
	err := decodeMatch(&m, []byte(`{not json`), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matching skills")
}

func TestScanMatch(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := fakeRow{values: []any{
		id, "resume-1", "job-1", 81, []byte(`["Python"]`), "Keep going.",
		"APPLIED", []byte(`{"skills":30,"total":81}`), nil, created,
	}}

	m, err := scanMatch(row)
	require.NoError(t, err)
	assert.Equal(t, id, m.ID)
	assert.Equal(t, types.StatusApplied, m.Status)
	assert.Equal(t, 81, m.Score)
	assert.Equal(t, []string{"Python"}, m.MatchingSkills)
	assert.Equal(t, 30, m.Breakdown.Skills)
	assert.Nil(t, m.Analysis)
	assert.Equal(t, created, m.CreatedAt)
}

func TestScanMatch_Error(t *testing.T) {
	boom := errors.New("boom")
	_, err := scanMatch(fakeRow{err: boom})
	assert.ErrorIs(t, err, boom)
}
