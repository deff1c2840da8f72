package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/internship-matcher/internal/types"
)

const matchColumns = `id, resume_id, job_id, score, matching_skills, suggestions,
	status, breakdown, analysis, created_at`

// rowScanner is satisfied by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// SaveMatch inserts a match result. Saving an existing ID replaces its
// scores and analysis but keeps the stored status.
func (db *DB) SaveMatch(ctx context.Context, m *types.MatchResult) error {
	skillsJSON, breakdownJSON, analysisJSON, err := encodeMatch(m)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO matches (`+matchColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   score = $4, matching_skills = $5, suggestions = $6,
		   breakdown = $8, analysis = $9`,
		m.ID, m.ResumeID, m.JobID, m.Score, skillsJSON, m.Suggestions,
		string(m.Status), breakdownJSON, analysisJSON, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match %s: %w", m.ID, err)
	}
	return nil
}

// GetMatch retrieves a match by ID. It returns ErrNotFound when no row exists.
func (db *DB) GetMatch(ctx context.Context, id uuid.UUID) (*types.MatchResult, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

// UpdateMatchStatus moves a match to status and returns the updated record.
func (db *DB) UpdateMatchStatus(ctx context.Context, id uuid.UUID, status types.MatchStatus) (*types.MatchResult, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid match status: %q", status)
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE matches SET status = $1 WHERE id = $2
		 RETURNING `+matchColumns,
		string(status), id)
	m, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	return m, nil
}

// ListMatches returns a resume's matches scoring at least minScore,
// best first.
func (db *DB) ListMatches(ctx context.Context, resumeID string, minScore int) ([]types.MatchResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+matchColumns+` FROM matches
		 WHERE resume_id = $1 AND score >= $2
		 ORDER BY score DESC, created_at ASC`,
		resumeID, minScore)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := []types.MatchResult{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func scanMatch(row rowScanner) (*types.MatchResult, error) {
	var m types.MatchResult
	var status string
	var skillsJSON, breakdownJSON, analysisJSON []byte

	if err := row.Scan(&m.ID, &m.ResumeID, &m.JobID, &m.Score, &skillsJSON,
		&m.Suggestions, &status, &breakdownJSON, &analysisJSON, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Status = types.MatchStatus(status)

	if err := decodeMatch(&m, skillsJSON, breakdownJSON, analysisJSON); err != nil {
		return nil, err
	}
	return &m, nil
}

// encodeMatch renders the JSONB columns of a match.
func encodeMatch(m *types.MatchResult) (skills, breakdown, analysis []byte, err error) {
	skillList := m.MatchingSkills
	if skillList == nil {
		skillList = []string{}
	}
	if skills, err = json.Marshal(skillList); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal matching skills: %w", err)
	}
	if breakdown, err = json.Marshal(m.Breakdown); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	if m.Analysis != nil {
		if analysis, err = json.Marshal(m.Analysis); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal analysis: %w", err)
		}
	}
	return skills, breakdown, analysis, nil
}

// decodeMatch fills the JSONB-backed fields of m. A NULL analysis leaves
// Analysis nil.
func decodeMatch(m *types.MatchResult, skills, breakdown, analysis []byte) error {
	m.MatchingSkills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &m.MatchingSkills); err != nil {
			return fmt.Errorf("failed to decode matching skills: %w", err)
		}
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &m.Breakdown); err != nil {
			return fmt.Errorf("failed to decode breakdown: %w", err)
		}
	}
	if len(analysis) > 0 && string(analysis) != "null" {
		var a types.SkillsAnalysis
		if err := json.Unmarshal(analysis, &a); err != nil {
			return fmt.Errorf("failed to decode analysis: %w", err)
		}
		m.Analysis = &a
	}
	return nil
}
