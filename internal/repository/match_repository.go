package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/database"
)

type MatchRepository struct {
	db *database.DB
}

func NewMatchRepository(db *database.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create writes the row for a freshly paired match.
func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, question_id, player1_id, player2_id, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		match.ID,
		match.QuestionID,
		match.Player1ID,
		match.Player2ID,
		match.Status,
		match.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// Complete writes the final result of a match.
func (r *MatchRepository) Complete(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET status = $1,
		    winner_id = $2,
		    player1_code = $3,
		    player1_score = $4,
		    player1_time_ms = $5,
		    player2_code = $6,
		    player2_score = $7,
		    player2_time_ms = $8,
		    completed_at = $9
		WHERE id = $10
	`

	_, err := r.db.ExecContext(ctx, query,
		match.Status,
		match.WinnerID,
		match.Player1.Code,
		match.Player1.Score,
		match.Player1.ExecutionTimeMs,
		match.Player2.Code,
		match.Player2.Score,
		match.Player2.ExecutionTimeMs,
		match.CompletedAt,
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete match: %w", err)
	}

	return nil
}

// FindByID loads one match row.
func (r *MatchRepository) FindByID(ctx context.Context, id string) (*models.Match, error) {
	query := selectMatch + ` WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	match, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}

	return match, nil
}

// Active lists live matches, most recent first, capped.
func (r *MatchRepository) Active(ctx context.Context, limit int) ([]*models.Match, error) {
	query := selectMatch + `
		WHERE status = 'active'
		ORDER BY started_at DESC
		LIMIT $1
	`
	return r.queryMatches(ctx, query, limit)
}

// HistoryForUser lists a user's completed matches, most recent first.
func (r *MatchRepository) HistoryForUser(ctx context.Context, userID string, limit, offset int) ([]*models.Match, error) {
	query := selectMatch + `
		WHERE status = 'completed'
		  AND (player1_id = $1 OR player2_id = $1)
		ORDER BY completed_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.queryMatches(ctx, query, userID, limit, offset)
}

const selectMatch = `
	SELECT id, question_id, player1_id, player2_id, status, winner_id,
	       player1_code, player1_score, player1_time_ms,
	       player2_code, player2_score, player2_time_ms,
	       started_at, completed_at
	FROM matches
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID,
		&match.QuestionID,
		&match.Player1ID,
		&match.Player2ID,
		&match.Status,
		&match.WinnerID,
		&match.Player1.Code,
		&match.Player1.Score,
		&match.Player1.ExecutionTimeMs,
		&match.Player2.Code,
		&match.Player2.Score,
		&match.Player2.ExecutionTimeMs,
		&match.StartedAt,
		&match.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *MatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}
