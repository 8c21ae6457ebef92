package models

import "time"

type MatchStatus string

const (
	MatchStatusActive    MatchStatus = "active"
	MatchStatusCompleted MatchStatus = "completed"
)

// Match is the durable record of a 1v1 duel. The in-memory session is the
// source of truth while a match is live; this row is written at creation and
// again at completion.
type Match struct {
	ID          string      `json:"id" db:"id"`
	QuestionID  string      `json:"questionId" db:"question_id"`
	Player1ID   string      `json:"player1Id" db:"player1_id"`
	Player2ID   string      `json:"player2Id" db:"player2_id"`
	Status      MatchStatus `json:"status" db:"status"`
	WinnerID    *string     `json:"winnerId,omitempty" db:"winner_id"`
	Player1     PlayerResult `json:"player1"`
	Player2     PlayerResult `json:"player2"`
	StartedAt   time.Time   `json:"startedAt" db:"started_at"`
	CompletedAt *time.Time  `json:"completedAt,omitempty" db:"completed_at"`
}

// PlayerResult holds one participant's judged outcome.
type PlayerResult struct {
	Code            *string  `json:"code,omitempty" db:"code"`
	Score           *int     `json:"score,omitempty" db:"score"`
	ExecutionTimeMs *float64 `json:"executionTimeMs,omitempty" db:"execution_time_ms"`
}

// MatchResultRequest is the batch result-submission payload; it applies the
// configured rating strategy outside the live-match path.
type MatchResultRequest struct {
	WinnerID string `json:"winnerId" binding:"required"`
	LoserID  string `json:"loserId" binding:"required"`
}
