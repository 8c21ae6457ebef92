package arena

import (
	"context"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
)

// Event types delivered to clients over the realtime channel. These five are
// the only server-to-client messages players ever see; internal errors are
// logged and dropped instead of being surfaced as new event types.
const (
	EventWaiting           = "waiting"
	EventMatchFound        = "match_found"
	EventSubmissionResult  = "submission_result"
	EventOpponentSubmitted = "opponent_submitted"
	EventMatchEnded        = "match_ended"
)

// Notifier delivers an event to a single user. Implemented by the websocket
// hub; faked in tests.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// Judge executes a submission against the question's test cases. The real
// implementation talks to an external execution service; the arena only
// depends on this contract.
type Judge interface {
	Evaluate(ctx context.Context, language, code string, cases []models.TestCase) (models.Judgment, error)
}

type WaitingPayload struct {
	Message string `json:"message"`
}

type OpponentInfo struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
}

type MatchFoundPayload struct {
	MatchID  string          `json:"matchId"`
	Question models.Question `json:"question"`
	Opponent OpponentInfo    `json:"opponent"`
}

type SubmissionResultPayload struct {
	MatchID  string          `json:"matchId"`
	Score    int             `json:"score"`
	Judgment models.Judgment `json:"judgment"`
}

type OpponentSubmittedPayload struct {
	Message string `json:"message"`
}

type MatchEndedPayload struct {
	MatchID       string          `json:"matchId"`
	WinnerID      *string         `json:"winnerId"`
	YourScore     int             `json:"yourScore"`
	OpponentScore int             `json:"opponentScore"`
	RatingDelta   int             `json:"ratingDelta"`
	NewRating     int             `json:"newRating"`
	Judgment      models.Judgment `json:"judgment"`
}
