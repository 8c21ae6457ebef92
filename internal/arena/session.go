package arena

import (
	"errors"
	"time"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadySubmitted    = errors.New("submission already recorded")
	ErrMatchCompleted      = errors.New("match already completed")
)

const maxScore = 100

type participantStatus string

const (
	statusPending   participantStatus = "pending"
	statusSubmitted participantStatus = "submitted"
)

type participant struct {
	player   Player
	status   participantStatus
	judging  bool // submission accepted, judgment not yet recorded
	code     *string
	score    *int
	execMs   *float64
	judgment *models.Judgment
}

// MatchSession is one live 1v1 duel. Pairing is atomic, so a session starts
// Active and only ever moves forward to Completed. All mutation happens under
// the SessionRegistry lock.
type MatchSession struct {
	ID           string
	Question     models.Question
	StartedAt    time.Time
	CompletedAt  *time.Time
	Status       models.MatchStatus
	WinnerID     *string
	participants [2]*participant
}

func newMatchSession(id string, question models.Question, a, b Player) *MatchSession {
	return &MatchSession{
		ID:        id,
		Question:  question,
		StartedAt: time.Now(),
		Status:    models.MatchStatusActive,
		participants: [2]*participant{
			{player: a, status: statusPending},
			{player: b, status: statusPending},
		},
	}
}

func (s *MatchSession) participantFor(userID string) *participant {
	for _, p := range s.participants {
		if p.player.UserID == userID {
			return p
		}
	}
	return nil
}

func (s *MatchSession) opponentOf(userID string) *participant {
	for _, p := range s.participants {
		if p.player.UserID != userID {
			return p
		}
	}
	return nil
}

// beginSubmit claims the participant's single submission slot. The first
// accepted submission is final; anything after it, including attempts that
// race with an in-flight judgment, is rejected.
func (s *MatchSession) beginSubmit(userID string) error {
	if s.Status == models.MatchStatusCompleted {
		return ErrMatchCompleted
	}
	p := s.participantFor(userID)
	if p == nil {
		return ErrParticipantNotFound
	}
	if p.status == statusSubmitted || p.judging {
		return ErrAlreadySubmitted
	}
	p.judging = true
	return nil
}

// abortSubmit releases the slot claimed by beginSubmit when no judgment was
// produced, so the player may try again.
func (s *MatchSession) abortSubmit(userID string) {
	if p := s.participantFor(userID); p != nil && p.status != statusSubmitted {
		p.judging = false
	}
}

// recordJudgment stores the judged result and reports whether both
// participants have now submitted.
func (s *MatchSession) recordJudgment(userID, code string, judgment models.Judgment) (bothSubmitted bool, err error) {
	p := s.participantFor(userID)
	if p == nil {
		return false, ErrParticipantNotFound
	}
	if p.status == statusSubmitted {
		return false, ErrAlreadySubmitted
	}

	score := 0
	if judgment.AllPassed {
		score = maxScore
	}
	execMs := judgment.AverageExecutionTimeMs

	p.code = &code
	p.score = &score
	p.execMs = &execMs
	p.judgment = &judgment
	p.status = statusSubmitted
	p.judging = false

	return s.opponentOf(userID).status == statusSubmitted, nil
}

// complete transitions to Completed and picks the winner: higher score wins;
// equal positive scores go to the faster average execution time; a dead heat,
// including the case where both solutions failed, is a draw.
func (s *MatchSession) complete() {
	now := time.Now()
	s.CompletedAt = &now
	s.Status = models.MatchStatusCompleted
	s.WinnerID = s.pickWinner()
}

func (s *MatchSession) pickWinner() *string {
	a, b := s.participants[0], s.participants[1]

	switch {
	case *a.score > *b.score:
		return &a.player.UserID
	case *b.score > *a.score:
		return &b.player.UserID
	case *a.score == 0:
		return nil
	case *a.execMs < *b.execMs:
		return &a.player.UserID
	case *b.execMs < *a.execMs:
		return &b.player.UserID
	default:
		return nil
	}
}

// snapshot converts the session into its durable record.
func (s *MatchSession) snapshot() *models.Match {
	m := &models.Match{
		ID:          s.ID,
		QuestionID:  s.Question.ID,
		Player1ID:   s.participants[0].player.UserID,
		Player2ID:   s.participants[1].player.UserID,
		Status:      s.Status,
		WinnerID:    s.WinnerID,
		StartedAt:   s.StartedAt,
		CompletedAt: s.CompletedAt,
	}
	m.Player1 = playerResult(s.participants[0])
	m.Player2 = playerResult(s.participants[1])
	return m
}

func playerResult(p *participant) models.PlayerResult {
	return models.PlayerResult{
		Code:            p.code,
		Score:           p.score,
		ExecutionTimeMs: p.execMs,
	}
}
