package arena

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/service"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

// UserStore reads and writes the user fields the arena owns for the duration
// of a match (rating, matchesPlayed, matchesWon, points).
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}

// MatchStore persists the durable match history. The in-memory session stays
// authoritative while the match is live.
type MatchStore interface {
	Create(ctx context.Context, match *models.Match) error
	Complete(ctx context.Context, match *models.Match) error
}

// QuestionSource supplies the problem for a new match.
type QuestionSource interface {
	RandomQuestion(ctx context.Context, difficulty *models.Difficulty) (*models.Question, error)
}

type connInfo struct {
	userID  string
	matchID string // empty while not in a match
}

// SessionRegistry owns the waiting queue and every live MatchSession. A single
// mutex serializes all queue and session mutation: join, leave and submit are
// check-then-act sequences that must not interleave. Judging is the one slow
// operation and runs outside the lock; its result re-enters through
// deliverJudgment.
type SessionRegistry struct {
	mu       sync.Mutex
	queue    *MatchmakingQueue
	sessions map[string]*MatchSession
	conns    map[string]connInfo

	users     UserStore
	matches   MatchStore
	questions QuestionSource
	judge     Judge
	notifier  Notifier
	rating    service.RatingStrategy
}

func NewSessionRegistry(
	pairingThreshold int,
	users UserStore,
	matches MatchStore,
	questions QuestionSource,
	judge Judge,
	notifier Notifier,
	rating service.RatingStrategy,
) *SessionRegistry {
	return &SessionRegistry{
		queue:     NewMatchmakingQueue(pairingThreshold),
		sessions:  make(map[string]*MatchSession),
		conns:     make(map[string]connInfo),
		users:     users,
		matches:   matches,
		questions: questions,
		judge:     judge,
		notifier:  notifier,
		rating:    rating,
	}
}

// BindConnection records which user a realtime connection belongs to, for
// disconnect cleanup.
func (r *SessionRegistry) BindConnection(connID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[connID] = connInfo{userID: userID}
}

// OnDisconnect removes a waiting player from the queue. A disconnect during
// an active match leaves the session untouched; there are no forfeit
// semantics.
func (r *SessionRegistry) OnDisconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(r.conns, connID)

	if info.matchID == "" {
		r.queue.Leave(info.userID)
	}
}

// HandleJoinQueue enqueues the player or, when a compatible opponent is
// already waiting, creates a match and notifies both sides. A duplicate join
// while waiting is a no-op.
func (r *SessionRegistry) HandleJoinQueue(ctx context.Context, connID, userID string) {
	user, err := r.users.Get(ctx, userID)
	if err != nil || user == nil {
		logger.Warn("Join queue for unknown user", "userId", userID, "error", err)
		return
	}

	player := Player{
		UserID:   user.ID,
		Username: user.Username,
		Rating:   user.Rating,
		ConnID:   connID,
	}

	r.mu.Lock()
	outcome := r.queue.Join(player)
	r.mu.Unlock()

	switch outcome.Status {
	case JoinAlreadyQueued:
		logger.Debug("Duplicate queue join ignored", "userId", userID)

	case JoinWaiting:
		logger.Info("Player waiting for opponent", "userId", userID, "rating", user.Rating)
		r.notifier.Notify(userID, EventWaiting, WaitingPayload{
			Message: "Waiting for an opponent...",
		})

	case JoinPaired:
		r.createMatch(ctx, outcome.Opponent, player)
	}
}

// createMatch builds the session for two freshly paired players, persists the
// match row and notifies both sides. Pairing already removed the opponent
// from the queue, so the pair can no longer be matched with anyone else.
func (r *SessionRegistry) createMatch(ctx context.Context, a, b Player) {
	question, err := r.questions.RandomQuestion(ctx, nil)
	if err != nil || question == nil {
		// Without a question there is no match; both players have already
		// left the queue, so tell them to rejoin.
		logger.Error("Failed to pick question for match", "error", err)
		for _, p := range []Player{a, b} {
			r.notifier.Notify(p.UserID, EventWaiting, WaitingPayload{
				Message: "Could not start a match, please rejoin the queue.",
			})
		}
		return
	}

	matchID := uuid.New().String()
	session := newMatchSession(matchID, *question, a, b)

	r.mu.Lock()
	r.sessions[matchID] = session
	r.setConnMatch(a.ConnID, matchID)
	r.setConnMatch(b.ConnID, matchID)
	r.mu.Unlock()

	if err := r.matches.Create(ctx, session.snapshot()); err != nil {
		logger.Error("Failed to persist new match", "matchId", matchID, "error", err)
	}

	logger.Info("Match created",
		"matchId", matchID,
		"questionId", question.ID,
		"player1", a.UserID,
		"player2", b.UserID,
		"ratingGap", absInt(a.Rating-b.Rating),
	)

	// Hidden test cases stay server-side.
	public := *question
	public.TestCases = nil

	r.notifier.Notify(a.UserID, EventMatchFound, MatchFoundPayload{
		MatchID:  matchID,
		Question: public,
		Opponent: OpponentInfo{Username: b.Username, Rating: b.Rating},
	})
	r.notifier.Notify(b.UserID, EventMatchFound, MatchFoundPayload{
		MatchID:  matchID,
		Question: public,
		Opponent: OpponentInfo{Username: a.Username, Rating: a.Rating},
	})
}

func (r *SessionRegistry) setConnMatch(connID, matchID string) {
	if info, ok := r.conns[connID]; ok {
		info.matchID = matchID
		r.conns[connID] = info
	}
}

// GetByMatchID returns the live session, or nil.
func (r *SessionRegistry) GetByMatchID(matchID string) *MatchSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[matchID]
}

// ActiveSessions reports how many matches are currently live.
func (r *SessionRegistry) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// WaitingPlayers reports the queue depth.
func (r *SessionRegistry) WaitingPlayers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queue.Len()
}

// HandleSubmit accepts a participant's submission and judges it
// asynchronously. Invalid submissions (unknown match, non-participant,
// duplicate) are dropped with a log line and no client event, matching the
// fail-closed realtime surface.
func (r *SessionRegistry) HandleSubmit(ctx context.Context, matchID, userID, language, code string) {
	r.mu.Lock()
	session, ok := r.sessions[matchID]
	if !ok {
		r.mu.Unlock()
		logger.Warn("Submission for unknown match", "matchId", matchID, "userId", userID)
		return
	}

	if err := session.beginSubmit(userID); err != nil {
		r.mu.Unlock()
		logger.Warn("Submission rejected",
			"matchId", matchID,
			"userId", userID,
			"reason", err,
		)
		return
	}

	cases := session.Question.TestCases
	r.mu.Unlock()

	// Judging is the only slow step; run it off the lock so other queues and
	// matches keep moving, and deliver the result back as an event. The
	// submitter's connection context is not used here: a disconnect must not
	// cancel an accepted submission.
	go func() {
		ctx := context.Background()
		judgment, err := r.judge.Evaluate(ctx, language, code, cases)
		if err != nil {
			// No judgment was produced, so the submission slot reopens.
			logger.Error("Judge unavailable",
				"matchId", matchID,
				"userId", userID,
				"error", err,
			)
			r.mu.Lock()
			if s, ok := r.sessions[matchID]; ok {
				s.abortSubmit(userID)
			}
			r.mu.Unlock()
			return
		}
		r.deliverJudgment(ctx, matchID, userID, code, judgment)
	}()
}

// deliverJudgment applies a judged submission under the registry lock. The
// both-submitted check and the completion transition happen atomically, so
// two near-simultaneous submissions produce exactly one completion.
func (r *SessionRegistry) deliverJudgment(ctx context.Context, matchID, userID, code string, judgment models.Judgment) {
	r.mu.Lock()
	session, ok := r.sessions[matchID]
	if !ok {
		r.mu.Unlock()
		logger.Warn("Judgment for retired match", "matchId", matchID, "userId", userID)
		return
	}

	bothSubmitted, err := session.recordJudgment(userID, code, judgment)
	if err != nil {
		r.mu.Unlock()
		logger.Warn("Judgment dropped", "matchId", matchID, "userId", userID, "reason", err)
		return
	}

	if !bothSubmitted {
		opponent := session.opponentOf(userID).player
		me := session.participantFor(userID)
		score := *me.score
		r.mu.Unlock()

		logger.Info("Submission recorded, waiting on opponent",
			"matchId", matchID,
			"userId", userID,
			"score", score,
		)

		r.notifier.Notify(opponent.UserID, EventOpponentSubmitted, OpponentSubmittedPayload{
			Message: "Your opponent has submitted their solution.",
		})
		r.notifier.Notify(userID, EventSubmissionResult, SubmissionResultPayload{
			MatchID:  matchID,
			Score:    score,
			Judgment: judgment,
		})
		return
	}

	session.complete()
	delete(r.sessions, matchID)
	for connID, info := range r.conns {
		if info.matchID == matchID {
			info.matchID = ""
			r.conns[connID] = info
		}
	}
	r.finalizeMatch(ctx, session)
	r.mu.Unlock()
}

// finalizeMatch applies ratings, persists users and the match row, and sends
// the terminal notifications. Called with the registry lock held so the user
// read-modify-write cannot race another completion.
func (r *SessionRegistry) finalizeMatch(ctx context.Context, session *MatchSession) {
	p1 := session.participants[0]
	p2 := session.participants[1]

	logger.Info("Match completed",
		"matchId", session.ID,
		"winner", session.WinnerID,
		"player1Score", *p1.score,
		"player2Score", *p2.score,
	)

	delta1, delta2, rating1, rating2 := r.applyRatings(ctx, session)

	if err := r.matches.Complete(ctx, session.snapshot()); err != nil {
		// The in-memory result is already final; losing the write is an
		// operational problem, not a gameplay one.
		logger.Error("Failed to persist match result", "matchId", session.ID, "error", err)
	}

	r.notifyEnded(session, p1, p2, delta1, rating1)
	r.notifyEnded(session, p2, p1, delta2, rating2)
}

// applyRatings runs the rating update for both users from the pre-match
// snapshot. A double failure is a draw with zero rating delta. The returned
// ratings are the persisted ones, which may differ from snapshot+delta when
// a user's rating moved through another path while the match ran.
func (r *SessionRegistry) applyRatings(ctx context.Context, session *MatchSession) (delta1, delta2, rating1, rating2 int) {
	p1 := session.participants[0]
	p2 := session.participants[1]

	user1, err1 := r.users.Get(ctx, p1.player.UserID)
	user2, err2 := r.users.Get(ctx, p2.player.UserID)
	if err1 != nil || err2 != nil || user1 == nil || user2 == nil {
		logger.Error("Failed to load users for rating update",
			"matchId", session.ID,
			"error1", err1,
			"error2", err2,
		)
		return 0, 0, p1.player.Rating, p2.player.Rating
	}

	draw := session.WinnerID == nil

	if !draw {
		score1 := 0.0
		if *session.WinnerID == user1.ID {
			score1 = 1.0
		}
		new1, new2 := service.RatePair(r.rating, user1.Rating, user2.Rating, score1)
		delta1 = new1 - user1.Rating
		delta2 = new2 - user2.Rating
		user1.Rating = new1
		user2.Rating = new2
	}

	user1.MatchesPlayed++
	user2.MatchesPlayed++
	user1.Points += *p1.score
	user2.Points += *p2.score
	if !draw {
		if *session.WinnerID == user1.ID {
			user1.MatchesWon++
		} else {
			user2.MatchesWon++
		}
	}

	if err := r.users.Save(ctx, user1); err != nil {
		logger.Error("Failed to save user after match", "userId", user1.ID, "error", err)
	}
	if err := r.users.Save(ctx, user2); err != nil {
		logger.Error("Failed to save user after match", "userId", user2.ID, "error", err)
	}

	return delta1, delta2, user1.Rating, user2.Rating
}

func (r *SessionRegistry) notifyEnded(session *MatchSession, me, opponent *participant, ratingDelta, newRating int) {
	r.notifier.Notify(me.player.UserID, EventMatchEnded, MatchEndedPayload{
		MatchID:       session.ID,
		WinnerID:      session.WinnerID,
		YourScore:     *me.score,
		OpponentScore: *opponent.score,
		RatingDelta:   ratingDelta,
		NewRating:     newRating,
		Judgment:      *me.judgment,
	})
}
