package arena

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/service"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

func init() {
	logger.Init("error")
}

type recordedEvent struct {
	userID  string
	event   string
	payload interface{}
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *fakeNotifier) Notify(userID, event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{userID: userID, event: event, payload: payload})
}

func (n *fakeNotifier) count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.event == event {
			c++
		}
	}
	return c
}

func (n *fakeNotifier) last(userID, event string) interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.events) - 1; i >= 0; i-- {
		if n.events[i].userID == userID && n.events[i].event == event {
			return n.events[i].payload
		}
	}
	return nil
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
	saves int
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (s *fakeUserStore) Save(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	s.saves++
	return nil
}

func (s *fakeUserStore) rating(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].Rating
}

type fakeMatchStore struct {
	mu        sync.Mutex
	created   []models.Match
	completed []models.Match
}

func (s *fakeMatchStore) Create(ctx context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *match)
	return nil
}

func (s *fakeMatchStore) Complete(ctx context.Context, match *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = append(s.completed, *match)
	return nil
}

func (s *fakeMatchStore) completedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.completed)
}

type fakeQuestionSource struct {
	question models.Question
}

func (s *fakeQuestionSource) RandomQuestion(ctx context.Context, difficulty *models.Difficulty) (*models.Question, error) {
	q := s.question
	return &q, nil
}

// fakeJudge judges by looking the submitted code up in a verdict table.
type fakeJudge struct {
	verdicts map[string]models.Judgment
}

func (j *fakeJudge) Evaluate(ctx context.Context, language, code string, cases []models.TestCase) (models.Judgment, error) {
	return j.verdicts[code], nil
}

func passJudgment(ms float64) models.Judgment {
	out := "[0,1]"
	return models.NewJudgment([]models.TestCaseResult{
		{Passed: true, ActualOutput: &out, ExecutionTimeMs: ms},
	})
}

func failJudgment() models.Judgment {
	msg := "wrong answer"
	return models.NewJudgment([]models.TestCaseResult{
		{Passed: false, Error: &msg, ExecutionTimeMs: 0},
	})
}

func testQuestion() models.Question {
	return models.Question{
		ID:    "q1",
		Title: "Two Sum",
		TestCases: []models.TestCase{
			{Input: "[2,7,11,15], 9", ExpectedOutput: "[0,1]"},
		},
	}
}

func newTestRegistry(verdicts map[string]models.Judgment) (*SessionRegistry, *fakeNotifier, *fakeUserStore, *fakeMatchStore) {
	users := newFakeUserStore(
		models.User{ID: "alice", Username: "alice", Rating: 1000},
		models.User{ID: "bob", Username: "bob", Rating: 1000},
	)
	notifier := &fakeNotifier{}
	matches := &fakeMatchStore{}
	reg := NewSessionRegistry(
		200,
		users,
		matches,
		&fakeQuestionSource{question: testQuestion()},
		&fakeJudge{verdicts: verdicts},
		notifier,
		service.EloStrategy{},
	)
	reg.BindConnection("conn-alice", "alice")
	reg.BindConnection("conn-bob", "bob")
	return reg, notifier, users, matches
}

// startMatch pairs alice and bob and returns the match id.
func startMatch(t *testing.T, reg *SessionRegistry, notifier *fakeNotifier) string {
	t.Helper()
	ctx := context.Background()

	reg.HandleJoinQueue(ctx, "conn-alice", "alice")
	reg.HandleJoinQueue(ctx, "conn-bob", "bob")

	payload := notifier.last("alice", EventMatchFound)
	if payload == nil {
		t.Fatal("expected match_found for alice")
	}
	return payload.(MatchFoundPayload).MatchID
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestRegistry_PairingNotifiesBothPlayers(t *testing.T) {
	reg, notifier, _, matches := newTestRegistry(nil)
	ctx := context.Background()

	reg.HandleJoinQueue(ctx, "conn-alice", "alice")
	if notifier.last("alice", EventWaiting) == nil {
		t.Error("expected waiting event for the first joiner")
	}

	reg.HandleJoinQueue(ctx, "conn-bob", "bob")

	alicePayload := notifier.last("alice", EventMatchFound)
	bobPayload := notifier.last("bob", EventMatchFound)
	if alicePayload == nil || bobPayload == nil {
		t.Fatal("both players should receive match_found")
	}

	ap := alicePayload.(MatchFoundPayload)
	bp := bobPayload.(MatchFoundPayload)
	if ap.MatchID != bp.MatchID {
		t.Error("players received different match ids")
	}
	if ap.Opponent.Username != "bob" || bp.Opponent.Username != "alice" {
		t.Error("opponent info mixed up")
	}
	if len(ap.Question.TestCases) != 0 {
		t.Error("hidden test cases leaked to the client")
	}

	if reg.ActiveSessions() != 1 {
		t.Errorf("active sessions = %d, want 1", reg.ActiveSessions())
	}
	if reg.WaitingPlayers() != 0 {
		t.Errorf("waiting players = %d, want 0", reg.WaitingPlayers())
	}
	if len(matches.created) != 1 {
		t.Errorf("persisted matches = %d, want 1", len(matches.created))
	}
	if matches.created[0].Status != models.MatchStatusActive {
		t.Errorf("persisted status = %s, want active", matches.created[0].Status)
	}
}

func TestRegistry_DisconnectRemovesWaitingPlayer(t *testing.T) {
	reg, notifier, _, _ := newTestRegistry(nil)
	ctx := context.Background()

	reg.HandleJoinQueue(ctx, "conn-alice", "alice")
	if reg.WaitingPlayers() != 1 {
		t.Fatal("alice should be waiting")
	}

	reg.OnDisconnect("conn-alice")
	if reg.WaitingPlayers() != 0 {
		t.Error("disconnect should remove the waiting player")
	}

	// Bob joining afterwards waits instead of pairing with a ghost.
	reg.HandleJoinQueue(ctx, "conn-bob", "bob")
	if notifier.last("bob", EventMatchFound) != nil {
		t.Error("bob should not be paired with a disconnected player")
	}
}

func TestRegistry_DisconnectDuringMatchLeavesSessionAlive(t *testing.T) {
	reg, notifier, _, _ := newTestRegistry(nil)

	matchID := startMatch(t, reg, notifier)

	reg.OnDisconnect("conn-alice")

	if reg.GetByMatchID(matchID) == nil {
		t.Error("active session must survive a participant disconnect")
	}
}

func TestRegistry_UnknownMatchSubmissionIsDropped(t *testing.T) {
	reg, notifier, _, _ := newTestRegistry(nil)

	reg.HandleSubmit(context.Background(), "no-such-match", "alice", "javascript", "code")

	time.Sleep(20 * time.Millisecond)
	if notifier.count(EventSubmissionResult) != 0 {
		t.Error("submission against unknown match must emit nothing")
	}
}
