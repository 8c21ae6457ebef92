package arena

import "time"

// Player is the ephemeral identity of one queued or playing connection.
type Player struct {
	UserID   string
	Username string
	Rating   int
	ConnID   string
}

type queueEntry struct {
	player     Player
	enqueuedAt time.Time
}

// JoinStatus tags the outcome of a queue join.
type JoinStatus int

const (
	JoinWaiting JoinStatus = iota
	JoinPaired
	JoinAlreadyQueued
)

type JoinOutcome struct {
	Status   JoinStatus
	Opponent Player // set when Status is JoinPaired
}

// MatchmakingQueue holds players waiting for an opponent, in arrival order.
// It is not self-locking: the SessionRegistry serializes all access, so join,
// leave and the pairing scan are atomic with respect to each other.
type MatchmakingQueue struct {
	entries   []queueEntry
	threshold int
}

func NewMatchmakingQueue(threshold int) *MatchmakingQueue {
	return &MatchmakingQueue{threshold: threshold}
}

// Join pairs the player with the first waiting opponent within the rating
// threshold, scanning in arrival order. A player already in the queue is left
// untouched. First fit, not best fit: the earliest compatible waiter wins.
func (q *MatchmakingQueue) Join(p Player) JoinOutcome {
	for _, e := range q.entries {
		if e.player.UserID == p.UserID {
			return JoinOutcome{Status: JoinAlreadyQueued}
		}
	}

	for i, e := range q.entries {
		if absInt(e.player.Rating-p.Rating) <= q.threshold {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return JoinOutcome{Status: JoinPaired, Opponent: e.player}
		}
	}

	q.entries = append(q.entries, queueEntry{player: p, enqueuedAt: time.Now()})
	return JoinOutcome{Status: JoinWaiting}
}

// Leave removes the entry for the user id. Safe to call for a user who is not
// queued; disconnects race with pairing.
func (q *MatchmakingQueue) Leave(userID string) {
	for i, e := range q.entries {
		if e.player.UserID == userID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

func (q *MatchmakingQueue) Len() int {
	return len(q.entries)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
