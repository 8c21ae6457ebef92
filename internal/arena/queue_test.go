package arena

import "testing"

func TestQueue_JoinIdempotent(t *testing.T) {
	q := NewMatchmakingQueue(200)

	p := Player{UserID: "u1", Rating: 1000}

	if got := q.Join(p); got.Status != JoinWaiting {
		t.Fatalf("first join = %v, want JoinWaiting", got.Status)
	}
	if got := q.Join(p); got.Status != JoinAlreadyQueued {
		t.Fatalf("second join = %v, want JoinAlreadyQueued", got.Status)
	}
	if q.Len() != 1 {
		t.Errorf("queue length = %d, want 1", q.Len())
	}

	// A later opponent still produces exactly one pairing.
	out := q.Join(Player{UserID: "u2", Rating: 1050})
	if out.Status != JoinPaired || out.Opponent.UserID != "u1" {
		t.Fatalf("expected pairing with u1, got %+v", out)
	}
	if q.Len() != 0 {
		t.Errorf("queue length after pairing = %d, want 0", q.Len())
	}
}

func TestQueue_PairingThreshold(t *testing.T) {
	tests := []struct {
		name          string
		waitingRating int
		joinerRating  int
		wantPaired    bool
	}{
		{name: "Gap 190 pairs", waitingRating: 1190, joinerRating: 1000, wantPaired: true},
		{name: "Gap exactly 200 pairs", waitingRating: 1200, joinerRating: 1000, wantPaired: true},
		{name: "Gap 210 does not pair", waitingRating: 1210, joinerRating: 1000, wantPaired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewMatchmakingQueue(200)
			q.Join(Player{UserID: "waiter", Rating: tt.waitingRating})

			out := q.Join(Player{UserID: "joiner", Rating: tt.joinerRating})
			paired := out.Status == JoinPaired
			if paired != tt.wantPaired {
				t.Errorf("paired = %v, want %v", paired, tt.wantPaired)
			}
		})
	}
}

func TestQueue_FirstFitNotBestFit(t *testing.T) {
	q := NewMatchmakingQueue(200)

	// The waiters are 400 apart so they cannot pair with each other, but a
	// 1000-rated joiner is within the threshold of both. Arrival order pins
	// the scan order: 1200 is examined first even though 800 is equally far.
	if out := q.Join(Player{UserID: "first", Rating: 1200}); out.Status != JoinWaiting {
		t.Fatalf("first waiter = %v, want JoinWaiting", out.Status)
	}
	if out := q.Join(Player{UserID: "second", Rating: 800}); out.Status != JoinWaiting {
		t.Fatalf("second waiter = %v, want JoinWaiting", out.Status)
	}

	out := q.Join(Player{UserID: "joiner", Rating: 1000})
	if out.Status != JoinPaired {
		t.Fatal("expected pairing")
	}
	if out.Opponent.UserID != "first" {
		t.Errorf("paired with %s, want first-fit opponent", out.Opponent.UserID)
	}
	if q.Len() != 1 {
		t.Errorf("queue length = %d, want 1 (second still waiting)", q.Len())
	}
}

func TestQueue_SkipsOutOfRangeWaiter(t *testing.T) {
	q := NewMatchmakingQueue(200)

	// 1210 and 850 are too far apart to pair with each other; a 1000-rated
	// joiner is out of range of 1210 and must fall through to 850.
	if out := q.Join(Player{UserID: "far", Rating: 1210}); out.Status != JoinWaiting {
		t.Fatalf("far waiter = %v, want JoinWaiting", out.Status)
	}
	if out := q.Join(Player{UserID: "near", Rating: 850}); out.Status != JoinWaiting {
		t.Fatalf("near waiter = %v, want JoinWaiting", out.Status)
	}

	out := q.Join(Player{UserID: "joiner", Rating: 1000})
	if out.Status != JoinPaired || out.Opponent.UserID != "near" {
		t.Fatalf("expected pairing with near, got %+v", out)
	}
	if q.Len() != 1 {
		t.Errorf("queue length = %d, want 1 (far still waiting)", q.Len())
	}
}

func TestQueue_LeaveIsSafe(t *testing.T) {
	q := NewMatchmakingQueue(200)

	// Removing an unknown user must not panic; disconnects race pairing.
	q.Leave("ghost")

	q.Join(Player{UserID: "u1", Rating: 1000})
	q.Leave("u1")
	if q.Len() != 0 {
		t.Errorf("queue length = %d, want 0", q.Len())
	}

	q.Leave("u1")
}
