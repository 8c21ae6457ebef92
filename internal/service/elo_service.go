package service

import "math"

// RatingStrategy computes post-match ratings. Two strategies exist: the Elo
// curve used by live matches and a flat adjustment kept as a named
// alternative for the batch result endpoint.
type RatingStrategy interface {
	Name() string
	// ExpectedScore is the probability of beating the opponent.
	ExpectedScore(ratingSelf, ratingOpponent int) float64
	// ApplyResult maps actual score (1 win, 0.5 draw, 0 loss) to a new rating.
	ApplyResult(ratingSelf int, expected, actual float64) int
}

// NewRatingStrategy resolves a strategy by name, defaulting to Elo.
func NewRatingStrategy(name string) RatingStrategy {
	if name == "flat" {
		return FlatStrategy{}
	}
	return EloStrategy{}
}

// RatePair computes both new ratings from the pre-match snapshot. Both
// expectations are taken before either rating moves, so the result does not
// depend on update order.
func RatePair(s RatingStrategy, ratingA, ratingB int, scoreA float64) (newA, newB int) {
	expectedA := s.ExpectedScore(ratingA, ratingB)
	expectedB := s.ExpectedScore(ratingB, ratingA)

	newA = s.ApplyResult(ratingA, expectedA, scoreA)
	newB = s.ApplyResult(ratingB, expectedB, 1.0-scoreA)
	return newA, newB
}

// EloStrategy is the standard logistic Elo update with a fixed K of 32.
// The K value is calibrated against the rating tests; do not make it
// configurable without re-deriving those.
type EloStrategy struct{}

const eloKFactor = 32.0

func (EloStrategy) Name() string { return "elo" }

func (EloStrategy) ExpectedScore(ratingSelf, ratingOpponent int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(ratingOpponent-ratingSelf)/400.0))
}

func (EloStrategy) ApplyResult(ratingSelf int, expected, actual float64) int {
	return int(math.Round(float64(ratingSelf) + eloKFactor*(actual-expected)))
}

// FlatStrategy adjusts ratings by a fixed 25 points regardless of the
// opponent's strength. Draws leave the rating untouched.
type FlatStrategy struct{}

const flatDelta = 25

func (FlatStrategy) Name() string { return "flat" }

func (FlatStrategy) ExpectedScore(ratingSelf, ratingOpponent int) float64 {
	return 0.5
}

func (FlatStrategy) ApplyResult(ratingSelf int, expected, actual float64) int {
	switch {
	case actual > 0.5:
		return ratingSelf + flatDelta
	case actual < 0.5:
		return ratingSelf - flatDelta
	default:
		return ratingSelf
	}
}
