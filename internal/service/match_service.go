package service

import (
	"context"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/repository"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

// MatchService exposes match projections and the out-of-band result path used
// by tooling and backfills. Live matches settle through the arena instead.
type MatchService struct {
	matches *repository.MatchRepository
	users   *repository.UserRepository
	rating  RatingStrategy
}

func NewMatchService(matches *repository.MatchRepository, users *repository.UserRepository, rating RatingStrategy) *MatchService {
	return &MatchService{matches: matches, users: users, rating: rating}
}

func (s *MatchService) GetByID(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.matches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// Active returns the most recent in-progress matches.
func (s *MatchService) Active(ctx context.Context, limit int) ([]*models.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.matches.Active(ctx, limit)
}

// HistoryForUser returns a user's completed matches, newest first.
func (s *MatchService) HistoryForUser(ctx context.Context, userID string, limit, offset int) ([]*models.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.matches.HistoryForUser(ctx, userID, limit, offset)
}

// RecordResult applies a decided result to both players' ratings and stats.
// Both ratings are read before either is updated so the adjustment is
// symmetric regardless of argument order.
func (s *MatchService) RecordResult(ctx context.Context, req *models.MatchResultRequest) (*models.User, *models.User, error) {
	if req.WinnerID == "" || req.LoserID == "" {
		return nil, nil, ErrInvalidInput
	}
	if req.WinnerID == req.LoserID {
		return nil, nil, ErrSamePlayer
	}

	winner, err := s.users.Get(ctx, req.WinnerID)
	if err != nil {
		return nil, nil, err
	}
	if winner == nil {
		return nil, nil, ErrUserNotFound
	}
	loser, err := s.users.Get(ctx, req.LoserID)
	if err != nil {
		return nil, nil, err
	}
	if loser == nil {
		return nil, nil, ErrUserNotFound
	}

	winner.Rating, loser.Rating = RatePair(s.rating, winner.Rating, loser.Rating, 1)
	winner.MatchesPlayed++
	winner.MatchesWon++
	loser.MatchesPlayed++

	if err := s.users.Save(ctx, winner); err != nil {
		return nil, nil, err
	}
	if err := s.users.Save(ctx, loser); err != nil {
		return nil, nil, err
	}

	logger.Info("match result recorded",
		"winner_id", winner.ID, "winner_rating", winner.Rating,
		"loser_id", loser.ID, "loser_rating", loser.Rating,
		"strategy", s.rating.Name())
	return winner, loser, nil
}
