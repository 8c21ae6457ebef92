package service

import (
	"context"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/repository"
)

// QuestionService exposes the problem catalog.
type QuestionService struct {
	repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{repo: repo}
}

func (s *QuestionService) GetByID(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}

func (s *QuestionService) List(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Random picks a question for a match, optionally constrained by difficulty.
func (s *QuestionService) Random(ctx context.Context, difficulty *models.Difficulty) (*models.Question, error) {
	question, err := s.repo.RandomQuestion(ctx, difficulty)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}
	return question, nil
}
