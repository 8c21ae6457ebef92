package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/database"
)

type QuestionRepository struct {
	db *database.DB
}

func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// RandomQuestion picks a uniformly random question, optionally filtered by
// difficulty. A filter that matches nothing falls back to an unfiltered pick.
func (r *QuestionRepository) RandomQuestion(ctx context.Context, difficulty *models.Difficulty) (*models.Question, error) {
	question, err := r.randomWith(ctx, difficulty)
	if err != nil {
		return nil, err
	}
	if question == nil && difficulty != nil {
		question, err = r.randomWith(ctx, nil)
		if err != nil {
			return nil, err
		}
	}
	if question == nil {
		return nil, fmt.Errorf("no questions available")
	}

	cases, err := r.testCases(ctx, question.ID)
	if err != nil {
		return nil, err
	}
	question.TestCases = cases

	return question, nil
}

// randomWith counts the candidates and selects by uniform random offset.
func (r *QuestionRepository) randomWith(ctx context.Context, difficulty *models.Difficulty) (*models.Question, error) {
	where := ""
	args := []interface{}{}
	if difficulty != nil {
		where = "WHERE difficulty = $1"
		args = append(args, string(*difficulty))
	}

	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM questions %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count questions: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	offset := rand.Intn(count)
	query := fmt.Sprintf(`
		SELECT id, title, description, difficulty, created_at
		FROM questions
		%s
		ORDER BY id
		OFFSET $%d LIMIT 1
	`, where, len(args)+1)
	args = append(args, offset)

	question := &models.Question{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&question.ID,
		&question.Title,
		&question.Description,
		&question.Difficulty,
		&question.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick question: %w", err)
	}

	return question, nil
}

func (r *QuestionRepository) testCases(ctx context.Context, questionID string) ([]models.TestCase, error) {
	query := `
		SELECT input, expected_output
		FROM test_cases
		WHERE question_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test cases: %w", err)
	}
	defer rows.Close()

	var cases []models.TestCase
	for rows.Next() {
		var tc models.TestCase
		if err := rows.Scan(&tc.Input, &tc.ExpectedOutput); err != nil {
			return nil, fmt.Errorf("failed to scan test case: %w", err)
		}
		cases = append(cases, tc)
	}

	return cases, rows.Err()
}

// FindByID loads a question with its test cases.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	query := `
		SELECT id, title, description, difficulty, created_at
		FROM questions
		WHERE id = $1
	`

	question := &models.Question{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&question.ID,
		&question.Title,
		&question.Description,
		&question.Difficulty,
		&question.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find question: %w", err)
	}

	cases, err := r.testCases(ctx, id)
	if err != nil {
		return nil, err
	}
	question.TestCases = cases

	return question, nil
}

// List returns questions without their hidden test cases.
func (r *QuestionRepository) List(ctx context.Context, limit, offset int) ([]*models.Question, error) {
	query := `
		SELECT id, title, description, difficulty, created_at
		FROM questions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		q := &models.Question{}
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Difficulty, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}
