package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// TestCase is one hidden input/output pair a submission is judged against.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
}

type Question struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Difficulty  Difficulty `json:"difficulty" db:"difficulty"`
	TestCases   []TestCase `json:"testCases" db:"-"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}
