package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/database"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user at the default rating.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, rating, matches_played, matches_won, points, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username, email, passwordHash, models.DefaultRating).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Rating,
		&user.MatchesPlayed,
		&user.MatchesWon,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Get finds a user by id. Returns nil without error when absent.
func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return r.findBy(ctx, "id", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(ctx, "username", username)
}

func (r *UserRepository) findBy(ctx context.Context, column, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, rating, matches_played, matches_won, points, created_at, updated_at
		FROM users
		WHERE %s = $1
	`, column)

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Rating,
		&user.MatchesPlayed,
		&user.MatchesWon,
		&user.Points,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Save writes back the fields a completed match mutates.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET rating = $1,
		    matches_played = $2,
		    matches_won = $3,
		    points = $4,
		    updated_at = NOW()
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query,
		user.Rating,
		user.MatchesPlayed,
		user.MatchesWon,
		user.Points,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// UpdateUsername renames a user.
func (r *UserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	query := `UPDATE users SET username = $1, updated_at = NOW() WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, username, id)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}

	return nil
}

// TopByRating lists the leaderboard.
func (r *UserRepository) TopByRating(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT id, username, email, rating, matches_played, matches_won, points, created_at, updated_at
		FROM users
		ORDER BY rating DESC, matches_won DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Rating,
			&user.MatchesPlayed,
			&user.MatchesWon,
			&user.Points,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
