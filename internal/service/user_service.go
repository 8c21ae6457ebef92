package service

import (
	"context"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/repository"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/jwt"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

// UserService handles registration, authentication and profile management.
type UserService struct {
	repo       *repository.UserRepository
	jwtManager *jwt.JWTManager
}

func NewUserService(repo *repository.UserRepository, jwtManager *jwt.JWTManager) *UserService {
	return &UserService{repo: repo, jwtManager: jwtManager}
}

// Register creates a new user with the default starting rating.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	if existing, err := s.repo.FindByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if existing, err := s.repo.FindByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, req.Username, req.Email, hash)
	if err != nil {
		return nil, err
	}

	logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues a signed token.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user.ID, user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies profile changes. Only the username is mutable.
func (s *UserService) Update(ctx context.Context, id string, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username == "" || req.Username == user.Username {
		return user, nil
	}

	if existing, err := s.repo.FindByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	if err := s.repo.UpdateUsername(ctx, id, req.Username); err != nil {
		return nil, err
	}
	user.Username = req.Username
	return user, nil
}

// Leaderboard returns the top rated users.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.TopByRating(ctx, limit)
}
