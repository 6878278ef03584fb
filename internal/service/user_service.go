package service

import (
	"context"

	"github.com/classhub/examly-backend/internal/model"
	"github.com/classhub/examly-backend/internal/repository"
)

// UserService handles user profile lookups.
type UserService struct {
	userRepo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
