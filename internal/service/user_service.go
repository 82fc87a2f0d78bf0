package service

import (
	"context"
	"fmt"

	"fruito-api/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}

type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	offset, limit = clampPage(offset, limit)
	us, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return us, total, nil
}
