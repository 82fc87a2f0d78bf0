package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fruito-api/internal/domain"
	"fruito-api/pkg/utils"
)

// AdminSeeder 进程启动时对齐管理员：保留邮箱是唯一的 admin
type AdminSeeder struct {
	users    domain.UserRepository
	hasher   *utils.PasswordHasher
	email    string
	password string
	name     string
	log      *zap.Logger
}

func NewAdminSeeder(users domain.UserRepository, hasher *utils.PasswordHasher, email, password, name string, l *zap.Logger) *AdminSeeder {
	if name == "" {
		name = "Admin"
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &AdminSeeder{users: users, hasher: hasher, email: email, password: password, name: name, log: l}
}

func (s *AdminSeeder) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "AdminSeeder.Run")
	defer span.End()

	hash, err := s.hasher.Hash(s.password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	existing, err := s.users.FindByEmail(ctx, s.email)
	if err != nil {
		return fmt.Errorf("find admin: %w", err)
	}
	created := false
	if existing == nil {
		u := &domain.User{Name: s.name, Email: s.email, PasswordHash: hash, Role: domain.RoleAdmin}
		switch err := s.users.Create(ctx, u); {
		case err == nil:
			created = true
		case errors.Is(err, domain.ErrDuplicate):
			// 另一个实例先插入了，走更新路径
		default:
			return fmt.Errorf("create admin: %w", err)
		}
	}
	if !created {
		if err := s.users.SetRoleAndPassword(ctx, s.email, domain.RoleAdmin, hash); err != nil {
			return fmt.Errorf("reset admin: %w", err)
		}
	}

	demoted, err := s.users.DemoteAdminsExcept(ctx, s.email)
	if err != nil {
		return fmt.Errorf("demote admins: %w", err)
	}
	s.log.Info("admin seeded",
		zap.String("email", s.email),
		zap.Bool("created", created),
		zap.Int64("demoted", demoted),
	)
	return nil
}
