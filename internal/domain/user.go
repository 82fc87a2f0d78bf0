package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string // "user"/"admin"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository 查不到时返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	// SetRoleAndPassword 按邮箱覆盖角色与密码哈希，邮箱不存在返回 ErrNotFound
	SetRoleAndPassword(ctx context.Context, email, role, passwordHash string) error
	// DemoteAdminsExcept 把除 email 外的所有 admin 降为 user，返回受影响条数
	DemoteAdminsExcept(ctx context.Context, email string) (int64, error)
}
