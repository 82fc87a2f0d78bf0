package user

import (
	"time"

	"fruito-api/internal/domain"
)

// UserModel 同时服务 gorm 表和 mongo 集合，两边都叫 "user"
type UserModel struct {
	ID           string `gorm:"primaryKey;type:varchar(32)" bson:"_id"`
	Name         string `gorm:"type:text;not null" bson:"name"`
	// 唯一索引要定长列，入参层限 255
	Email        string `gorm:"uniqueIndex;size:255;not null" bson:"email"`
	PasswordHash string `gorm:"size:100;not null" bson:"password_hash"`
	Role         string `gorm:"size:16;not null;default:user;index" bson:"role"`

	CreatedAt time.Time `gorm:"autoCreateTime" bson:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" bson:"updated_at"`
}

func (UserModel) TableName() string { return "user" }

func FromDomain(u *domain.User) UserModel {
	return UserModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m UserModel) ToDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
