package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"fruito-api/internal/core/auth"
	"fruito-api/internal/domain"
	"fruito-api/pkg/utils"
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Session 登录结果：公开信息 + 令牌
type Session struct {
	User  domain.User
	Token auth.Token
}

type AuthService struct {
	users      domain.UserRepository
	hasher     *utils.PasswordHasher
	jwt        *auth.JWTer
	adminEmail string
	events     EventPublisher
	log        *zap.Logger
}

func NewAuthService(users domain.UserRepository, hasher *utils.PasswordHasher, jwter *auth.JWTer,
	adminEmail string, events EventPublisher, l *zap.Logger) *AuthService {
	if events == nil {
		events = NopPublisher{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &AuthService{users: users, hasher: hasher, jwt: jwter, adminEmail: adminEmail, events: events, log: l}
}

func (s *AuthService) AdminEmail() string { return s.adminEmail }

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Signup")
	defer span.End()

	if in.Email == s.adminEmail {
		return nil, domain.ErrReservedEmail
	}
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: domain.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	span.SetAttributes(attribute.String("user.id", u.ID))
	publish(ctx, s.events, s.log, EventUserSignedUp, UserSignedUpEvent{UserID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt})
	return u, nil
}

// verify 邮箱不存在与密码错误不做区分
func (s *AuthService) verify(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !s.hasher.Verify(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	u, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if u.Role != domain.RoleUser {
		return nil, domain.ErrNotUserAccount
	}
	return s.issue(u)
}

func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "AuthService.AdminLogin")
	defer span.End()

	u, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !s.isAdmin(u) {
		return nil, domain.ErrAdminDenied
	}
	return s.issue(u)
}

// AuthorizeAdmin 每次请求重新校验凭证，任何失败都归为 ErrAdminDenied
func (s *AuthService) AuthorizeAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrAdminDenied
		}
		return nil, err
	}
	if !s.isAdmin(u) {
		return nil, domain.ErrAdminDenied
	}
	return u, nil
}

// AuthorizeAdminToken 令牌签发后账号可能已被降级，按库里当前状态判断
func (s *AuthService) AuthorizeAdminToken(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil || !s.isAdmin(u) {
		return nil, domain.ErrAdminDenied
	}
	return u, nil
}

func (s *AuthService) Me(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (s *AuthService) isAdmin(u *domain.User) bool {
	return u.Email == s.adminEmail && u.Role == domain.RoleAdmin
}

func (s *AuthService) issue(u *domain.User) (*Session, error) {
	tok, err := s.jwt.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: *u, Token: tok}, nil
}
