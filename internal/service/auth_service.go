package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/security"
)

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

type AuthService struct {
	users      repository.UserRepository
	tokens     *security.TokenManager
	passPolicy security.BcryptConfig
	now        func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	tokens *security.TokenManager,
	passPolicy security.BcryptConfig,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}

	return &AuthService{
		users:      users,
		tokens:     tokens,
		passPolicy: passPolicy,
		now:        now,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := security.HashPassword(password, &s.passPolicy)
	if err != nil {
		slog.Error("auth.register.hashPassword failed", slog.Any("err", err))
		return nil, err
	}

	u, err := domain.NewUser(username, hash, s.now())
	if err != nil {
		slog.Error("auth.register.newUser failed", slog.Any("err", err))
		return nil, err
	}

	id, err := s.users.Create(ctx, u)
	if err != nil {
		slog.Error("auth.register.createUser failed", slog.Any("err", err))
		return nil, err
	}
	u.ID = id

	return u, nil
}

// Login аутентифицирует по username+пароль и выпускает access-токен.
// «Нет такого пользователя» и «пароль не совпал» — один и тот же отказ.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errs.ErrInvalidCredentials
		}
		slog.Error("auth.login.getByUsername failed", slog.Any("err", err))
		return nil, err
	}

	if err := security.ComparePassword(u.PasswordHash, password); err != nil {
		return nil, errs.ErrInvalidCredentials
	}

	access, err := s.tokens.SignAccessToken(u.ID, s.now())
	if err != nil {
		slog.Error("auth.login.signAccessToken failed", slog.Any("err", err))
		return nil, err
	}

	return &LoginResult{
		User:        u,
		AccessToken: access,
	}, nil
}

// ResolveAccessToken валидирует токен и подтверждает, что пользователь
// всё ещё существует: подписанный, но протухший токен удалённого
// пользователя проходить не должен.
func (s *AuthService) ResolveAccessToken(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.ParseAndValidate(token)
	if err != nil {
		return "", errs.ErrInvalidToken
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", errs.ErrInvalidToken
		}
		return "", err
	}

	return userID, nil
}

// GetUser возвращает профиль пользователя
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return u, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}
