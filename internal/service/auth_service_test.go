package service

import (
	"context"
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/security"

	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := security.NewTokenManager("test-secret", "chat-service", time.Hour, time.Minute)
	// cost=4 — минимальный bcrypt, чтобы тесты не тормозили
	svc := NewAuthService(users, tokens, security.BcryptConfig{Cost: 4}, nil)
	return svc, users
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("password is stored hashed", func(t *testing.T) {
		req := require.New(t)
		svc, users := newAuthFixture(t)

		u, err := svc.Register(ctx, "alice", "secret123")
		req.NoError(err)
		req.NotEmpty(u.ID)

		stored, err := users.GetByID(ctx, u.ID)
		req.NoError(err)
		req.NotEqual("secret123", stored.PasswordHash)
		req.NoError(security.ComparePassword(stored.PasswordHash, "secret123"))
	})

	t.Run("duplicate username", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, "alice", "secret123")
		req.NoError(err)

		_, err = svc.Register(ctx, "alice", "another123")
		req.ErrorIs(err, repository.ErrAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, "alice", "12345")
		require.ErrorIs(t, err, errs.ErrPasswordTooShort)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newAuthFixture(t)

		u, err := svc.Register(ctx, "alice", "secret123")
		req.NoError(err)

		res, err := svc.Login(ctx, "alice", "secret123")
		req.NoError(err)
		req.NotEmpty(res.AccessToken)
		req.Equal(u.ID, res.User.ID)
	})

	t.Run("wrong password and unknown user are the same refusal", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newAuthFixture(t)

		_, err := svc.Register(ctx, "alice", "secret123")
		req.NoError(err)

		_, err = svc.Login(ctx, "alice", "wrongpass")
		req.ErrorIs(err, errs.ErrInvalidCredentials)

		_, err = svc.Login(ctx, "nobody", "secret123")
		req.ErrorIs(err, errs.ErrInvalidCredentials)
	})
}

func TestAuthService_ResolveAccessToken(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newAuthFixture(t)

		u, err := svc.Register(ctx, "alice", "secret123")
		req.NoError(err)
		res, err := svc.Login(ctx, "alice", "secret123")
		req.NoError(err)

		userID, err := svc.ResolveAccessToken(ctx, res.AccessToken)
		req.NoError(err)
		req.Equal(u.ID, userID)
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := newAuthFixture(t)

		_, err := svc.ResolveAccessToken(ctx, "not-a-jwt")
		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})

	t.Run("token of a deleted user is invalid", func(t *testing.T) {
		req := require.New(t)
		svc, users := newAuthFixture(t)

		u, err := svc.Register(ctx, "alice", "secret123")
		req.NoError(err)
		res, err := svc.Login(ctx, "alice", "secret123")
		req.NoError(err)

		delete(users.users, u.ID)

		_, err = svc.ResolveAccessToken(ctx, res.AccessToken)
		req.ErrorIs(err, errs.ErrInvalidToken)
	})
}

func TestAuthService_GetUser(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture(t)

	_, err := svc.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
