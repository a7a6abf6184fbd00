package security

import (
	"testing"
	"time"

	"github.com/cwrk-planet/chat-service/internal/errs"

	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	tm := NewTokenManager("secret", "chat-service", time.Hour, time.Minute)

	token, err := tm.SignAccessToken("user-42", time.Now())
	req.NoError(err)
	req.NotEmpty(token)

	sub, err := tm.ParseAndValidate(token)
	req.NoError(err)
	req.Equal("user-42", sub)
}

func TestTokenManager_Rejects(t *testing.T) {
	now := time.Now()
	tm := NewTokenManager("secret", "chat-service", time.Hour, time.Minute)

	t.Run("wrong secret", func(t *testing.T) {
		req := require.New(t)

		other := NewTokenManager("other-secret", "chat-service", time.Hour, time.Minute)
		token, err := other.SignAccessToken("user-42", now)
		req.NoError(err)

		_, err = tm.ParseAndValidate(token)
		req.ErrorIs(err, errs.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		req := require.New(t)

		token, err := tm.SignAccessToken("user-42", now.Add(-2*time.Hour))
		req.NoError(err)

		_, err = tm.ParseAndValidate(token)
		req.ErrorIs(err, errs.ErrInvalidToken)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		req := require.New(t)

		other := NewTokenManager("secret", "another-service", time.Hour, time.Minute)
		token, err := other.SignAccessToken("user-42", now)
		req.NoError(err)

		_, err = tm.ParseAndValidate(token)
		req.ErrorIs(err, errs.ErrInvalidToken)
	})

	t.Run("empty subject", func(t *testing.T) {
		req := require.New(t)

		token, err := tm.SignAccessToken("", now)
		req.NoError(err)

		_, err = tm.ParseAndValidate(token)
		req.ErrorIs(err, errs.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ParseAndValidate("definitely.not.jwt")
		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})
}
