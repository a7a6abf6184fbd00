package domain

import (
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/errs"
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Создает нового пользователя
// Ожидает уже посчитанный хеш пароля
func NewUser(username, passwordHash string, now time.Time) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.ErrInvalidUsername
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, errs.ErrEmptyPasswordHash
	}

	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}
