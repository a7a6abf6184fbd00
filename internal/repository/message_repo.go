package repository

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type MessageRepository interface {
	Insert(ctx context.Context, chatID, senderID, content string) (*domain.Message, error)
	List(ctx context.Context, chatID string, take, skip int) ([]domain.Message, error)
}
