package repository

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
)

type ChatRepository interface {
	// CreateChatWithMembers атомарно создает чат и его стартовый набор членств
	CreateChatWithMembers(ctx context.Context, ownerID, name string, memberIDs []string) (*domain.Chat, error)
	GetOwner(ctx context.Context, chatID string) (string, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Chat, error)
	ListMembers(ctx context.Context, chatID string) ([]domain.ChatMember, error)
	AddMembers(ctx context.Context, chatID string, memberIDs []string) (int64, error)
	RemoveMembers(ctx context.Context, chatID string, memberIDs []string) error
	// DeleteChatCascade атомарно удаляет членства, затем сам чат
	DeleteChatCascade(ctx context.Context, chatID string) error
	CountOwned(ctx context.Context, userID string, chatIDs []string) (int, error)
	CountMemberships(ctx context.Context, userID string, chatIDs []string) (int, error)
}
