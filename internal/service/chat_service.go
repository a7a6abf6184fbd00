package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
)

type ChatService struct {
	chatRepo repository.ChatRepository
}

func NewChatService(chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo}
}

// IsOwnerOfAll — true только если владелец КАЖДОГО чата из набора.
// Пустой набор — отказ, а не вакуумная истина: иначе пустой список id
// превращается в обход проверки.
func (s *ChatService) IsOwnerOfAll(ctx context.Context, userID string, chatIDs []string) (bool, error) {
	ids := dedupe(chatIDs)
	if len(ids) == 0 {
		return false, nil
	}

	count, err := s.chatRepo.CountOwned(ctx, userID, ids)
	if err != nil {
		return false, fmt.Errorf("chatRepo.CountOwned: %w", err)
	}

	return count == len(ids), nil
}

// IsMemberOfAll — пакетная проверка членства, та же политика пустого набора.
// Сравнение идёт с числом РАЗЛИЧНЫХ id: дубликаты в запросе не должны
// занижать требуемое количество совпадений.
func (s *ChatService) IsMemberOfAll(ctx context.Context, userID string, chatIDs []string) (bool, error) {
	ids := dedupe(chatIDs)
	if len(ids) == 0 {
		return false, nil
	}

	count, err := s.chatRepo.CountMemberships(ctx, userID, ids)
	if err != nil {
		return false, fmt.Errorf("chatRepo.CountMemberships: %w", err)
	}

	return count == len(ids), nil
}

// CreateChat создаёт чат вместе с членствами {owner} ∪ members одной
// транзакцией. Владелец всегда член; дубликаты схлопываются.
func (s *ChatService) CreateChat(ctx context.Context, ownerID, name string, memberIDs []string) (*domain.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("empty chat name")
	}

	members := dedupe(append([]string{ownerID}, memberIDs...))

	chat, err := s.chatRepo.CreateChatWithMembers(ctx, ownerID, name, members)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.CreateChatWithMembers: %w", err)
	}

	return chat, nil
}

// AddMembers добавляет членства; существующие молча пропускаются
func (s *ChatService) AddMembers(ctx context.Context, chatID string, memberIDs []string) (int64, error) {
	ids := dedupe(memberIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	return s.chatRepo.AddMembers(ctx, chatID, ids)
}

func (s *ChatService) ListChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	return s.chatRepo.ListByMember(ctx, userID)
}

func (s *ChatService) ListMembers(ctx context.Context, chatID string) ([]domain.ChatMember, error) {
	return s.chatRepo.ListMembers(ctx, chatID)
}

func (s *ChatService) DeleteChat(ctx context.Context, chatID string) error {
	return s.chatRepo.DeleteChatCascade(ctx, chatID)
}

// RemoveMembers удаляет членства; если среди удаляемых владелец —
// это удаление всего чата целиком, а не частичное.
func (s *ChatService) RemoveMembers(ctx context.Context, chatID string, memberIDs []string) error {
	ids := dedupe(memberIDs)
	if len(ids) == 0 {
		return nil
	}

	ownerID, err := s.chatRepo.GetOwner(ctx, chatID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrChatNotFound
		}
		return fmt.Errorf("chatRepo.GetOwner: %w", err)
	}

	for _, id := range ids {
		if id == ownerID {
			return s.chatRepo.DeleteChatCascade(ctx, chatID)
		}
	}

	return s.chatRepo.RemoveMembers(ctx, chatID, ids)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
