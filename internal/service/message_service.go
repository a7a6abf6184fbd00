package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
)

// MembershipChecker — пакетная проверка членства (ChatService)
type MembershipChecker interface {
	IsMemberOfAll(ctx context.Context, userID string, chatIDs []string) (bool, error)
}

// Broadcaster рассылает уже сохранённое сообщение подписчикам комнаты.
// Реализуется ws-хабом; соответствие интерфейсу структурное.
type Broadcaster interface {
	BroadcastNewMessage(chatID string, msg *domain.Message)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	members     MembershipChecker
	broadcaster Broadcaster

	defaultTake int
	maxTake     int
}

func NewMessageService(messageRepo repository.MessageRepository, members MembershipChecker, broadcaster Broadcaster) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		members:     members,
		broadcaster: broadcaster,
		defaultTake: 50,
		maxTake:     100,
	}
}

// Create: валидация → проверка членства → запись → рассылка.
// Рассылается сохранённая строка, и только после коммита записи:
// сообщение не должно быть видно другим раньше, чем оно durable.
func (s *MessageService) Create(ctx context.Context, senderID, chatID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > domain.MaxMessageLen {
		return nil, domain.ErrMessageTooLong
	}

	ok, err := s.members.IsMemberOfAll(ctx, senderID, []string{chatID})
	if err != nil {
		return nil, fmt.Errorf("members.IsMemberOfAll: %w", err)
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	msg, err := s.messageRepo.Insert(ctx, chatID, senderID, content)
	if err != nil {
		return nil, fmt.Errorf("messageRepo.Insert: %w", err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastNewMessage(chatID, msg)
	}

	return msg, nil
}

// List — история чата, created_at DESC, skip/take.
// Отдаётся только запросившему; сюда же зашит потолок take.
func (s *MessageService) List(ctx context.Context, requesterID, chatID string, take, skip int) ([]domain.Message, error) {
	ok, err := s.members.IsMemberOfAll(ctx, requesterID, []string{chatID})
	if err != nil {
		return nil, fmt.Errorf("members.IsMemberOfAll: %w", err)
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	if take <= 0 {
		take = s.defaultTake
	}
	if take > s.maxTake {
		take = s.maxTake
	}
	if skip < 0 {
		skip = 0
	}

	return s.messageRepo.List(ctx, chatID, take, skip)
}
