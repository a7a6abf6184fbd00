package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"

	"github.com/google/uuid"
)

// in-memory реализации репозиториев для юнит-тестов сервисов

type fakeChatRepo struct {
	chats   map[string]*domain.Chat
	members map[string]map[string]time.Time // chatID -> userID -> joinedAt
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:   make(map[string]*domain.Chat),
		members: make(map[string]map[string]time.Time),
	}
}

func (f *fakeChatRepo) CreateChatWithMembers(_ context.Context, ownerID, name string, memberIDs []string) (*domain.Chat, error) {
	chat := &domain.Chat{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	f.chats[chat.ID] = chat

	ms := make(map[string]time.Time)
	for _, id := range memberIDs {
		if _, ok := ms[id]; !ok {
			ms[id] = time.Now()
		}
	}
	f.members[chat.ID] = ms

	return chat, nil
}

func (f *fakeChatRepo) GetOwner(_ context.Context, chatID string) (string, error) {
	chat, ok := f.chats[chatID]
	if !ok {
		return "", repository.ErrNotFound
	}
	return chat.OwnerID, nil
}

func (f *fakeChatRepo) ListByMember(_ context.Context, userID string) ([]domain.Chat, error) {
	var out []domain.Chat
	for chatID, ms := range f.members {
		if _, ok := ms[userID]; ok {
			out = append(out, *f.chats[chatID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeChatRepo) ListMembers(_ context.Context, chatID string) ([]domain.ChatMember, error) {
	var out []domain.ChatMember
	for userID, joinedAt := range f.members[chatID] {
		out = append(out, domain.ChatMember{
			ChatID:   chatID,
			UserID:   userID,
			Username: userID,
			JoinedAt: joinedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeChatRepo) AddMembers(_ context.Context, chatID string, memberIDs []string) (int64, error) {
	ms, ok := f.members[chatID]
	if !ok {
		return 0, repository.ErrConflict
	}
	var added int64
	for _, id := range memberIDs {
		if _, exists := ms[id]; exists {
			continue
		}
		ms[id] = time.Now()
		added++
	}
	return added, nil
}

func (f *fakeChatRepo) RemoveMembers(_ context.Context, chatID string, memberIDs []string) error {
	ms := f.members[chatID]
	for _, id := range memberIDs {
		delete(ms, id)
	}
	return nil
}

func (f *fakeChatRepo) DeleteChatCascade(_ context.Context, chatID string) error {
	delete(f.members, chatID)
	delete(f.chats, chatID)
	return nil
}

func (f *fakeChatRepo) CountOwned(_ context.Context, userID string, chatIDs []string) (int, error) {
	count := 0
	seen := make(map[string]struct{})
	for _, id := range chatIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if chat, ok := f.chats[id]; ok && chat.OwnerID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeChatRepo) CountMemberships(_ context.Context, userID string, chatIDs []string) (int, error) {
	count := 0
	seen := make(map[string]struct{})
	for _, id := range chatIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := f.members[id][userID]; ok {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User // id -> user
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) (string, error) {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return "", repository.ErrAlreadyExists
		}
	}
	id := uuid.NewString()
	stored := *u
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type fakeMessageRepo struct {
	messages []domain.Message

	failInsert bool
	lastTake   int
	lastSkip   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (f *fakeMessageRepo) Insert(_ context.Context, chatID, senderID, content string) (*domain.Message, error) {
	if f.failInsert {
		return nil, errors.New("insert failed")
	}
	m := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.messages = append(f.messages, m)
	return &m, nil
}

func (f *fakeMessageRepo) List(_ context.Context, chatID string, take, skip int) ([]domain.Message, error) {
	f.lastTake = take
	f.lastSkip = skip

	// created_at DESC == обратный порядок вставки
	var out []domain.Message
	for i := len(f.messages) - 1; i >= 0; i-- {
		if f.messages[i].ChatID == chatID {
			out = append(out, f.messages[i])
		}
	}
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if take < len(out) {
		out = out[:take]
	}
	return out, nil
}

type fakeBroadcaster struct {
	calls []broadcastCall
}

type broadcastCall struct {
	chatID string
	msg    *domain.Message
}

func (f *fakeBroadcaster) BroadcastNewMessage(chatID string, msg *domain.Message) {
	f.calls = append(f.calls, broadcastCall{chatID: chatID, msg: msg})
}
