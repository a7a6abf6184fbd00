package ws

import (
	"encoding/json"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Типы событий, которые ходят по WS
const (
	TypeChatsConnect        = "chats:connect"            // подписка на комнаты чатов
	TypeChatsConnectOK      = "chats:connect:success"    //
	TypeChatsDisconnect     = "chats:disconnect"         // отписка (идемпотентна)
	TypeChatsDisconnectOK   = "chats:disconnect:success" //
	TypeMessagesCreate      = "messages:create"          // создать сообщение
	TypeMessagesGet         = "messages:get"             // история чата
	TypeMessagesGetOK       = "messages:get:success"     // ответ ТОЛЬКО запросившему
	TypeMessagesNew         = "messages:new"             // broadcast в комнату
	TypeError               = "error"                    //
)

// Коды для error-события. Текст наружу всегда общий,
// клиент различает отказ по коду.
const (
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeValidationFailed = "validation_failed"
	CodeInternal         = "internal"
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type ChatsPayload struct {
	ChatIDs []string `json:"chatIds" validate:"required,min=1,dive,uuid4"`
}

type CreateMessagePayload struct {
	ChatID  string `json:"chatId" validate:"required,uuid4"`
	Content string `json:"content" validate:"required,max=160"`
}

type GetMessagesPayload struct {
	ChatID string `json:"chatId" validate:"required,uuid4"`
	Take   int    `json:"take" validate:"min=0"`
	Skip   int    `json:"skip" validate:"min=0"`
}

type MessageItem struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var validate = validator.New()

// decodePayload — json round-trip из envelope плюс единый валидационный
// проход по struct-тегам (вместо по-полевых декораторов)
func decodePayload(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}

	return validate.Struct(dst)
}

func toMessageItem(m *domain.Message) MessageItem {
	return MessageItem{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func toMessageItems(msgs []domain.Message) []MessageItem {
	items := make([]MessageItem, 0, len(msgs))
	for i := range msgs {
		items = append(items, toMessageItem(&msgs[i]))
	}

	return items
}
