package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type AuthSvc interface {
	ResolveAccessToken(ctx context.Context, token string) (string, error)
}

type ChatSvc interface {
	IsMemberOfAll(ctx context.Context, userID string, chatIDs []string) (bool, error)
}

type MessageSvc interface {
	Create(ctx context.Context, senderID, chatID, content string) (*domain.Message, error)
	List(ctx context.Context, requesterID, chatID string, take, skip int) ([]domain.Message, error)
}

type Server struct {
	upgrader   websocket.Upgrader
	hub        *Hub
	authSvc    AuthSvc
	chatSvc    ChatSvc
	messageSvc MessageSvc

	pingEvery time.Duration
}

func NewServer(hub *Hub, auth AuthSvc, chat ChatSvc, message MessageSvc, pingEvery time.Duration) *Server {
	if pingEvery <= 0 {
		pingEvery = 15 * time.Second
	}

	return &Server{
		hub:        hub,
		authSvc:    auth,
		chatSvc:    chat,
		messageSvc: message,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: pingEvery,
	}
}

// WS endpoint: GET /ws
// Токен — в Authorization-заголовке запроса на upgrade, НЕ в query:
// URL попадает в логи, credential туда попадать не должен.
// Аутентификация ровно один раз, до установления соединения; отказ —
// всегда общий "Unauthorized" без деталей.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := s.authSvc.ResolveAccessToken(r.Context(), token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, userID)
	slog.Debug("ws connected", "conn", c.id, "user", userID)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	// отписка от всех комнат на disconnect
	s.hub.LeaveAll(c)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "conn", c.id, "user", userID, "err", err)
	}
}

// readLoop обрабатывает события соединения строго по одному,
// в порядке получения.
func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(c, CodeValidationFailed)
			continue
		}

		switch msg.Type {
		case TypeChatsConnect:
			s.handleChatsConnect(ctx, c, msg.Payload)
		case TypeChatsDisconnect:
			s.handleChatsDisconnect(c, msg.Payload)
		case TypeMessagesCreate:
			s.handleMessagesCreate(ctx, c, msg.Payload)
		case TypeMessagesGet:
			s.handleMessagesGet(ctx, c, msg.Payload)
		default:
			// ignore
		}
	}
}

// chats:connect — подписка только при членстве во ВСЕХ чатах набора
func (s *Server) handleChatsConnect(ctx context.Context, c *wsConn, payload interface{}) {
	var p ChatsPayload
	if err := decodePayload(payload, &p); err != nil {
		s.sendError(c, CodeValidationFailed)
		return
	}

	ok, err := s.chatSvc.IsMemberOfAll(ctx, c.UserID(), p.ChatIDs)
	if err != nil {
		slog.Error("ws chats connect check failed", "user", c.UserID(), "err", err)
		s.sendError(c, CodeInternal)
		return
	}
	if !ok {
		s.sendError(c, CodeForbidden)
		return
	}

	for _, chatID := range p.ChatIDs {
		s.hub.Join(c, chatID)
	}
	_ = c.Send(Message{Type: TypeChatsConnectOK})
}

// chats:disconnect — идемпотентно, проверка членства не нужна
func (s *Server) handleChatsDisconnect(c *wsConn, payload interface{}) {
	var p ChatsPayload
	if err := decodePayload(payload, &p); err != nil {
		s.sendError(c, CodeValidationFailed)
		return
	}

	for _, chatID := range p.ChatIDs {
		s.hub.Leave(c, chatID)
	}
	_ = c.Send(Message{Type: TypeChatsDisconnectOK})
}

// messages:create — рассылку делает сервис после записи в БД;
// отдельного ack отправителю нет, он получит messages:new как член комнаты
func (s *Server) handleMessagesCreate(ctx context.Context, c *wsConn, payload interface{}) {
	var p CreateMessagePayload
	if err := decodePayload(payload, &p); err != nil {
		s.sendError(c, CodeValidationFailed)
		return
	}

	if _, err := s.messageSvc.Create(ctx, c.UserID(), p.ChatID, p.Content); err != nil {
		s.sendServiceError(c, err)
		return
	}
}

// messages:get — ответ только запросившему соединению, без broadcast
func (s *Server) handleMessagesGet(ctx context.Context, c *wsConn, payload interface{}) {
	var p GetMessagesPayload
	if err := decodePayload(payload, &p); err != nil {
		s.sendError(c, CodeValidationFailed)
		return
	}

	msgs, err := s.messageSvc.List(ctx, c.UserID(), p.ChatID, p.Take, p.Skip)
	if err != nil {
		s.sendServiceError(c, err)
		return
	}

	_ = c.Send(Message{Type: TypeMessagesGetOK, Payload: toMessageItems(msgs)})
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// sendServiceError переводит ошибку сервиса в код события.
// Текст внутренних ошибок клиенту не показывается.
func (s *Server) sendServiceError(c *wsConn, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		s.sendError(c, CodeForbidden)
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrMessageTooLong):
		s.sendError(c, CodeValidationFailed)
	default:
		slog.Error("ws handler failed", "user", c.UserID(), "err", err)
		s.sendError(c, CodeInternal)
	}
}

func (s *Server) sendError(c *wsConn, code string) {
	_ = c.Send(Message{
		Type: TypeError,
		Payload: ErrorPayload{
			Code:    code,
			Message: "Something went wrong",
		},
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") || len(auth) <= 7 {
		return ""
	}

	return strings.TrimSpace(auth[7:])
}

// --- соединение ---

type wsConn struct {
	conn   *websocket.Conn
	id     string
	userID string
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, userID string) *wsConn {
	return &wsConn{
		conn:   c,
		id:     uuid.New().String(),
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) Close() error {
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}

	return c.conn.Close()
}

func (c *wsConn) UserID() string { return c.userID }

// --- broadcaster для MessageService ---

// MessageBroadcaster реализует service.Broadcaster поверх хаба
type MessageBroadcaster struct {
	hub *Hub
}

func NewMessageBroadcaster(h *Hub) *MessageBroadcaster {
	return &MessageBroadcaster{hub: h}
}

func (b *MessageBroadcaster) BroadcastNewMessage(chatID string, msg *domain.Message) {
	b.hub.Broadcast(chatID, Message{Type: TypeMessagesNew, Payload: toMessageItem(msg)})
}
