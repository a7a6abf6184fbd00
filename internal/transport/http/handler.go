package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/errs"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/service"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	authSvc *service.AuthService
	chatSvc *service.ChatService
}

func NewHandler(auth *service.AuthService, chat *service.ChatService) *Handler {
	return &Handler{
		authSvc: auth,
		chatSvc: chat,
	}
}

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeValid — декодирование тела плюс единый валидационный проход
// по struct-тегам; список нарушений уходит клиенту
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		resp := ErrorResponse{Error: "validation failed"}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				resp.Violations = append(resp.Violations, fe.Field()+": "+fe.Tag())
			}
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}

	return true
}

// POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeValid(w, r, &req) {
		return
	}

	u, err := h.authSvc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		// занятый username — 403, как и отказ по политике пароля
		if errors.Is(err, repository.ErrAlreadyExists) {
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
		if errors.Is(err, errs.ErrPasswordTooShort) || errors.Is(err, errs.ErrInvalidUsername) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("handler.Register:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, UserItem{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	})
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeValid(w, r, &req) {
		return
	}

	res, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		slog.Error("handler.Login:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: res.AccessToken})
}

// GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authSvc.ListUsers(r.Context())
	if err != nil {
		slog.Error("handler.ListUsers:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	items := make([]UserItem, 0, len(users))
	for _, u := range users {
		items = append(items, UserItem{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt})
	}

	writeJSON(w, http.StatusOK, items)
}

// GET /users/{userId}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	u, err := h.authSvc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		slog.Error("handler.GetUser:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, UserItem{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt})
}

// POST /chats
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if !decodeValid(w, r, &req) {
		return
	}
	ownerID := httpmw.UserIDFromCtx(r.Context())

	chat, err := h.chatSvc.CreateChat(r.Context(), ownerID, req.Name, req.Members)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown user in members"})
			return
		}
		slog.Error("handler.CreateChat:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, ChatItem{
		ID:        chat.ID,
		Name:      chat.Name,
		CreatedAt: chat.CreatedAt,
	})
}

// GET /chats — чаты, где requester состоит членом
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())

	chats, err := h.chatSvc.ListChats(r.Context(), userID)
	if err != nil {
		slog.Error("handler.ListChats:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	items := make([]ChatItem, 0, len(chats))
	for _, c := range chats {
		items = append(items, ChatItem{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt})
	}

	writeJSON(w, http.StatusOK, items)
}

// POST /chats/{chatId}/members (owner)
func (h *Handler) AddChatMembers(w http.ResponseWriter, r *http.Request) {
	var req MembersRequest
	if !decodeValid(w, r, &req) {
		return
	}
	chatID := chi.URLParam(r, "chatId")

	count, err := h.chatSvc.AddMembers(r.Context(), chatID, req.Members)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown user in members"})
			return
		}
		slog.Error("handler.AddChatMembers:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, AddMembersResponse{Count: count})
}

// GET /chats/{chatId}/members (member)
func (h *Handler) GetChatMembers(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatId")

	members, err := h.chatSvc.ListMembers(r.Context(), chatID)
	if err != nil {
		slog.Error("handler.GetChatMembers:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	items := make([]ChatMemberItem, 0, len(members))
	for _, m := range members {
		items = append(items, ChatMemberItem{
			UserID:   m.UserID,
			Username: m.Username,
			JoinedAt: m.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, items)
}

// DELETE /chats/{chatId} (owner)
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatId")

	if err := h.chatSvc.DeleteChat(r.Context(), chatID); err != nil {
		slog.Error("handler.DeleteChat:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /chats/{chatId}/members (owner)
// владелец в списке — удаление всего чата (см. ChatService.RemoveMembers)
func (h *Handler) DeleteChatMembers(w http.ResponseWriter, r *http.Request) {
	var req MembersRequest
	if !decodeValid(w, r, &req) {
		return
	}
	chatID := chi.URLParam(r, "chatId")

	if err := h.chatSvc.RemoveMembers(r.Context(), chatID, req.Members); err != nil {
		if errors.Is(err, domain.ErrChatNotFound) {
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
		slog.Error("handler.DeleteChatMembers:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DELETE /chats/{chatId}/members/me (member)
func (h *Handler) LeaveChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatId")
	userID := httpmw.UserIDFromCtx(r.Context())

	if err := h.chatSvc.RemoveMembers(r.Context(), chatID, []string{userID}); err != nil {
		if errors.Is(err, domain.ErrChatNotFound) {
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "forbidden"})
			return
		}
		slog.Error("handler.LeaveChat:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
