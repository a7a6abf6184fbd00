package httpmw

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ChatAuthorizer — пакетные проверки прав на чаты (ChatService)
type ChatAuthorizer interface {
	IsOwnerOfAll(ctx context.Context, userID string, chatIDs []string) (bool, error)
	IsMemberOfAll(ctx context.Context, userID string, chatIDs []string) (bool, error)
}

// RequireChatOwner — явная pre-handler проверка «владелец чата из пути».
// Несуществующий чат неотличим от чужого: в обоих случаях 403,
// чтобы не выдавать членам факт существования чата.
func RequireChatOwner(authz ChatAuthorizer) func(http.Handler) http.Handler {
	return requireChat(func(ctx context.Context, userID, chatID string) (bool, error) {
		return authz.IsOwnerOfAll(ctx, userID, []string{chatID})
	})
}

// RequireChatMember — то же для членства
func RequireChatMember(authz ChatAuthorizer) func(http.Handler) http.Handler {
	return requireChat(func(ctx context.Context, userID, chatID string) (bool, error) {
		return authz.IsMemberOfAll(ctx, userID, []string{chatID})
	})
}

func requireChat(check func(ctx context.Context, userID, chatID string) (bool, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromCtx(r.Context())
			if userID == "" {
				forbidden(w)
				return
			}

			chatID := chi.URLParam(r, "chatId")
			if chatID == "" {
				badRequest(w)
				return
			}
			// невалидный uuid отсекаем до похода в БД
			if _, err := uuid.Parse(chatID); err != nil {
				badRequest(w)
				return
			}

			ok, err := check(r.Context(), userID, chatID)
			if err != nil {
				slog.Error("chat guard check failed", "chat", chatID, "user", userID, "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal error"}`))
				return
			}
			if !ok {
				forbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}`))
}

func badRequest(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_, _ = w.Write([]byte(`{"error":"invalid chat id"}`))
}
