package http

import (
	"net/http"
	"time"

	"github.com/cwrk-planet/chat-service/internal/service"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"
	"github.com/cwrk-planet/chat-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, authSvc *service.AuthService, chatSvc *service.ChatService, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WS endpoint; аутентификацию рукопожатия делает сам ws-сервер
	r.Get("/ws", wsServer.HandleWS)

	// auth без токена
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", h.Register)
		ar.Post("/login", h.Login)
	})

	// всё остальное — только с валидным access-токеном
	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.AuthMiddleware(authSvc))
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/users", func(ur chi.Router) {
			ur.Get("/", h.ListUsers)
			ur.Get("/{userId}", h.GetUser)
		})

		pr.Route("/chats", func(rm chi.Router) {
			rm.Post("/", h.CreateChat)
			rm.Get("/", h.ListChats)

			rm.Route("/{chatId}", func(rr chi.Router) {
				rr.With(httpmw.RequireChatOwner(chatSvc)).Post("/members", h.AddChatMembers)
				rr.With(httpmw.RequireChatMember(chatSvc)).Get("/members", h.GetChatMembers)
				rr.With(httpmw.RequireChatOwner(chatSvc)).Delete("/", h.DeleteChat)
				rr.With(httpmw.RequireChatOwner(chatSvc)).Delete("/members", h.DeleteChatMembers)
				rr.With(httpmw.RequireChatMember(chatSvc)).Delete("/members/me", h.LeaveChat)
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
