package http

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type CreateChatRequest struct {
	Name    string   `json:"name" validate:"required,max=64"`
	Members []string `json:"members" validate:"omitempty,dive,uuid4"`
}

type MembersRequest struct {
	Members []string `json:"members" validate:"required,min=1,dive,uuid4"`
}

type UserItem struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatMemberItem struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joinedAt"`
}

type AddMembersResponse struct {
	Count int64 `json:"count"`
}

type ErrorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}
