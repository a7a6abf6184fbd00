package domain

import "time"

type Chat struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Запись о членстве пользователя в чате; username подтягивается join-ом
type ChatMember struct {
	ChatID   string    `db:"chat_id"`
	UserID   string    `db:"user_id"`
	Username string    `db:"username"`
	JoinedAt time.Time `db:"joined_at"`
}
