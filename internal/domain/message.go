package domain

import "time"

// MaxMessageLen — лимит длины сообщения в рунах
const MaxMessageLen = 160

type Message struct {
	ID        string    `db:"id"`
	ChatID    string    `db:"chat_id"`
	SenderID  string    `db:"sender_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
