package postgres

import (
	"context"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	db *pgxpool.Pool
}

func NewMessageRepo(db *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{db: db}
}

// Insert — created_at назначает сервер БД
func (r *MessageRepo) Insert(ctx context.Context, chatID, senderID, content string) (*domain.Message, error) {
	var m domain.Message
	err := r.db.QueryRow(ctx, queries.QueryInsertMessage, chatID, senderID, content).
		Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}

	return &m, nil
}

func (r *MessageRepo) List(ctx context.Context, chatID string, take, skip int) ([]domain.Message, error) {
	rows, err := r.db.Query(ctx, queries.QueryListMessages, chatID, skip, take)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}
