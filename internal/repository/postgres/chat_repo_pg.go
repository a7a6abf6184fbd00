package postgres

import (
	"context"
	"errors"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/repository"
	"github.com/cwrk-planet/chat-service/internal/repository/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepo struct {
	db *pgxpool.Pool
}

func NewChatRepo(db *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateChatWithMembers — чат и членства создаются в одной транзакции:
// чат без членства владельца существовать не должен.
func (r *ChatRepo) CreateChatWithMembers(ctx context.Context, ownerID, name string, memberIDs []string) (*domain.Chat, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	chat := &domain.Chat{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := tx.QueryRow(ctx, queries.QueryCreateChat, ownerID, name).
		Scan(&chat.ID, &chat.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}

	if _, err := tx.Exec(ctx, queries.QueryInsertMembers, chat.ID, memberIDs); err != nil {
		return nil, mapPgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return chat, nil
}

func (r *ChatRepo) GetOwner(ctx context.Context, chatID string) (string, error) {
	var ownerID string
	err := r.db.QueryRow(ctx, queries.QueryGetChatOwner, chatID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", mapPgError(err)
	}

	return ownerID, nil
}

func (r *ChatRepo) ListByMember(ctx context.Context, userID string) ([]domain.Chat, error) {
	rows, err := r.db.Query(ctx, queries.QueryListChatsByMember, userID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var out []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *ChatRepo) ListMembers(ctx context.Context, chatID string) ([]domain.ChatMember, error) {
	rows, err := r.db.Query(ctx, queries.QueryListChatMembers, chatID)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var out []domain.ChatMember
	for rows.Next() {
		var m domain.ChatMember
		if err := rows.Scan(&m.ChatID, &m.UserID, &m.Username, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

func (r *ChatRepo) AddMembers(ctx context.Context, chatID string, memberIDs []string) (int64, error) {
	tag, err := r.db.Exec(ctx, queries.QueryInsertMembers, chatID, memberIDs)
	if err != nil {
		return 0, mapPgError(err)
	}

	return tag.RowsAffected(), nil
}

func (r *ChatRepo) RemoveMembers(ctx context.Context, chatID string, memberIDs []string) error {
	_, err := r.db.Exec(ctx, queries.QueryDeleteMembers, chatID, memberIDs)
	if err != nil {
		return mapPgError(err)
	}

	return nil
}

// DeleteChatCascade — сперва членства, затем чат, в одной транзакции:
// частичный сбой не должен оставить чат без владельца или осиротевшие членства.
func (r *ChatRepo) DeleteChatCascade(ctx context.Context, chatID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, queries.QueryDeleteAllMembers, chatID); err != nil {
		return mapPgError(err)
	}
	if _, err := tx.Exec(ctx, queries.QueryDeleteChat, chatID); err != nil {
		return mapPgError(err)
	}

	return tx.Commit(ctx)
}

func (r *ChatRepo) CountOwned(ctx context.Context, userID string, chatIDs []string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queries.QueryCountOwned, userID, chatIDs).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}

	return count, nil
}

func (r *ChatRepo) CountMemberships(ctx context.Context, userID string, chatIDs []string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, queries.QueryCountMemberships, userID, chatIDs).Scan(&count)
	if err != nil {
		return 0, mapPgError(err)
	}

	return count, nil
}
