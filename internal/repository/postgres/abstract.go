package postgres

import (
	"errors"

	"github.com/cwrk-planet/chat-service/internal/repository"

	pgconn "github.com/jackc/pgx/v5/pgconn"
)

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// 23505 - unique violation
		case "23505":
			return repository.ErrAlreadyExists
		// 23503 - foreign key violation (несуществующий user/chat в членствах)
		case "23503":
			return repository.ErrConflict
		}
	}

	return err
}
