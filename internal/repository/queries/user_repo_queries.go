package queries

const (
	QueryCreateUser = `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	QueryGetUserByID = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE id = $1;
	`
	QueryGetUserByUsername = `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1;
	`
	QueryListUsers = `
		SELECT id, username, password_hash, created_at
		FROM users
		ORDER BY created_at;
	`
)
