package queries

const (
	QueryCreateChat = `
		INSERT INTO chats (owner_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at;
	`
	// дубликаты членств молча игнорируются
	QueryInsertMembers = `
		INSERT INTO chat_members (chat_id, user_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING;
	`
	QueryGetChatOwner = `
		SELECT owner_id FROM chats WHERE id = $1;
	`
	QueryListChatsByMember = `
		SELECT c.id, c.name, c.owner_id, c.created_at
		FROM chats AS c
		JOIN chat_members AS m ON m.chat_id = c.id
		WHERE m.user_id = $1
		ORDER BY c.created_at DESC, c.id DESC;
	`
	QueryListChatMembers = `
		SELECT m.chat_id, m.user_id, u.username, m.joined_at
		FROM chat_members AS m
		JOIN users AS u ON u.id = m.user_id
		WHERE m.chat_id = $1
		ORDER BY m.joined_at, m.user_id;
	`
	QueryDeleteMembers = `
		DELETE FROM chat_members
		WHERE chat_id = $1 AND user_id = ANY($2::uuid[]);
	`
	QueryDeleteAllMembers = `
		DELETE FROM chat_members WHERE chat_id = $1;
	`
	QueryDeleteChat = `
		DELETE FROM chats WHERE id = $1;
	`
	QueryCountOwned = `
		SELECT COUNT(*) FROM chats
		WHERE owner_id = $1 AND id = ANY($2::uuid[]);
	`
	QueryCountMemberships = `
		SELECT COUNT(*) FROM chat_members
		WHERE user_id = $1 AND chat_id = ANY($2::uuid[]);
	`
)
