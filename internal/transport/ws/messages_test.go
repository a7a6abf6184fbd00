package ws

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_Chats(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := require.New(t)

		id := uuid.NewString()
		var dst ChatsPayload
		err := decodePayload(map[string]any{"chatIds": []string{id}}, &dst)
		req.NoError(err)
		req.Equal([]string{id}, dst.ChatIDs)
	})

	t.Run("empty list", func(t *testing.T) {
		var dst ChatsPayload
		err := decodePayload(map[string]any{"chatIds": []string{}}, &dst)
		require.Error(t, err)
	})

	t.Run("missing field", func(t *testing.T) {
		var dst ChatsPayload
		err := decodePayload(map[string]any{}, &dst)
		require.Error(t, err)
	})

	t.Run("non-uuid id", func(t *testing.T) {
		var dst ChatsPayload
		err := decodePayload(map[string]any{"chatIds": []string{"chat-1"}}, &dst)
		require.Error(t, err)
	})
}

func TestDecodePayload_CreateMessage(t *testing.T) {
	chatID := uuid.NewString()

	t.Run("valid", func(t *testing.T) {
		req := require.New(t)

		var dst CreateMessagePayload
		err := decodePayload(map[string]any{"chatId": chatID, "content": "привет"}, &dst)
		req.NoError(err)
		req.Equal(chatID, dst.ChatID)
		req.Equal("привет", dst.Content)
	})

	t.Run("empty content", func(t *testing.T) {
		var dst CreateMessagePayload
		err := decodePayload(map[string]any{"chatId": chatID, "content": ""}, &dst)
		require.Error(t, err)
	})

	t.Run("content over limit", func(t *testing.T) {
		var dst CreateMessagePayload
		err := decodePayload(map[string]any{"chatId": chatID, "content": strings.Repeat("a", 161)}, &dst)
		require.Error(t, err)
	})
}

func TestDecodePayload_GetMessages(t *testing.T) {
	chatID := uuid.NewString()

	t.Run("take and skip optional", func(t *testing.T) {
		req := require.New(t)

		var dst GetMessagesPayload
		err := decodePayload(map[string]any{"chatId": chatID}, &dst)
		req.NoError(err)
		req.Zero(dst.Take)
		req.Zero(dst.Skip)
	})

	t.Run("negative take", func(t *testing.T) {
		var dst GetMessagesPayload
		err := decodePayload(map[string]any{"chatId": chatID, "take": -1}, &dst)
		require.Error(t, err)
	})

	t.Run("negative skip", func(t *testing.T) {
		var dst GetMessagesPayload
		err := decodePayload(map[string]any{"chatId": chatID, "skip": -1}, &dst)
		require.Error(t, err)
	})

	t.Run("non-object payload", func(t *testing.T) {
		var dst GetMessagesPayload
		err := decodePayload("just a string", &dst)
		require.Error(t, err)
	})
}
