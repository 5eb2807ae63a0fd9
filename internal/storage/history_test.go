// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopvn/shopchat-tui/internal/chat"
)

func openTestCache(t *testing.T) *HistoryCache {
	t.Helper()
	cache, err := Open(t.TempDir())
	require.NoError(t, err, "open cache")
	t.Cleanup(func() { cache.Close() })
	return cache
}

func msg(id, roomID, content string, at time.Time) *chat.ChatMessage {
	return &chat.ChatMessage{
		ID: id, RoomID: roomID, SenderID: "admin-1",
		Content: content, Type: chat.MessageTypeText, CreatedAt: at,
	}
}

func TestSaveAndLoadThread(t *testing.T) {
	cache := openTestCache(t)
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	in := []*chat.ChatMessage{
		msg("m1", "room-1", "xin chào", base),
		msg("m2", "room-1", "cần hỗ trợ gì?", base.Add(time.Minute)),
	}
	require.NoError(t, cache.SaveThread("room-1", in))

	out, err := cache.LoadThread("room-1")
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "m1", out[0].ID, "creation order preserved")
	require.Equal(t, "m2", out[1].ID, "creation order preserved")
	require.Equal(t, "xin chào", out[0].Content, "payload round-trips")
	require.Equal(t, chat.MessageTypeText, out[0].Type)
}

func TestSaveThread_ReplacesPrevious(t *testing.T) {
	cache := openTestCache(t)
	now := time.Now().UTC()

	require.NoError(t, cache.SaveThread("room-1", []*chat.ChatMessage{msg("old", "room-1", "cũ", now)}))
	require.NoError(t, cache.SaveThread("room-1", []*chat.ChatMessage{msg("new", "room-1", "mới", now)}))

	out, err := cache.LoadThread("room-1")
	require.NoError(t, err)
	require.Len(t, out, 1, "save should replace the previous thread")
	require.Equal(t, "new", out[0].ID)
}

func TestLoadThread_UnknownRoomIsEmpty(t *testing.T) {
	cache := openTestCache(t)

	out, err := cache.LoadThread("nope")
	require.NoError(t, err, "unknown room should not error")
	require.Empty(t, out)
}

func TestRoomsAreIsolated(t *testing.T) {
	cache := openTestCache(t)
	now := time.Now().UTC()

	require.NoError(t, cache.SaveThread("room-1", []*chat.ChatMessage{msg("a", "room-1", "một", now)}))
	require.NoError(t, cache.SaveThread("room-2", []*chat.ChatMessage{msg("b", "room-2", "hai", now)}))

	out, err := cache.LoadThread("room-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].ID, "rooms must not bleed into each other")
}

func TestDropRoom(t *testing.T) {
	cache := openTestCache(t)
	now := time.Now().UTC()

	require.NoError(t, cache.SaveThread("room-1", []*chat.ChatMessage{msg("a", "room-1", "một", now)}))
	require.NoError(t, cache.DropRoom("room-1"))

	out, err := cache.LoadThread("room-1")
	require.NoError(t, err)
	require.Empty(t, out, "dropped room should be empty")
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UTC()

	cache, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, cache.SaveThread("room-1", []*chat.ChatMessage{msg("a", "room-1", "bền", now)}))
	require.NoError(t, cache.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	out, err := reopened.LoadThread("room-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "bền", out[0].Content, "data should survive reopen")
}
