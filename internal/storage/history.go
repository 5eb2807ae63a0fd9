// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local history display cache.
//
// The cache holds the last known message list per room in a SQLite
// database so the thread renders instantly on startup while the fresh
// history fetch is in flight. It is a display cache, not a source of
// truth: the backend history always wins on conflict (the session
// manager merges under id-dedupe).
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/shopvn/shopchat-tui/internal/chat"
)

// =============================================================================
// HISTORY CACHE
// =============================================================================

// HistoryCache persists per-room message lists. Safe for concurrent
// use; the underlying pool is capped at one connection since SQLite
// supports a single writer.
type HistoryCache struct {
	db *sql.DB
}

// Open creates or opens the cache database at dir/history.db.
func Open(dir string) (*HistoryCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("storage: create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: set pragma: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		room_id    TEXT NOT NULL,
		id         TEXT NOT NULL,
		payload    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		PRIMARY KEY (room_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_messages_room_created
		ON messages(room_id, created_at);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: initialize schema: %w", err)
	}

	return &HistoryCache{db: db}, nil
}

// Close releases the database.
func (c *HistoryCache) Close() error {
	return c.db.Close()
}

// SaveThread replaces the cached message list for a room.
func (c *HistoryCache) SaveThread(roomID string, msgs []*chat.ChatMessage) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE room_id = ?", roomID); err != nil {
		return fmt.Errorf("storage: clear room: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO messages (room_id, id, payload, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, msg := range msgs {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("storage: encode message %s: %w", msg.ID, err)
		}
		if _, err := stmt.Exec(roomID, msg.ID, string(payload), msg.CreatedAt); err != nil {
			return fmt.Errorf("storage: insert message %s: %w", msg.ID, err)
		}
	}
	return tx.Commit()
}

// LoadThread returns the cached message list for a room in creation
// order. An unknown room yields an empty list, not an error.
func (c *HistoryCache) LoadThread(roomID string) ([]*chat.ChatMessage, error) {
	rows, err := c.db.Query(
		"SELECT payload FROM messages WHERE room_id = ? ORDER BY created_at, id", roomID)
	if err != nil {
		return nil, fmt.Errorf("storage: query room: %w", err)
	}
	defer rows.Close()

	var msgs []*chat.ChatMessage
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage: scan message: %w", err)
		}
		var msg chat.ChatMessage
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			// A corrupt row must not brick the thread; skip it.
			continue
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

// DropRoom removes a room's cached history, e.g. on logout.
func (c *HistoryCache) DropRoom(roomID string) error {
	_, err := c.db.Exec("DELETE FROM messages WHERE room_id = ?", roomID)
	if err != nil {
		return fmt.Errorf("storage: drop room: %w", err)
	}
	return nil
}
