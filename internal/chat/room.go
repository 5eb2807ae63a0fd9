// Copyright (c) 2025 ShopVN Team
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// Room identifies a 1:1 conversation between a user and admin support.
// The backend owns get-or-create semantics; the client only reads the id.
type Room struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	AdminID   string    `json:"adminId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
