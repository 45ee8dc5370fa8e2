package models

import (
	"time"
)

// User represents a chat platform user with a con balance.
// DisplayName is mutable and not unique; UserID is the stable identity.
type User struct {
	UserID      int64     `db:"user_id"`
	DisplayName string    `db:"display_name"`
	Balance     int64     `db:"balance"`
	JoinedAt    time.Time `db:"joined_at"`
}
