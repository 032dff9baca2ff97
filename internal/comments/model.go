package comments

import (
	"time"

	"firewatch/internal/auth"
)

// Comment is append-only: no operation edits or deletes one.
type Comment struct {
	ID        int64      `json:"id"`
	FireID    int64      `json:"fire_id"`
	UserID    int64      `json:"user_id"`
	User      *auth.User `json:"user,omitempty"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}
