package auth

import "time"

type Role string

const (
	RoleUser        Role = "user"
	RoleFirefighter Role = "firefighter"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleFirefighter
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the server-side half of a bearer token. The token itself is a
// signed JWT whose jti is the session id; deleting the row revokes the token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
