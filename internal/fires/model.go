package fires

import (
	"time"

	"firewatch/internal/auth"
)

type Status string

const (
	StatusReported Status = "reported"
	StatusSeen     Status = "seen"
	StatusClosed   Status = "closed"
)

// allowedFrom lists the statuses a fire may currently hold for a transition
// to the given target. The lifecycle is monotonic: reported -> seen ->
// closed, with reported -> closed permitted; closed is terminal.
func allowedFrom(to Status) []Status {
	switch to {
	case StatusSeen:
		return []Status{StatusReported}
	case StatusClosed:
		return []Status{StatusReported, StatusSeen}
	default:
		return nil
	}
}

type Fire struct {
	ID          int64      `json:"id"`
	ReporterID  int64      `json:"reporter_id"`
	Reporter    *auth.User `json:"reporter,omitempty"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}
