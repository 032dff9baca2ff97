package comments

import (
	"context"
	"sync"
	"time"

	"firewatch/internal/auth"
)

// MemoryStore appends comments under one mutex, so ids are unique and
// strictly increasing even when writers race.
type MemoryStore struct {
	mu       sync.Mutex
	comments []Comment
	nextID   int64
	users    auth.UserStore
}

func NewMemoryStore(users auth.UserStore) *MemoryStore {
	return &MemoryStore{users: users}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, c *Comment) error {
	s.mu.Lock()
	s.nextID++
	c.ID = s.nextID
	c.CreatedAt = time.Now().UTC()
	stored := *c
	stored.User = nil
	s.comments = append(s.comments, stored)
	s.mu.Unlock()

	u, err := s.users.GetByID(ctx, c.UserID)
	if err != nil {
		return err
	}
	c.User = u
	return nil
}

func (s *MemoryStore) ListByFire(ctx context.Context, fireID int64) ([]Comment, error) {
	s.mu.Lock()
	matched := []Comment{}
	for _, c := range s.comments {
		if c.FireID == fireID {
			matched = append(matched, c)
		}
	}
	s.mu.Unlock()

	for i := range matched {
		u, err := s.users.GetByID(ctx, matched[i].UserID)
		if err != nil {
			return nil, err
		}
		matched[i].User = u
	}
	return matched, nil
}
