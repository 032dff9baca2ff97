package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryUserStore keeps users in a mutex-guarded map. Used by tests and by
// DB-less runs (FIREWATCH_STORE=memory).
type MemoryUserStore struct {
	mu     sync.Mutex
	users  map[int64]*User
	byName map[string]int64
	nextID int64
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:  make(map[int64]*User),
		byName: make(map[string]int64),
	}
}

var _ UserStore = (*MemoryUserStore)(nil)

func (s *MemoryUserStore) Create(ctx context.Context, name string, role Role) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[name]; ok {
		return nil, ErrNameTaken
	}
	s.nextID++
	u := &User{
		ID:        s.nextID,
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.byName[u.Name] = u.ID
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *MemoryUserStore) GetByName(ctx context.Context, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byName[name]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *s.users[id]
	return &out, nil
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

var _ SessionStore = (*MemorySessionStore)(nil)

func (s *MemorySessionStore) Create(ctx context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *sess
	s.sessions[sess.ID] = &stored
	return nil
}

func (s *MemorySessionStore) GetByID(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	out := *sess
	return &out, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
