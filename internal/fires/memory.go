package fires

import (
	"context"
	"sort"
	"sync"
	"time"

	"firewatch/internal/auth"
)

// MemoryStore is the in-process Store used by tests and DB-less runs.
// One mutex guards the whole table, which makes Transition a true
// check-and-set: the read of the current status and the write of the new
// one happen inside the same critical section.
type MemoryStore struct {
	mu     sync.Mutex
	fires  map[int64]*Fire
	nextID int64
	users  auth.UserStore
}

func NewMemoryStore(users auth.UserStore) *MemoryStore {
	return &MemoryStore{
		fires: make(map[int64]*Fire),
		users: users,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(ctx context.Context, f *Fire) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Status == "" {
		f.Status = StatusReported
	}
	s.nextID++
	f.ID = s.nextID
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	stored := *f
	stored.Reporter = nil
	s.fires[f.ID] = &stored
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*Fire, error) {
	s.mu.Lock()
	f, ok := s.fires[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrFireNotFound
	}
	out := *f
	s.mu.Unlock()
	return s.withReporter(ctx, &out)
}

func (s *MemoryStore) List(ctx context.Context, flt ListFilter) ([]Fire, int, error) {
	s.mu.Lock()
	all := make([]Fire, 0, len(s.fires))
	for _, f := range s.fires {
		if flt.Status != "" && f.Status != flt.Status {
			continue
		}
		all = append(all, *f)
	}
	s.mu.Unlock()

	// Newest first, matching the Postgres store's ORDER BY.
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	if flt.Offset >= len(all) {
		all = nil
	} else {
		all = all[flt.Offset:]
	}
	if flt.Limit > 0 && flt.Limit < len(all) {
		all = all[:flt.Limit]
	}

	res := make([]Fire, 0, len(all))
	for i := range all {
		f, err := s.withReporter(ctx, &all[i])
		if err != nil {
			return nil, 0, err
		}
		res = append(res, *f)
	}
	return res, total, nil
}

func (s *MemoryStore) Transition(ctx context.Context, id int64, from []Status, to Status) (*Fire, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fires[id]
	if !ok {
		return nil, ErrNotTransitioned
	}
	allowed := false
	for _, st := range from {
		if f.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrNotTransitioned
	}
	f.Status = to
	f.UpdatedAt = time.Now().UTC()
	out := *f
	return &out, nil
}

func (s *MemoryStore) withReporter(ctx context.Context, f *Fire) (*Fire, error) {
	u, err := s.users.GetByID(ctx, f.ReporterID)
	if err != nil {
		return nil, err
	}
	f.Reporter = u
	return f, nil
}
