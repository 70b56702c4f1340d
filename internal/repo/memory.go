package repo

import (
	"context"
	"sync"
	"time"

	"github.com/BuzzLyutic/task-planner-api/internal/model"
)

// MemoryTaskRepo keeps tasks in process memory. Ids come from a counter that
// only grows, so an id freed by Delete is never handed out again.
type MemoryTaskRepo struct {
	mu     sync.Mutex
	tasks  []model.Task
	nextID int64
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{nextID: 1}
}

func (r *MemoryTaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = r.nextID
	t.Completed = false
	r.nextID++
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *MemoryTaskRepo) Get(ctx context.Context, id int64) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i], nil
	}
	return model.Task{}, ErrorNotFound
}

func (r *MemoryTaskRepo) List(ctx context.Context, userID int64) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Task, 0)
	for _, t := range r.tasks {
		if int64(t.UserID) == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Delete is a no-op for unknown ids.
func (r *MemoryTaskRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	}
	return nil
}

func (r *MemoryTaskRepo) SetCompletion(ctx context.Context, id int64, completed bool) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, ErrorNotFound
	}
	r.tasks[i].Completed = completed
	return r.tasks[i], nil
}

func (r *MemoryTaskRepo) indexOf(id int64) int {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

type MemoryUserRepo struct {
	mu     sync.Mutex
	users  []model.User
	nextID int64
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{nextID: 1}
}

// Create fails with ErrorDuplicateUsername on an exact, case-sensitive match.
func (r *MemoryUserRepo) Create(ctx context.Context, username, password string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return model.User{}, ErrorDuplicateUsername
		}
	}

	u := model.User{ID: r.nextID, Username: username, Password: password}
	r.nextID++
	r.users = append(r.users, u)
	return u, nil
}

func (r *MemoryUserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrorNotFound
}

type memoryKey struct {
	resourceID int64
	pending    bool
	expiresAt  time.Time
}

// MemoryKeyStore - ключи идемпотентности в памяти процесса
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]memoryKey
	now  func() time.Time
}

func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{
		keys: make(map[string]memoryKey),
		now:  time.Now,
	}
}

// Reserve claims key like SET NX. A zero ttl never expires.
func (s *MemoryKeyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.keys[key]; ok && !s.expired(existing) {
		return false, nil
	}
	s.keys[key] = memoryKey{pending: true, expiresAt: s.deadline(ttl)}
	return true, nil
}

// Save records the id created under key, replacing the reservation.
func (s *MemoryKeyStore) Save(ctx context.Context, key string, resourceID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[key] = memoryKey{resourceID: resourceID, expiresAt: s.deadline(ttl)}
	return nil
}

func (s *MemoryKeyStore) Get(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.keys[key]
	if !ok {
		return 0, ErrorNotFound
	}
	if s.expired(entry) {
		delete(s.keys, key)
		return 0, ErrorNotFound
	}
	if entry.pending {
		return 0, ErrorKeyPending
	}
	return entry.resourceID, nil
}

func (s *MemoryKeyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, key)
	return nil
}

// Sweep removes expired keys; Get only drops the key it was asked about.
func (s *MemoryKeyStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.keys {
		if s.expired(entry) {
			delete(s.keys, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryKeyStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *MemoryKeyStore) expired(k memoryKey) bool {
	return !k.expiresAt.IsZero() && !s.now().Before(k.expiresAt)
}
