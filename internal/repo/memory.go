package repo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory keeps users and runs in process. It backs the service when no
// database is configured, and the handler tests.
type Memory struct {
	mu     sync.RWMutex
	nextID int
	users  map[string]memUser
	// runs is in insertion order.
	runs []Run
	now  func() time.Time
}

type memUser struct {
	id       int
	email    string
	password string
}

func NewMemory() *Memory {
	return &Memory{
		users: map[string]memUser{},
		now:   time.Now,
	}
}

func (m *Memory) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[login]; ok {
		return 0, fmt.Errorf("user %q: %w", login, ErrDuplicate)
	}
	m.nextID++
	m.users[login] = memUser{id: m.nextID, email: email, password: password}
	return m.nextID, nil
}

func (m *Memory) GetBylogin(ctx context.Context, login string) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[login]
	if !ok {
		return 0, "", ErrNotFound
	}
	return u.id, u.password, nil
}

func (m *Memory) SaveRun(ctx context.Context, run Run) (Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.CreatedAt = m.now()
	m.runs = append(m.runs, run)
	return run, nil
}

// ListRuns returns the newest runs of a user first.
func (m *Memory) ListRuns(ctx context.Context, userID, limit int) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Run{}
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if m.runs[i].UserID == userID {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *Memory) GetRun(ctx context.Context, userID int, id uuid.UUID) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.runs {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return Run{}, ErrNotFound
}
