package user

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemRepo is an in-memory credential store for service, router and server
// tests
type MemRepo struct {
	mu     sync.RWMutex
	nextID int
	byName map[string]Credentials
}

func NewMemRepo() *MemRepo {
	return &MemRepo{nextID: 1, byName: map[string]Credentials{}}
}

func (m *MemRepo) List(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]User, 0, len(m.byName))
	for _, c := range m.byName {
		out = append(out, c.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MemRepo) GetByID(_ context.Context, id int) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.byName {
		if c.ID == id {
			u := c.User
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byName[username]
	return ok, nil
}

func (m *MemRepo) FindByUsername(_ context.Context, username string) (*Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.byName[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &c, nil
}

func (m *MemRepo) Create(_ context.Context, username string, hash, salt []byte) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[username]; ok {
		return nil, ErrDuplicateUser
	}

	c := Credentials{
		User:         User{ID: m.nextID, Username: username, CreatedAt: time.Now().UTC()},
		PasswordHash: append([]byte(nil), hash...),
		Salt:         append([]byte(nil), salt...),
	}
	m.byName[username] = c
	m.nextID++

	u := c.User
	return &u, nil
}
