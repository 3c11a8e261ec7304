package category

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemRepo is an in-memory Repository for service, router and server tests
type MemRepo struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]Category

	// InUse reports whether a category is still referenced. Delete fails
	// with ErrCategoryInUse when it returns true.
	InUse func(id int) bool
}

func NewMemRepo() *MemRepo {
	return &MemRepo{nextID: 1, items: map[int]Category{}}
}

func (m *MemRepo) List(_ context.Context) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Category, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemRepo) GetByID(_ context.Context, id int) (*Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.items[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &c, nil
}

func (m *MemRepo) Exists(_ context.Context, id int) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.items[id]
	return ok, nil
}

func (m *MemRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.hasName(name, 0), nil
}

func (m *MemRepo) Create(_ context.Context, name string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasName(name, 0) {
		return nil, ErrCategoryExists
	}

	c := Category{ID: m.nextID, Name: name, CreatedAt: time.Now().UTC()}
	m.items[c.ID] = c
	m.nextID++
	return &c, nil
}

func (m *MemRepo) Update(_ context.Context, id int, name string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.items[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	if m.hasName(name, id) {
		return nil, ErrCategoryExists
	}

	c.Name = name
	m.items[id] = c
	return &c, nil
}

func (m *MemRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrCategoryNotFound
	}
	if m.InUse != nil && m.InUse(id) {
		return ErrCategoryInUse
	}

	delete(m.items, id)
	return nil
}

// hasName must be called with the lock held. The category with id skip is
// ignored.
func (m *MemRepo) hasName(name string, skip int) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, c := range m.items {
		if id != skip && strings.ToLower(strings.TrimSpace(c.Name)) == name {
			return true
		}
	}
	return false
}
