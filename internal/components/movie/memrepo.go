package movie

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
	items  map[int]Movie
}

func NewMemRepo() *MemRepo {
	return &MemRepo{nextID: 1, items: map[int]Movie{}}
}

func (m *MemRepo) List(_ context.Context) ([]Movie, error) {
	return m.filter(func(Movie) bool { return true }), nil
}

func (m *MemRepo) GetByID(_ context.Context, id int) (*Movie, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mv, ok := m.items[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return &mv, nil
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

func (m *MemRepo) ListByCategory(_ context.Context, categoryID int) ([]Movie, error) {
	return m.filter(func(mv Movie) bool { return mv.CategoryID == categoryID }), nil
}

func (m *MemRepo) Search(_ context.Context, term string) ([]Movie, error) {
	term = strings.ToLower(term)
	return m.filter(func(mv Movie) bool {
		return strings.Contains(strings.ToLower(mv.Name), term) ||
			strings.Contains(strings.ToLower(mv.Description), term)
	}), nil
}

// HasCategory reports whether any movie references the category
func (m *MemRepo) HasCategory(categoryID int) bool {
	return len(m.filter(func(mv Movie) bool { return mv.CategoryID == categoryID })) > 0
}

func (m *MemRepo) Create(_ context.Context, mv Movie) (*Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasName(mv.Name, 0) {
		return nil, ErrMovieExists
	}

	mv.ID = m.nextID
	mv.CreatedAt = time.Now().UTC()
	m.items[mv.ID] = mv
	m.nextID++
	return &mv, nil
}

func (m *MemRepo) Update(_ context.Context, id int, c Changes) (*Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mv, ok := m.items[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	if c.Name != nil && m.hasName(*c.Name, id) {
		return nil, ErrMovieExists
	}

	if c.Name != nil {
		mv.Name = *c.Name
	}
	if c.Description != nil {
		mv.Description = *c.Description
	}
	if c.Duration != nil {
		mv.Duration = *c.Duration
	}
	switch {
	case c.ClearReleaseDate:
		mv.ReleaseDate = nil
	case c.ReleaseDate != nil:
		d := *c.ReleaseDate
		mv.ReleaseDate = &d
	}
	if c.CategoryID != nil {
		mv.CategoryID = *c.CategoryID
	}
	if c.Rating != nil {
		mv.Rating = *c.Rating
	}

	m.items[id] = mv
	return &mv, nil
}

func (m *MemRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrMovieNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemRepo) filter(keep func(Movie) bool) []Movie {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []Movie{}
	for _, mv := range m.items {
		if keep(mv) {
			out = append(out, mv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// hasName must be called with the lock held
func (m *MemRepo) hasName(name string, skip int) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, mv := range m.items {
		if id != skip && strings.ToLower(strings.TrimSpace(mv.Name)) == name {
			return true
		}
	}
	return false
}
