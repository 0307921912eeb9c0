package users

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository stores users in-memory for tests and scaffolding.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*User
	byEmail map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	copied.Email = strings.ToLower(strings.TrimSpace(copied.Email))
	m.byID[copied.ID] = &copied
	m.byEmail[copied.Email] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	copied := *rec
	return &copied, nil
}

func (m *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	normalized := strings.ToLower(strings.TrimSpace(email))
	id, ok := m.byEmail[normalized]
	if !ok {
		return nil, &NotFoundError{Key: normalized}
	}
	copied := *m.byID[id]
	return &copied, nil
}

func (m *MemoryRepository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*User, 0, len(ids))
	for _, id := range ids {
		if rec, ok := m.byID[id]; ok {
			copied := *rec
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
