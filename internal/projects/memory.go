package projects

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryProjectRepository stores projects in-memory for tests and scaffolding.
type MemoryProjectRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Project
	bySlug  map[string]uuid.UUID
	history map[string]uuid.UUID
	links   map[uuid.UUID]map[uuid.UUID]struct{}
	locales LocaleRepository
}

// NewMemoryProjectRepository returns a project repository that resolves
// locale links through locales.
func NewMemoryProjectRepository(locales LocaleRepository) *MemoryProjectRepository {
	return &MemoryProjectRepository{
		byID:    make(map[uuid.UUID]*Project),
		bySlug:  make(map[string]uuid.UUID),
		history: make(map[string]uuid.UUID),
		links:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
		locales: locales,
	}
}

func (m *MemoryProjectRepository) Create(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bySlug[record.Slug]; exists {
		return nil, ErrSlugExists
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	now := time.Now().UTC()
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	m.byID[copied.ID] = &copied
	m.bySlug[copied.Slug] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryProjectRepository) Update(_ context.Context, record *Project) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: record.ID.String()}
	}
	if existing.Slug != record.Slug {
		if owner, taken := m.bySlug[record.Slug]; taken && owner != record.ID {
			return nil, ErrSlugExists
		}
		delete(m.bySlug, existing.Slug)
		m.bySlug[record.Slug] = record.ID
	}
	copied := *record
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = time.Now().UTC()
	m.byID[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m *MemoryProjectRepository) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: id.String()}
	}
	copied := *rec
	return &copied, nil
}

func (m *MemoryProjectRepository) GetBySlug(_ context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.bySlug[slug]
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: slug}
	}
	copied := *m.byID[id]
	return &copied, nil
}

func (m *MemoryProjectRepository) GetByName(_ context.Context, name string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.byID {
		if rec.Name == name {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, &NotFoundError{Resource: "project", Key: name}
}

func (m *MemoryProjectRepository) List(_ context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Project, 0, len(m.byID))
	for _, rec := range m.byID {
		copied := *rec
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryProjectRepository) AddSlugHistory(_ context.Context, record *ProjectSlugHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history[record.OldSlug] = record.ProjectID
	return nil
}

func (m *MemoryProjectRepository) GetBySlugHistory(ctx context.Context, oldSlug string) (*Project, error) {
	m.mu.RLock()
	id, ok := m.history[oldSlug]
	m.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Resource: "project", Key: oldSlug}
	}
	return m.GetByID(ctx, id)
}

func (m *MemoryProjectRepository) AddLocale(_ context.Context, projectID, localeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.links[projectID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		m.links[projectID] = set
	}
	set[localeID] = struct{}{}
	return nil
}

func (m *MemoryProjectRepository) ListLocales(ctx context.Context, projectID uuid.UUID) ([]*Locale, error) {
	m.mu.RLock()
	ids := make([]uuid.UUID, 0, len(m.links[projectID]))
	for id := range m.links[projectID] {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	out := make([]*Locale, 0, len(ids))
	for _, id := range ids {
		locale, err := m.locales.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, locale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MemoryLocaleRepository stores locales in-memory.
type MemoryLocaleRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Locale
	byCode map[string]uuid.UUID
}

func NewMemoryLocaleRepository() *MemoryLocaleRepository {
	return &MemoryLocaleRepository{
		byID:   make(map[uuid.UUID]*Locale),
		byCode: make(map[string]uuid.UUID),
	}
}

func (m *MemoryLocaleRepository) Create(_ context.Context, record *Locale) (*Locale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.byID[copied.ID] = &copied
	m.byCode[copied.Code] = copied.ID
	out := copied
	return &out, nil
}

func (m *MemoryLocaleRepository) GetByID(_ context.Context, id uuid.UUID) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "locale", Key: id.String()}
	}
	copied := *rec
	return &copied, nil
}

func (m *MemoryLocaleRepository) GetByCode(_ context.Context, code string) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, &NotFoundError{Resource: "locale", Key: code}
	}
	copied := *m.byID[id]
	return &copied, nil
}

func (m *MemoryLocaleRepository) GetByName(_ context.Context, name string) (*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.byID {
		if strings.EqualFold(rec.Name, name) {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, &NotFoundError{Resource: "locale", Key: name}
}

func (m *MemoryLocaleRepository) List(_ context.Context) ([]*Locale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Locale, 0, len(m.byID))
	for _, rec := range m.byID {
		copied := *rec
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// MemoryTagRepository stores tags in-memory.
type MemoryTagRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*Tag
	resources map[uuid.UUID]map[uuid.UUID]struct{}
}

func NewMemoryTagRepository() *MemoryTagRepository {
	return &MemoryTagRepository{
		byID:      make(map[uuid.UUID]*Tag),
		resources: make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (m *MemoryTagRepository) Create(_ context.Context, record *Tag) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	m.byID[copied.ID] = &copied
	out := copied
	return &out, nil
}

func (m *MemoryTagRepository) AttachResource(_ context.Context, tagID, resourceID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[tagID]; !ok {
		return &NotFoundError{Resource: "tag", Key: tagID.String()}
	}
	set, ok := m.resources[tagID]
	if !ok {
		set = make(map[uuid.UUID]struct{})
		m.resources[tagID] = set
	}
	set[resourceID] = struct{}{}
	return nil
}

func (m *MemoryTagRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Tag
	for _, rec := range m.byID {
		if rec.ProjectID != projectID {
			continue
		}
		copied := *rec
		copied.ResourceCount = len(m.resources[rec.ID])
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}
