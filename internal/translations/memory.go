package translations

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryResourceRepository stores resources in-memory for tests and
// scaffolding.
type MemoryResourceRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Resource
}

func NewMemoryResourceRepository() *MemoryResourceRepository {
	return &MemoryResourceRepository{byID: make(map[uuid.UUID]*Resource)}
}

func (m *MemoryResourceRepository) Create(_ context.Context, record *Resource) (*Resource, error) {
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

func (m *MemoryResourceRepository) GetByID(_ context.Context, id uuid.UUID) (*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "resource", Key: id.String()}
	}
	copied := *rec
	return &copied, nil
}

func (m *MemoryResourceRepository) GetByPath(_ context.Context, projectID uuid.UUID, path string) (*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.byID {
		if rec.ProjectID == projectID && rec.Path == path {
			copied := *rec
			return &copied, nil
		}
	}
	return nil, &NotFoundError{Resource: "resource", Key: path}
}

func (m *MemoryResourceRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Resource
	for _, rec := range m.byID {
		if rec.ProjectID == projectID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// MemoryEntityRepository stores entities in-memory.
type MemoryEntityRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*Entity
	resources ResourceRepository
}

// NewMemoryEntityRepository resolves project membership through resources.
func NewMemoryEntityRepository(resources ResourceRepository) *MemoryEntityRepository {
	return &MemoryEntityRepository{
		byID:      make(map[uuid.UUID]*Entity),
		resources: resources,
	}
}

func (m *MemoryEntityRepository) Create(_ context.Context, record *Entity) (*Entity, error) {
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

func (m *MemoryEntityRepository) GetByID(_ context.Context, id uuid.UUID) (*Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "entity", Key: id.String()}
	}
	copied := *rec
	return &copied, nil
}

func (m *MemoryEntityRepository) GetByKey(_ context.Context, resourceID uuid.UUID, keys ...string) (*Entity, error) {
	if len(keys) == 0 {
		return nil, &NotFoundError{Resource: "entity"}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		wanted[key] = struct{}{}
	}
	var matches []*Entity
	for _, rec := range m.byID {
		if rec.ResourceID != resourceID {
			continue
		}
		if _, ok := wanted[rec.Key]; ok {
			matches = append(matches, rec)
		}
	}
	if len(matches) == 0 {
		return nil, &NotFoundError{Resource: "entity", Key: keys[0]}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Obsolete != matches[j].Obsolete {
			return !matches[i].Obsolete
		}
		return matches[i].Order < matches[j].Order
	})
	copied := *matches[0]
	return &copied, nil
}

func (m *MemoryEntityRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Entity, error) {
	resources, err := m.resources.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	paths := make(map[uuid.UUID]string, len(resources))
	for _, res := range resources {
		paths[res.ID] = res.Path
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Entity
	for _, rec := range m.byID {
		if _, ok := paths[rec.ResourceID]; !ok || rec.Obsolete {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		pi, pj := paths[out[i].ResourceID], paths[out[j].ResourceID]
		if pi != pj {
			return pi < pj
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// MemoryTranslationRepository stores translations in-memory. A single lock
// covers the deactivate-and-insert swap.
type MemoryTranslationRepository struct {
	mu       sync.RWMutex
	records  []*Translation
	entities EntityRepository
}

func NewMemoryTranslationRepository(entities EntityRepository) *MemoryTranslationRepository {
	return &MemoryTranslationRepository{entities: entities}
}

func (m *MemoryTranslationRepository) Create(_ context.Context, record *Translation) (*Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	copied.Active = false
	m.records = append(m.records, &copied)
	out := copied
	return &out, nil
}

func (m *MemoryTranslationRepository) Activate(_ context.Context, record *Translation) (*Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.records {
		if existing.EntityID == record.EntityID && existing.LocaleID == record.LocaleID {
			existing.Active = false
		}
	}
	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	copied.Active = true
	m.records = append(m.records, &copied)
	out := copied
	return &out, nil
}

func (m *MemoryTranslationRepository) ListFor(_ context.Context, entityID, localeID uuid.UUID) ([]*Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Translation
	for _, rec := range m.records {
		if rec.EntityID == entityID && rec.LocaleID == localeID {
			copied := *rec
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MemoryTranslationRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Translation, error) {
	return m.listByProject(ctx, projectID, false)
}

func (m *MemoryTranslationRepository) ListActiveByProject(ctx context.Context, projectID uuid.UUID) ([]*Translation, error) {
	return m.listByProject(ctx, projectID, true)
}

func (m *MemoryTranslationRepository) listByProject(ctx context.Context, projectID uuid.UUID, activeOnly bool) ([]*Translation, error) {
	entities, err := m.entities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ids := make(map[uuid.UUID]struct{}, len(entities))
	for _, entity := range entities {
		ids[entity.ID] = struct{}{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Translation
	for _, rec := range m.records {
		if _, ok := ids[rec.EntityID]; !ok {
			continue
		}
		if activeOnly && !rec.Active {
			continue
		}
		copied := *rec
		out = append(out, &copied)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
