package permissions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-l10n/internal/domain"
)

// Grant gives a user a role. A nil ProjectID applies to every project; a nil
// LocaleID with a project makes the user a project-wide grantee.
type Grant struct {
	bun.BaseModel `bun:"table:translator_grants,alias:tgr"`

	ID        uuid.UUID   `bun:",pk,type:uuid"                                 json:"id"`
	UserID    uuid.UUID   `bun:"user_id,notnull,type:uuid"                     json:"user_id"`
	LocaleID  *uuid.UUID  `bun:"locale_id,type:uuid"                           json:"locale_id,omitempty"`
	ProjectID *uuid.UUID  `bun:"project_id,type:uuid"                          json:"project_id,omitempty"`
	Role      domain.Role `bun:"role,notnull"                                  json:"role"`
	CreatedAt time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

func (g *Grant) coversProject(projectID uuid.UUID) bool {
	return g.ProjectID == nil || *g.ProjectID == projectID
}

func (g *Grant) coversLocale(localeID uuid.UUID) bool {
	return g.LocaleID == nil || *g.LocaleID == localeID
}

// GrantRepository persists grants.
type GrantRepository interface {
	Create(ctx context.Context, record *Grant) (*Grant, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Grant, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Grant, error)
}

func NewGrantRepository(db *bun.DB) repository.Repository[*Grant] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Grant]{
		NewRecord: func() *Grant { return &Grant{} },
		GetID: func(g *Grant) uuid.UUID {
			return g.ID
		},
		SetID: func(g *Grant, id uuid.UUID) {
			g.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(g *Grant) string {
			return g.ID.String()
		},
	})
}

// BunGrantRepository implements GrantRepository.
type BunGrantRepository struct {
	repo repository.Repository[*Grant]
}

func NewBunGrantRepository(db *bun.DB) *BunGrantRepository {
	return &BunGrantRepository{repo: NewGrantRepository(db)}
}

func (r *BunGrantRepository) Create(ctx context.Context, record *Grant) (*Grant, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("grant repository error: %w", err)
	}
	return created, nil
}

func (r *BunGrantRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Grant, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.user_id = ?", userID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("grant repository error: %w", err)
	}
	return records, nil
}

func (r *BunGrantRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Grant, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("grant repository error: %w", err)
	}
	return records, nil
}

// MemoryGrantRepository stores grants in-memory.
type MemoryGrantRepository struct {
	mu      sync.RWMutex
	records []*Grant
}

func NewMemoryGrantRepository() *MemoryGrantRepository {
	return &MemoryGrantRepository{}
}

func (m *MemoryGrantRepository) Create(_ context.Context, record *Grant) (*Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *record
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().UTC()
	}
	m.records = append(m.records, &copied)
	out := copied
	return &out, nil
}

func (m *MemoryGrantRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*Grant, error) {
	return m.filter(func(g *Grant) bool { return g.UserID == userID }), nil
}

func (m *MemoryGrantRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Grant, error) {
	return m.filter(func(g *Grant) bool { return g.ProjectID != nil && *g.ProjectID == projectID }), nil
}

func (m *MemoryGrantRepository) filter(match func(*Grant) bool) []*Grant {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*Grant
	for _, rec := range m.records {
		if match(rec) {
			copied := *rec
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
